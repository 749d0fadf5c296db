package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/shouni/go-magazine-kit/pkg/asset"
	"github.com/shouni/go-magazine-kit/pkg/domain"
	"github.com/shouni/go-magazine-kit/pkg/generator"
	"github.com/shouni/go-magazine-kit/pkg/runner"
)

const (
	downloadFileName = "magazine.html"
	imagesFormField  = "images"
)

type articlesRequest struct {
	Articles      domain.Articles `json:"articles"`
	AnalyzeImages bool            `json:"analyze_images"`
}

type articlesResponse struct {
	Articles domain.Articles            `json:"articles"`
	Outcomes []generator.ArticleOutcome `json:"outcomes"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "pages": s.store.Len()})
}

// handleGenerate はマルチパートの content/category/images から1ページを生成します。
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	req := domain.PageRequest{
		Content:  r.FormValue("content"),
		Category: r.FormValue("category"),
	}
	if r.MultipartForm != nil {
		images, err := readUploads(r.MultipartForm.File[imagesFormField])
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Images = images
	}

	page, err := s.pages.Run(r.Context(), req)
	if errors.Is(err, runner.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "ページ生成に失敗しました", "error", err)
		writeError(w, http.StatusInternalServerError, "page generation failed")
		return
	}

	s.store.Put(page)
	writeJSON(w, http.StatusOK, page)
}

// handleGetPage は保存済みのページを magazine.html としてダウンロードさせます。
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	page, ok := s.store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadFileName))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, page.HTML)
}

// handleArticles は記事バッチを編集します。
func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	var req articlesRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxUploadBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if id, ok := findLocalImage(req.Articles); ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("article %s: image must be an http(s) URL", id))
		return
	}

	res, err := s.editor.Run(r.Context(), req.Articles, req.AnalyzeImages)
	if errors.Is(err, runner.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "記事の編集に失敗しました", "error", err)
		writeError(w, http.StatusInternalServerError, "article editing failed")
		return
	}
	writeJSON(w, http.StatusOK, articlesResponse{Articles: res.Articles, Outcomes: res.Outcomes})
}

// findLocalImage は http(s) URL 以外の画像参照を持つ記事を探します。
// サーバーはローカルパスを受け付けません。
func findLocalImage(articles domain.Articles) (string, bool) {
	for _, id := range articles.SortedIDs() {
		if a := articles[id]; a != nil && a.Image != "" && !asset.IsRemote(a.Image) {
			return id, true
		}
	}
	return "", false
}

func readUploads(files []*multipart.FileHeader) ([]domain.SourceImage, error) {
	images := make([]domain.SourceImage, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("アップロード %s を開けません: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("アップロード %s を読み込めません: %w", fh.Filename, err)
		}
		images = append(images, domain.SourceImage{Name: fh.Filename, Data: data})
	}
	return images, nil
}
