package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// このファイルの /analyze はデバッグ用のスタブです。
// 生成パイプラインは一切呼ばず、固定の HTML ファイルを返します。

const (
	overrideMode       = "HARDCODED_OVERRIDE"
	coverLayout        = "cover"
	coverFileName      = "cover.html"
	articleFileName    = "article.html"
	pagesDataFormField = "pages_data"
)

// analyzePage は pages_data の1要素です。
type analyzePage struct {
	ID         any             `json:"id"`
	LayoutType json.RawMessage `json:"layout_type"`
}

// isCover はフィールドがない場合だけ cover とみなします。null や文字列以外は article です。
func (p analyzePage) isCover() bool {
	if len(p.LayoutType) == 0 {
		return true
	}
	var layout string
	if err := json.Unmarshal(p.LayoutType, &layout); err != nil {
		return false
	}
	return layout == coverLayout
}

type analyzeResult struct {
	PageID          any               `json:"page_id"`
	Analysis        map[string]string `json:"analysis"`
	Recommendations []any             `json:"recommendations"`
	RenderedHTML    string            `json:"rendered_html"`
}

// analyzeError はファイル読み込み失敗時の結果で、rendered_html だけを持ちます。
type analyzeError struct {
	RenderedHTML string `json:"rendered_html"`
}

type analyzeResponse struct {
	Results []any `json:"results"`
}

// AnalyzeOverride は固定文書を返す /analyze ハンドラーです。
type AnalyzeOverride struct {
	dir   string
	delay time.Duration
}

// NewAnalyzeOverride は dir の cover.html と article.html を返すハンドラーを生成します。
func NewAnalyzeOverride(dir string, delay time.Duration) *AnalyzeOverride {
	return &AnalyzeOverride{dir: dir, delay: delay}
}

func (o *AnalyzeOverride) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pages, status, msg := parsePagesData(r)
	if status != 0 {
		writeError(w, status, msg)
		return
	}

	slog.WarnContext(ctx, "[Override] 固定 HTML を返すスタブです。生成は行いません",
		"pages", len(pages), "delay", o.delay)

	if o.delay > 0 {
		timer := time.NewTimer(o.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.WarnContext(ctx, "[Override] 待機中にリクエストがキャンセルされました")
			return
		case <-timer.C:
		}
	}

	coverHTML, articleHTML, err := o.readDocuments()
	if err != nil {
		slog.ErrorContext(ctx, "[Override] 固定ファイルの読み込みに失敗しました", "error", err)
		writeJSON(w, http.StatusOK, analyzeResponse{Results: []any{analyzeError{
			RenderedHTML: fmt.Sprintf("<div style='color:red'>Error reading hardcoded files: %s</div>", err),
		}}})
		return
	}

	results := make([]any, 0, len(pages))
	for _, page := range pages {
		cover := page.isCover()
		slog.InfoContext(ctx, "[Override] ページを処理します", "page_id", page.ID, "cover", cover)

		html := articleHTML
		if cover {
			html = coverHTML
		}
		results = append(results, analyzeResult{
			PageID:          page.ID,
			Analysis:        map[string]string{"mode": overrideMode},
			Recommendations: []any{},
			RenderedHTML:    html,
		})
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Results: results})
}

// parsePagesData はフォームの pages_data を検証します。不正な場合は 400 とメッセージを返します。
func parsePagesData(r *http.Request) ([]analyzePage, int, string) {
	raw := r.FormValue(pagesDataFormField)
	if raw == "" {
		if _, ok := r.Form[pagesDataFormField]; !ok {
			return nil, http.StatusUnprocessableEntity, "pages_data is required"
		}
	}

	var pages []analyzePage
	if err := json.Unmarshal([]byte(raw), &pages); err != nil {
		return nil, http.StatusBadRequest, "Invalid JSON in pages_data"
	}
	if len(pages) == 0 {
		return nil, http.StatusBadRequest, "Pages data cannot be empty list"
	}
	return pages, 0, ""
}

func (o *AnalyzeOverride) readDocuments() (string, string, error) {
	cover, err := os.ReadFile(filepath.Join(o.dir, coverFileName))
	if err != nil {
		return "", "", err
	}
	article, err := os.ReadFile(filepath.Join(o.dir, articleFileName))
	if err != nil {
		return "", "", err
	}
	return string(cover), string(article), nil
}
