package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-magazine-kit/pkg/domain"
)

const (
	// DefaultPageFileName は生成ページの既定ファイル名です。
	DefaultPageFileName = "magazine.html"
	// DefaultArticlesFileName は記事バッチ結果の既定ファイル名です。
	DefaultArticlesFileName = "articles.json"
	// DefaultLayoutFileName はページのレイアウト判定結果の既定ファイル名です。
	DefaultLayoutFileName = "layout.json"
)

// OutputWriter はデータを外部ストレージに保存するためのインターフェースです。
type OutputWriter interface {
	Write(ctx context.Context, path string, data []byte) error
}

// LocalWriter はローカルファイルシステムへの書き込みを行います。
type LocalWriter struct{}

// Write は親ディレクトリを作成した上でファイルを書き込みます。
func (LocalWriter) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ディレクトリの作成に失敗しました %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// PublishResult は書き出したファイルの情報を保持します。
type PublishResult struct {
	HTMLPath   string
	LayoutPath string
}

// pageMetadata は layout.json の内容です。HTML 本体は含めません。
type pageMetadata struct {
	ID          string                `json:"page_id"`
	Layout      domain.LayoutDecision `json:"layout"`
	Substituted []int                 `json:"substituted"`
	Fallbacks   []int                 `json:"fallbacks"`
	Failed      bool                  `json:"failed"`
}

func newPageMetadata(page *domain.PageResult) pageMetadata {
	return pageMetadata{
		ID:          page.ID,
		Layout:      page.Layout,
		Substituted: page.Substituted,
		Fallbacks:   page.Fallbacks,
		Failed:      page.Failed,
	}
}

// MagazinePublisher は生成物の永続化を担います。
type MagazinePublisher struct {
	writer OutputWriter
}

// NewMagazinePublisher は MagazinePublisher を生成します。writer が nil の場合はローカルに書き込みます。
func NewMagazinePublisher(writer OutputWriter) *MagazinePublisher {
	if writer == nil {
		writer = LocalWriter{}
	}
	return &MagazinePublisher{writer: writer}
}

// PublishPage は HTML を htmlPath に、レイアウト判定を同じディレクトリの layout.json に保存します。
func (p *MagazinePublisher) PublishPage(ctx context.Context, page *domain.PageResult, htmlPath string) (PublishResult, error) {
	result := PublishResult{}
	if page == nil {
		return result, fmt.Errorf("page が nil です")
	}

	if err := p.writer.Write(ctx, htmlPath, []byte(page.HTML)); err != nil {
		return result, fmt.Errorf("HTMLファイルの書き込みに失敗しました: %w", err)
	}
	result.HTMLPath = htmlPath

	layoutPath, err := ResolveOutputPath(filepath.Dir(htmlPath), DefaultLayoutFileName)
	if err != nil {
		return result, err
	}
	data, err := json.MarshalIndent(newPageMetadata(page), "", "  ")
	if err != nil {
		return result, fmt.Errorf("レイアウト情報のエンコードに失敗しました: %w", err)
	}
	if err := p.writer.Write(ctx, layoutPath, data); err != nil {
		return result, fmt.Errorf("レイアウト情報の書き込みに失敗しました: %w", err)
	}
	result.LayoutPath = layoutPath

	slog.InfoContext(ctx, "ページを保存しました", "html", htmlPath, "layout", page.Layout.Label)
	return result, nil
}

// PublishArticles は記事バッチの結果を JSON で保存します。
func (p *MagazinePublisher) PublishArticles(ctx context.Context, articles domain.Articles, path string) error {
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("記事のエンコードに失敗しました: %w", err)
	}
	if err := p.writer.Write(ctx, path, data); err != nil {
		return fmt.Errorf("記事ファイルの書き込みに失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "記事を保存しました", "path", path, "count", len(articles))
	return nil
}
