package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-magazine-kit/pkg/domain"
	"github.com/shouni/go-magazine-kit/pkg/generator"
)

// EditorResult は記事バッチの処理結果です。
type EditorResult struct {
	Articles  domain.Articles
	Outcomes  []generator.ArticleOutcome
	Annotated int
}

// MagazineEditorRunner は必要に応じて画像解析を行い、記事バッチを編集します。
type MagazineEditorRunner struct {
	editor    *generator.ArticleEditor
	captioner *generator.VisionCaptioner
}

// NewMagazineEditorRunner は MagazineEditorRunner を初期化します。captioner は nil でも構いません。
func NewMagazineEditorRunner(editor *generator.ArticleEditor, captioner *generator.VisionCaptioner) (*MagazineEditorRunner, error) {
	if editor == nil {
		return nil, fmt.Errorf("ArticleEditor は必須です")
	}
	return &MagazineEditorRunner{editor: editor, captioner: captioner}, nil
}

// Run は入力を変更せずに、原稿を付与した記事を返します。
func (r *MagazineEditorRunner) Run(ctx context.Context, articles domain.Articles, analyzeImages bool) (*EditorResult, error) {
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: 記事がありません", ErrInvalidRequest)
	}

	work := cloneArticles(articles)
	result := &EditorResult{}

	if analyzeImages {
		if r.captioner == nil {
			slog.WarnContext(ctx, "画像解析が利用できないため、既定のヒントで続行します")
		} else {
			result.Annotated = r.captioner.Annotate(ctx, work)
		}
	}

	slog.InfoContext(ctx, "MagazineEditorRunner: 記事の編集を開始します", "count", len(work))
	result.Articles, result.Outcomes = r.editor.EditBatch(ctx, work)
	return result, nil
}

func cloneArticles(src domain.Articles) domain.Articles {
	dst := make(domain.Articles, len(src))
	for id, a := range src {
		if a == nil {
			dst[id] = &domain.Article{}
			continue
		}
		c := *a
		if a.Vision != nil {
			v := *a.Vision
			c.Vision = &v
		}
		dst[id] = &c
	}
	return dst
}
