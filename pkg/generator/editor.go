package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-magazine-kit/pkg/adapters"
	"github.com/shouni/go-magazine-kit/pkg/director"
	"github.com/shouni/go-magazine-kit/pkg/domain"
	"github.com/shouni/go-magazine-kit/pkg/prompts"
)

const (
	passthroughSubhead = "Original Draft"
	errorLabel         = "Error"
)

// manuscriptFields は構造化出力で要求するフィールドです。
var manuscriptFields = []adapters.Field{
	{Name: "headline"},
	{Name: "subhead"},
	{Name: "body"},
	{Name: "pull_quote"},
	{Name: "caption"},
	{Name: "tags", List: true},
}

// ArticleStatus はバッチ内の1記事の処理結果です。
type ArticleStatus string

const (
	StatusGenerated   ArticleStatus = "generated"
	StatusPassthrough ArticleStatus = "passthrough"
	StatusFailed      ArticleStatus = "failed"
)

// ArticleOutcome は記事ごとの処理結果の要約です。
type ArticleOutcome struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Mode     director.EditMode `json:"mode"`
	Tone     string            `json:"tone"`
	Status   ArticleStatus     `json:"status"`
	Headline string            `json:"headline"`
}

// ArticleEditor は記事レコードごとに原稿を生成します。
type ArticleEditor struct {
	generator adapters.Generator
	prompts   prompts.PromptBuilder
}

// NewArticleEditor は ArticleEditor を生成します。generator が nil の場合、生成対象の記事はエラー原稿になります。
func NewArticleEditor(gen adapters.Generator, pb prompts.PromptBuilder) (*ArticleEditor, error) {
	if pb == nil {
		return nil, fmt.Errorf("PromptBuilder は必須です")
	}
	return &ArticleEditor{generator: gen, prompts: pb}, nil
}

// EditBatch は記事ID の昇順に1件ずつ処理し、原稿を付与した新しいマップを返します。
// 1件の失敗はエラー原稿に置き換えられ、残りの記事の処理は続行されます。
func (e *ArticleEditor) EditBatch(ctx context.Context, articles domain.Articles) (domain.Articles, []ArticleOutcome) {
	out := make(domain.Articles, len(articles))
	outcomes := make([]ArticleOutcome, 0, len(articles))

	for _, id := range articles.SortedIDs() {
		src := articles[id]
		if src == nil {
			src = &domain.Article{}
		}
		article := *src

		outcome := ArticleOutcome{ID: id, Title: article.DisplayTitle(), Tone: article.TargetTone()}

		if !article.Generated() {
			article.Manuscript = passthroughManuscript(&article)
			outcome.Status = StatusPassthrough
		} else {
			outcome.Mode = director.SelectEditMode(article.Request)
			ms, err := e.edit(ctx, id, &article, outcome.Mode)
			if err != nil {
				slog.ErrorContext(ctx, "記事の生成に失敗しました", "article_id", id, "error", err)
				ms = errorManuscript(&article, err)
				outcome.Status = StatusFailed
			} else {
				outcome.Status = StatusGenerated
			}
			article.Manuscript = ms
		}

		outcome.Headline = article.Manuscript.Headline
		out[id] = &article
		outcomes = append(outcomes, outcome)
	}
	return out, outcomes
}

func (e *ArticleEditor) edit(ctx context.Context, id string, article *domain.Article, mode director.EditMode) (*domain.Manuscript, error) {
	if e.generator == nil {
		return nil, adapters.ErrMissingAPIKey
	}
	if article.Plan == nil {
		slog.WarnContext(ctx, "プランがないため既定のトーンとレイアウトを使います", "article_id", id)
	}

	templateMode := prompts.ModeEditorCreate
	if mode == director.ModePolish {
		templateMode = prompts.ModeEditorPolish
	}

	layoutType := article.LayoutType()
	prompt, err := e.prompts.Build(templateMode, prompts.TemplateData{
		Title:      article.DisplayTitle(),
		Request:    strings.TrimSpace(article.Request),
		ToneGuide:  director.ToneGuide(article.TargetTone()),
		ImageHint:  article.ImageDescription(),
		LayoutType: layoutType,
		BodyRule:   director.SelectBodyFormat(layoutType).Rule(),
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "記事の生成を依頼します", "article_id", id, "mode", mode, "tone", article.TargetTone())

	raw, err := e.generator.Generate(ctx, adapters.Request{
		Prompt: prompt,
		Format: adapters.FormatJSON,
		Fields: manuscriptFields,
	})
	if err != nil {
		return nil, err
	}

	ms, err := parseManuscript(raw)
	if err != nil {
		return nil, err
	}
	if article.HasExplicitTitle() {
		ms.Headline = strings.TrimSpace(article.Title)
	}
	return ms, nil
}

// parseManuscript は必須フィールドがすべて揃った原稿だけを受け付けます。
func parseManuscript(raw string) (*domain.Manuscript, error) {
	obj, err := decodeObject(raw, domain.ManuscriptFields)
	if err != nil {
		return nil, err
	}

	ms := &domain.Manuscript{}
	for key, dst := range map[string]*string{
		"headline":   &ms.Headline,
		"subhead":    &ms.Subhead,
		"body":       &ms.Body,
		"pull_quote": &ms.PullQuote,
		"caption":    &ms.Caption,
	} {
		if err := json.Unmarshal(obj[key], dst); err != nil {
			return nil, fmt.Errorf("フィールド %s が文字列ではありません: %w", key, err)
		}
	}

	tags, err := decodeTags(obj["tags"])
	if err != nil {
		return nil, err
	}
	ms.Tags = tags
	return ms, nil
}

// decodeTags は文字列配列、または単一の文字列を受け付けます。
func decodeTags(raw json.RawMessage) ([]string, error) {
	var tags []string
	if err := json.Unmarshal(raw, &tags); err == nil {
		if tags == nil {
			tags = []string{}
		}
		return tags, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("フィールド tags の形式が不正です: %w", err)
	}
	return []string{single}, nil
}

func passthroughManuscript(a *domain.Article) *domain.Manuscript {
	title := a.DisplayTitle()
	return &domain.Manuscript{
		Headline:  title,
		Subhead:   passthroughSubhead,
		Body:      a.Request,
		PullQuote: "",
		Caption:   "Visual context for " + title,
		Tags:      []string{a.TargetTone()},
	}
}

func errorManuscript(a *domain.Article, err error) *domain.Manuscript {
	return &domain.Manuscript{
		Headline:  a.DisplayTitle(),
		Subhead:   errorLabel,
		Body:      "generation failed: " + a.Request,
		PullQuote: "",
		Caption:   errorLabel,
		Tags:      []string{errorLabel},
		Error:     err.Error(),
	}
}
