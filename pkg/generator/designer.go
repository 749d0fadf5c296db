package generator

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/shouni/go-magazine-kit/pkg/adapters"
	"github.com/shouni/go-magazine-kit/pkg/domain"
	"github.com/shouni/go-magazine-kit/pkg/prompts"
)

// MissingCredentialHTML は認証情報がない場合に返すエラー文書です。
const MissingCredentialHTML = "<div style='color:red'>Error: API Key Missing</div>"

// DesignStatus はページデザインの結果区分です。
type DesignStatus int

const (
	// DesignOK はモデルが文書を返したことを示します。プレースホルダーの置換に進めます。
	DesignOK DesignStatus = iota
	// DesignMissingCredential は認証情報がなくモデルを呼び出さなかったことを示します。
	DesignMissingCredential
	// DesignFailed はモデル呼び出しに失敗し、エラー文書を返したことを示します。
	DesignFailed
)

// DesignInput は1ページ分のデザイン要求です。
type DesignInput struct {
	Content  string
	Category string
	Layout   domain.LayoutDecision
	Tokens   []domain.PlaceholderToken
}

// DesignResult はデザイン結果の文書と区分です。
type DesignResult struct {
	HTML   string
	Status DesignStatus
	Err    error
}

// PageDesigner はレイアウトとプレースホルダーを指示した上で、モデルに HTML ページを書かせます。
type PageDesigner struct {
	generator adapters.Generator
	prompts   prompts.PromptBuilder
}

// NewPageDesigner は PageDesigner を生成します。
// generator が nil の場合は認証情報未設定として扱い、モデルを呼び出しません。
func NewPageDesigner(gen adapters.Generator, pb prompts.PromptBuilder) (*PageDesigner, error) {
	if pb == nil {
		return nil, fmt.Errorf("PromptBuilder は必須です")
	}
	return &PageDesigner{generator: gen, prompts: pb}, nil
}

// Design はページを1回だけ生成します。失敗はエラー文書として結果に含め、呼び出し元には返しません。
func (d *PageDesigner) Design(ctx context.Context, in DesignInput) DesignResult {
	if d.generator == nil {
		slog.WarnContext(ctx, "APIキーが設定されていないため、ページ生成をスキップします")
		return DesignResult{HTML: MissingCredentialHTML, Status: DesignMissingCredential, Err: adapters.ErrMissingAPIKey}
	}

	tokens := make([]string, len(in.Tokens))
	for i, tok := range in.Tokens {
		tokens[i] = tok.String()
	}

	prompt, err := d.prompts.Build(prompts.ModeDesigner, prompts.TemplateData{
		Content:      in.Content,
		Category:     in.Category,
		LayoutType:   string(in.Layout.Type),
		LayoutLabel:  in.Layout.Label,
		LayoutReason: in.Layout.Reason,
		Tokens:       tokens,
	})
	if err != nil {
		return failedDesign(in.Content, err)
	}

	slog.InfoContext(ctx, "ページのデザインを依頼します",
		"layout", in.Layout.Label, "images", len(in.Tokens), "category", in.Category)

	raw, err := d.generator.Generate(ctx, adapters.Request{Prompt: prompt, Format: adapters.FormatText})
	if err != nil {
		slog.ErrorContext(ctx, "ページの生成に失敗しました", "error", err)
		return failedDesign(in.Content, err)
	}

	return DesignResult{HTML: StripFences(raw), Status: DesignOK}
}

// failedDesign は元の入力を含むエラー文書を作ります。
func failedDesign(content string, err error) DesignResult {
	doc := fmt.Sprintf(
		"<!DOCTYPE html><html><body><div style='color:red'>Error: page generation failed: %s</div><pre>%s</pre></body></html>",
		html.EscapeString(err.Error()), html.EscapeString(content))
	return DesignResult{HTML: doc, Status: DesignFailed, Err: err}
}
