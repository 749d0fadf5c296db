package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/gemini-image-kit/pkg/imgutil"

	"github.com/shouni/go-magazine-kit/pkg/adapters"
	"github.com/shouni/go-magazine-kit/pkg/domain"
	"github.com/shouni/go-magazine-kit/pkg/prompts"
)

// VisionCompressionQuality はモデルに送る画像の JPEG 品質です。
const VisionCompressionQuality = 75

// ImageLoader は記事の画像参照（パスまたは URL）からバイト列を取得します。
type ImageLoader interface {
	Load(ctx context.Context, src string) ([]byte, error)
}

// VisionCaptioner は画像の説明文をモデルに生成させ、キャプションのヒントとして記事に設定します。
type VisionCaptioner struct {
	generator adapters.Generator
	prompts   prompts.PromptBuilder
	loader    ImageLoader
}

// NewVisionCaptioner は VisionCaptioner を生成します。
func NewVisionCaptioner(gen adapters.Generator, pb prompts.PromptBuilder, loader ImageLoader) (*VisionCaptioner, error) {
	if gen == nil {
		return nil, fmt.Errorf("画像解析には Generator が必要です: %w", adapters.ErrMissingAPIKey)
	}
	if pb == nil || loader == nil {
		return nil, fmt.Errorf("PromptBuilder と ImageLoader は必須です")
	}
	return &VisionCaptioner{generator: gen, prompts: pb, loader: loader}, nil
}

// Annotate は画像があり説明文のない記事に説明文を設定し、設定した件数を返します。
// 個別の失敗はログに残し、既定のヒントのまま続行します。
func (v *VisionCaptioner) Annotate(ctx context.Context, articles domain.Articles) int {
	annotated := 0
	for _, id := range articles.SortedIDs() {
		a := articles[id]
		if a == nil || a.Image == "" || !a.Generated() {
			continue
		}
		if a.Vision != nil && strings.TrimSpace(a.Vision.Metadata.Description) != "" {
			continue
		}

		desc, err := v.describe(ctx, a)
		if err != nil {
			slog.WarnContext(ctx, "画像の解析に失敗しました。既定のヒントで続行します", "article_id", id, "error", err)
			continue
		}
		a.SetImageDescription(desc)
		annotated++
	}
	return annotated
}

func (v *VisionCaptioner) describe(ctx context.Context, a *domain.Article) (string, error) {
	data, err := v.loader.Load(ctx, a.Image)
	if err != nil {
		return "", err
	}
	compressed, err := imgutil.CompressToJPEG(data, VisionCompressionQuality)
	if err != nil {
		return "", fmt.Errorf("画像の圧縮に失敗しました: %w", err)
	}

	var title string
	if a.HasExplicitTitle() {
		title = a.Title
	}
	prompt, err := v.prompts.Build(prompts.ModeVision, prompts.TemplateData{Title: title})
	if err != nil {
		return "", err
	}

	raw, err := v.generator.Generate(ctx, adapters.Request{
		Prompt:      prompt,
		Format:      adapters.FormatText,
		Attachments: []adapters.Attachment{{MIMEType: "image/jpeg", Data: compressed}},
	})
	if err != nil {
		return "", err
	}

	desc := strings.TrimSpace(StripFences(raw))
	if line, _, ok := strings.Cut(desc, "\n"); ok {
		desc = strings.TrimSpace(line)
	}
	if desc == "" {
		return "", adapters.ErrEmptyResponse
	}
	return desc, nil
}
