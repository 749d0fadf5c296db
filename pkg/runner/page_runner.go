package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/shouni/go-magazine-kit/pkg/director"
	"github.com/shouni/go-magazine-kit/pkg/domain"
	"github.com/shouni/go-magazine-kit/pkg/generator"
	"github.com/shouni/go-magazine-kit/pkg/imgcodec"
	"github.com/shouni/go-magazine-kit/pkg/publisher"
)

// ErrInvalidRequest は入力が不正で処理を開始できない場合に返されます。
var ErrInvalidRequest = errors.New("リクエストが不正です")

// MagazinePageRunner はレイアウト決定、ページデザイン、画像の差し込みを順に実行します。
type MagazinePageRunner struct {
	designer *generator.PageDesigner
	resolver *publisher.Resolver
}

// NewMagazinePageRunner は MagazinePageRunner を初期化します。
func NewMagazinePageRunner(designer *generator.PageDesigner, resolver *publisher.Resolver) (*MagazinePageRunner, error) {
	if designer == nil {
		return nil, fmt.Errorf("PageDesigner は必須です")
	}
	if resolver == nil {
		return nil, fmt.Errorf("Resolver は必須です")
	}
	return &MagazinePageRunner{designer: designer, resolver: resolver}, nil
}

// Run は1ページを生成します。生成サービスの失敗はエラー文書として結果に含まれ、エラーとしては返しません。
func (r *MagazinePageRunner) Run(ctx context.Context, req domain.PageRequest) (*domain.PageResult, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: 本文が空です", ErrInvalidRequest)
	}

	// 1. 画像のデコード
	decoded, err := decodeImages(req.Images)
	if err != nil {
		return nil, err
	}

	// 2. レイアウトの決定
	layout := director.SelectLayout(len(decoded))
	result := &domain.PageResult{
		ID:          uuid.NewString(),
		Layout:      layout,
		Substituted: []int{},
		Fallbacks:   []int{},
	}

	slog.InfoContext(ctx, "MagazinePageRunner: ページ生成を開始します",
		"page_id", result.ID, "layout", layout.Label, "images", len(decoded))

	// 3. デザイン
	design := r.designer.Design(ctx, generator.DesignInput{
		Content:  req.Content,
		Category: req.Category,
		Layout:   layout,
		Tokens:   domain.PlaceholderTokens(len(decoded)),
	})
	result.HTML = design.HTML
	if design.Status != generator.DesignOK {
		result.Failed = design.Status == generator.DesignFailed
		return result, nil
	}

	// 4. プレースホルダーの置換
	res, err := r.resolver.Resolve(design.HTML, publisher.NewSlots(decoded))
	if err != nil {
		return nil, fmt.Errorf("画像の差し込みに失敗しました: %w", err)
	}
	result.HTML = res.HTML
	result.Substituted = res.Substituted
	result.Fallbacks = res.Fallbacks

	slog.InfoContext(ctx, "MagazinePageRunner: ページ生成が完了しました",
		"page_id", result.ID, "substituted", len(res.Substituted), "fallbacks", len(res.Fallbacks))
	return result, nil
}

func decodeImages(images []domain.SourceImage) ([]domain.DecodedImage, error) {
	decoded := make([]domain.DecodedImage, 0, len(images))
	for i, src := range images {
		img, _, err := imgcodec.DecodeImage(src.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: 画像 %d (%s): %v", ErrInvalidRequest, i, src.Name, err)
		}
		decoded = append(decoded, domain.DecodedImage{Index: i, Name: src.Name, Image: img})
	}
	return decoded, nil
}
