package publisher

import (
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/shouni/go-magazine-kit/pkg/domain"
	"github.com/shouni/go-magazine-kit/pkg/imgcodec"
)

const closingBodyTag = "</body>"

// ImageSlot はプレースホルダーと、そこに差し込む画像の組です。
type ImageSlot struct {
	Index int
	Token domain.PlaceholderToken
	Image image.Image
}

// Resolution は置換処理の結果です。
type Resolution struct {
	HTML        string
	Substituted []int
	Fallbacks   []int
	// Duplicates は同じトークンの2回目以降の出現を取り除いた数です。
	Duplicates int
}

// Resolver は生成文書のプレースホルダーを data URI 画像に置換します。
type Resolver struct {
	codec imgcodec.Codec
}

// NewResolver は指定のコーデックを使う Resolver を生成します。
func NewResolver(codec imgcodec.Codec) (*Resolver, error) {
	if codec == nil {
		return nil, fmt.Errorf("codec は必須です")
	}
	return &Resolver{codec: codec}, nil
}

// NewSlots はデコード済み画像からトークン付きのスロット列を作ります。
func NewSlots(images []domain.DecodedImage) []ImageSlot {
	slots := make([]ImageSlot, 0, len(images))
	for _, img := range images {
		slots = append(slots, ImageSlot{
			Index: img.Index,
			Token: domain.NewPlaceholderToken(img.Index),
			Image: img.Image,
		})
	}
	return slots
}

// Resolve は各スロットの画像を文書に1回だけ埋め込みます。
// トークンがあれば最初の出現を置換し、なければ </body> の直前に代替ブロックを挿入します。
func (r *Resolver) Resolve(doc string, slots []ImageSlot) (Resolution, error) {
	res := Resolution{
		Substituted: []int{},
		Fallbacks:   []int{},
	}

	for _, slot := range slots {
		uri, err := r.codec.DataURI(slot.Image)
		if err != nil {
			return Resolution{}, fmt.Errorf("画像 %d のエンコードに失敗しました: %w", slot.Index, err)
		}

		token := slot.Token.String()
		pos := strings.Index(doc, token)
		if pos < 0 {
			slog.Warn("生成文書にプレースホルダーがないため、画像を末尾に追加します",
				"token", token, "index", slot.Index)
			doc = insertBeforeBodyEnd(doc, fallbackBlock(slot.Index, uri))
			res.Fallbacks = append(res.Fallbacks, slot.Index)
			continue
		}

		// 2回目以降の出現は先に取り除き、埋め込んだ画像データ内を走査しないようにする
		head, tail := doc[:pos], doc[pos+len(token):]
		if n := strings.Count(tail, token); n > 0 {
			slog.Warn("重複したプレースホルダーを除去しました", "token", token, "count", n)
			tail = strings.ReplaceAll(tail, token, "")
			res.Duplicates += n
		}
		doc = head + uri + tail
		res.Substituted = append(res.Substituted, slot.Index)
	}

	res.HTML = doc
	return res, nil
}

func fallbackBlock(index int, uri string) string {
	return fmt.Sprintf(
		"<div class=\"fallback-image\" data-fallback-index=\"%d\" style='margin:20px'><img src='%s' width='200'></div>",
		index, uri)
}

// insertBeforeBodyEnd は最後の </body>（大文字小文字を区別しない）の直前に挿入します。
// </body> がなければ末尾に追加します。
func insertBeforeBodyEnd(doc, block string) string {
	for i := len(doc) - len(closingBodyTag); i >= 0; i-- {
		if strings.EqualFold(doc[i:i+len(closingBodyTag)], closingBodyTag) {
			return doc[:i] + block + doc[i:]
		}
	}
	return doc + block
}
