package domain

import (
	"fmt"
	"image"
)

// LayoutType は誌面の構成テンプレートを表します。
type LayoutType string

const (
	// LayoutFeature は画像1枚以下の大型特集レイアウトです。
	LayoutFeature LayoutType = "feature"
	// LayoutSplit は画像2〜3枚の分割レイアウトです。
	LayoutSplit LayoutType = "split"
	// LayoutBriefs は画像4枚以上のブリーフ（グリッド）レイアウトです。
	LayoutBriefs LayoutType = "briefs"
)

// LayoutDecision は画像枚数から決定されたレイアウトとその理由です。
type LayoutDecision struct {
	Type   LayoutType `json:"type"`
	Label  string     `json:"label"`
	Reason string     `json:"reason"`
}

// PlaceholderToken は生成プロンプトに埋め込み、後で画像データに置換するマーカーです。
type PlaceholderToken string

// NewPlaceholderToken は index 番目の画像に対応するトークンを返します。
func NewPlaceholderToken(index int) PlaceholderToken {
	return PlaceholderToken(fmt.Sprintf("%%%%IMAGE_%d%%%%", index))
}

// PlaceholderTokens は 0..count-1 の順に並んだトークン列を返します。
func PlaceholderTokens(count int) []PlaceholderToken {
	if count <= 0 {
		return nil
	}
	tokens := make([]PlaceholderToken, count)
	for i := range tokens {
		tokens[i] = NewPlaceholderToken(i)
	}
	return tokens
}

// String は fmt 用の文字列表現です。
func (t PlaceholderToken) String() string {
	return string(t)
}

// SourceImage はユーザーがアップロードした生の画像です。
type SourceImage struct {
	Name string
	Data []byte
}

// PageRequest は1ページ分の生成要求です。リクエスト単位で生成・破棄されます。
type PageRequest struct {
	Content  string
	Category string
	Images   []SourceImage
}

// DecodedImage はデコード済みの画像とその順序を保持します。
type DecodedImage struct {
	Index int
	Name  string
	Image image.Image
}

// PageResult は生成されたページとその処理結果です。
type PageResult struct {
	ID          string         `json:"page_id"`
	Layout      LayoutDecision `json:"layout"`
	HTML        string         `json:"html"`
	Substituted []int          `json:"substituted"`
	Fallbacks   []int          `json:"fallbacks"`
	Failed      bool           `json:"failed"`
}
