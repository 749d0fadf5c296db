package domain

// Article は編集バッチで扱う1本の記事レコードです。
type Article struct {
	Title       string          `json:"title,omitempty"`
	Request     string          `json:"request"`
	IsGenerated *bool           `json:"is_generated,omitempty"`
	Style       string          `json:"style,omitempty"`
	Plan        *Plan           `json:"plan,omitempty"`
	Vision      *VisionAnalysis `json:"vision_analysis,omitempty"`
	Image       string          `json:"image,omitempty"` // ローカルパスまたは http(s) URL
	Manuscript  *Manuscript     `json:"manuscript,omitempty"`
}

// Plan は上流のプランナーが決定した記事タイプです。
type Plan struct {
	SelectedType string `json:"selected_type,omitempty"`
}

// VisionAnalysis は画像解析の結果です。
type VisionAnalysis struct {
	Metadata VisionMetadata `json:"metadata"`
}

// VisionMetadata はキャプション生成のヒントになる画像の説明です。
type VisionMetadata struct {
	Description string `json:"description,omitempty"`
}

// Manuscript はエディターが生成した原稿です。
type Manuscript struct {
	Headline  string   `json:"headline"`
	Subhead   string   `json:"subhead"`
	Body      string   `json:"body"`
	PullQuote string   `json:"pull_quote"`
	Caption   string   `json:"caption"`
	Tags      []string `json:"tags"`
	Error     string   `json:"error,omitempty"`
}

// Articles は記事ID から記事レコードへのマップです。
type Articles map[string]*Article

// ManuscriptFields は構造化出力で必須となるフィールド名です。
var ManuscriptFields = []string{"headline", "subhead", "body", "pull_quote", "caption", "tags"}
