package prompts

import (
	_ "embed"
)

const (
	ModeDesigner     = "designer"
	ModeEditorPolish = "editor_polish"
	ModeEditorCreate = "editor_create"
	ModeVision       = "vision"
)

// TemplateData はプロンプトのテンプレートに渡すデータ構造です。
// モードごとに使う項目が異なり、使わない項目は空のままで構いません。
type TemplateData struct {
	// ページデザイン用
	Content      string
	Category     string
	LayoutType   string
	LayoutLabel  string
	LayoutReason string
	Tokens       []string

	// 記事編集用
	Title     string
	Request   string
	ToneGuide string
	ImageHint string
	BodyRule  string
}

var (
	//go:embed designer.md
	DesignerPrompt string
	//go:embed editor_polish.md
	EditorPolishPrompt string
	//go:embed editor_create.md
	EditorCreatePrompt string
	//go:embed vision.md
	VisionPrompt string
)

// allTemplates はモードとテンプレート文字列を紐づけるマップなのだ。
var allTemplates = map[string]string{
	ModeDesigner:     DesignerPrompt,
	ModeEditorPolish: EditorPolishPrompt,
	ModeEditorCreate: EditorCreatePrompt,
	ModeVision:       VisionPrompt,
}
