package director

import (
	"strings"
	"unicode/utf8"
)

// EditMode は記事生成のモードです。
type EditMode string

const (
	// ModePolish はユーザーの下書きを校正します。
	ModePolish EditMode = "polish"
	// ModeCreate はキーワードから記事を書き起こします。
	ModeCreate EditMode = "create"

	// PolishThreshold を超える文字数の下書きは校正モードになります。
	PolishThreshold = 50
)

// SelectEditMode は下書きの長さから生成モードを決めます。
func SelectEditMode(request string) EditMode {
	if utf8.RuneCountInString(strings.TrimSpace(request)) > PolishThreshold {
		return ModePolish
	}
	return ModeCreate
}

// BodyFormat は本文の組み方です。
type BodyFormat string

const (
	BodyLongForm  BodyFormat = "long-form"
	BodyShortForm BodyFormat = "short-form"
	BodyInterview BodyFormat = "interview"
)

// Rule は本文の組み方をプロンプト用の指示文で返します。
func (f BodyFormat) Rule() string {
	switch f {
	case BodyInterview:
		return "Strict Q&A. Every paragraph starts with \"Q:\" or \"A:\"; no narrative prose between them."
	case BodyShortForm:
		return "Short-form. Terse, punchy sentences; at most two short paragraphs."
	default:
		return "Long-form. Several well developed paragraphs separated by blank lines."
	}
}

var shortFormMarkers = []string{"EDITORIAL", "BRIEF", "SPLIT", "STREET", "LUXURY", "PRODUCT"}

// SelectBodyFormat はレイアウトタイプから本文の組み方を決めます。
// インタビューの判定が最優先で、どれにも当たらなければ長文扱いです。
func SelectBodyFormat(layoutType string) BodyFormat {
	upper := strings.ToUpper(layoutType)
	if strings.Contains(upper, "INTERVIEW") {
		return BodyInterview
	}
	for _, marker := range shortFormMarkers {
		if strings.Contains(upper, marker) {
			return BodyShortForm
		}
	}
	return BodyLongForm
}

// toneGuides はプランナーのタイプ、またはユーザー指定スタイルごとの文体ガイドです。
var toneGuides = map[string]string{
	"TYPE_FASHION_COVER":   "Elegant & Lyrical: poetic, flowing, sophisticated",
	"TYPE_STREET_VIBE":     "Bold & Energetic: punchy, active voice, strong verbs",
	"TYPE_EDITORIAL_SPLIT": "Analytical & Professional: precise, objective, logic-focused",
	"TYPE_LUXURY_PRODUCT":  "Minimalist & Clean: concise, dry, direct",
	"ELEGANT":              "Elegant: poetic, flowing, sophisticated",
	"BOLD":                 "Bold: punchy, active voice, strong verbs",
	"ANALYTICAL":           "Analytical: precise, objective, logic-focused",
	"FRIENDLY":             "Friendly: warm, inviting, addresses the reader as you",
	"WITTY":                "Witty: clever wordplay, sharp humor",
	"DRAMATIC":             "Dramatic: suspenseful, emotional, sensory",
	"MINIMALIST":           "Minimalist: concise, dry, direct",
	"NOSTALGIC":            "Nostalgic: evocative, cozy, retro",
}

// ToneGuide はトーン名に対応する文体ガイドを返します。未知のトーンはそのまま返します。
func ToneGuide(tone string) string {
	if guide, ok := toneGuides[strings.ToUpper(strings.TrimSpace(tone))]; ok {
		return guide
	}
	return tone
}
