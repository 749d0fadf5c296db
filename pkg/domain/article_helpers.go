package domain

import (
	"sort"
	"strings"
)

const (
	// UntitledTitle はタイトル未指定の記事に使う見出しです。
	UntitledTitle = "Untitled"
	// DefaultStyle はプランもスタイル指定もない場合のトーンです。
	DefaultStyle = "Elegant"
	// DefaultImageDescription は画像解析結果がない場合のキャプションヒントです。
	DefaultImageDescription = "Visual"
	// DefaultLayoutType はプランがない場合のレイアウトタイプです。
	DefaultLayoutType = "Standard"
)

// SortedIDs は記事IDを昇順で返します。
func (as Articles) SortedIDs() []string {
	ids := make([]string, 0, len(as))
	for id := range as {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Generated は AI による生成対象かどうかを返します。未指定の場合は true です。
func (a *Article) Generated() bool {
	if a.IsGenerated == nil {
		return true
	}
	return *a.IsGenerated
}

// DisplayTitle は見出しに使うタイトルを返します。
func (a *Article) DisplayTitle() string {
	if strings.TrimSpace(a.Title) == "" {
		return UntitledTitle
	}
	return a.Title
}

// HasExplicitTitle はユーザーがタイトルを明示しているかどうかを返します。
func (a *Article) HasExplicitTitle() bool {
	title := strings.TrimSpace(a.Title)
	return title != "" && title != UntitledTitle
}

// TargetTone はプランナーのタイプ、ユーザー指定のスタイル、既定値の順で解決します。
func (a *Article) TargetTone() string {
	if a.Plan != nil && a.Plan.SelectedType != "" {
		return a.Plan.SelectedType
	}
	if a.Style != "" {
		return a.Style
	}
	return DefaultStyle
}

// LayoutType はプランナーが選んだタイプをレイアウトとして返します。
func (a *Article) LayoutType() string {
	if a.Plan != nil && a.Plan.SelectedType != "" {
		return a.Plan.SelectedType
	}
	return DefaultLayoutType
}

// ImageDescription は画像解析の説明文を返します。
func (a *Article) ImageDescription() string {
	if a.Vision != nil && strings.TrimSpace(a.Vision.Metadata.Description) != "" {
		return a.Vision.Metadata.Description
	}
	return DefaultImageDescription
}

// SetImageDescription は画像解析の説明文を設定します。
func (a *Article) SetImageDescription(desc string) {
	if a.Vision == nil {
		a.Vision = &VisionAnalysis{}
	}
	a.Vision.Metadata.Description = desc
}
