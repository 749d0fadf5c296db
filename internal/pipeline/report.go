package pipeline

import (
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/shouni/go-magazine-kit/pkg/generator"
)

// RenderOutcomes は記事ごとの処理結果を表にします。
func RenderOutcomes(outcomes []generator.ArticleOutcome) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Title", "Mode", "Tone", "Status", "Headline"})
	for _, o := range outcomes {
		tw.AppendRow(table.Row{o.ID, o.Title, string(o.Mode), o.Tone, string(o.Status), o.Headline})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 32},
		{Number: 6, WidthMax: 48},
	})
	return tw.Render()
}
