package generator

import (
	"context"
	"strings"
	"testing"

	"github.com/shouni/go-magazine-kit/pkg/adapters"
	"github.com/shouni/go-magazine-kit/pkg/director"
	"github.com/shouni/go-magazine-kit/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validManuscript = "```json\n" + `{
  "headline": "Generated Headline",
  "subhead": "A subhead",
  "body": "Paragraph one.\n\nParagraph two.",
  "pull_quote": "Paragraph one.",
  "caption": "A caption",
  "tags": ["travel", "autumn"]
}` + "\n```"

func boolPtr(b bool) *bool { return &b }

func TestArticleEditor_EditBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("1件の失敗は他の記事の処理を止めない", func(t *testing.T) {
		gen := &mockGenerator{response: validManuscript, failOn: "second-request"}
		e, err := NewArticleEditor(gen, newPromptBuilder(t))
		require.NoError(t, err)

		articles := domain.Articles{
			"a1": {Request: "first-request"},
			"a2": {Title: "Second", Request: "second-request"},
			"a3": {Request: "third-request"},
		}

		out, outcomes := e.EditBatch(ctx, articles)

		require.Len(t, out, 3)
		require.Len(t, outcomes, 3)

		assert.Equal(t, "Generated Headline", out["a1"].Manuscript.Headline)
		assert.Empty(t, out["a1"].Manuscript.Error)
		assert.Equal(t, "Generated Headline", out["a3"].Manuscript.Headline)

		failed := out["a2"].Manuscript
		assert.Equal(t, "Second", failed.Headline)
		assert.Equal(t, "Error", failed.Subhead)
		assert.Equal(t, "generation failed: second-request", failed.Body)
		assert.Equal(t, "Error", failed.Caption)
		assert.Equal(t, []string{"Error"}, failed.Tags)
		assert.Contains(t, failed.Error, "upstream 503")

		assert.Equal(t, []string{"a1", "a2", "a3"}, []string{outcomes[0].ID, outcomes[1].ID, outcomes[2].ID})
		assert.Equal(t, StatusFailed, outcomes[1].Status)
		assert.Equal(t, StatusGenerated, outcomes[2].Status)

		// 入力は変更されない
		assert.Nil(t, articles["a1"].Manuscript)
	})

	t.Run("ユーザー執筆の記事は生成せずそのまま通す", func(t *testing.T) {
		gen := &mockGenerator{response: validManuscript}
		e, err := NewArticleEditor(gen, newPromptBuilder(t))
		require.NoError(t, err)

		out, outcomes := e.EditBatch(ctx, domain.Articles{
			"m": {Title: "My Essay", Request: "my own words", IsGenerated: boolPtr(false), Style: "Witty"},
		})

		ms := out["m"].Manuscript
		assert.Equal(t, "My Essay", ms.Headline)
		assert.Equal(t, "Original Draft", ms.Subhead)
		assert.Equal(t, "my own words", ms.Body)
		assert.Equal(t, "", ms.PullQuote)
		assert.Equal(t, "Visual context for My Essay", ms.Caption)
		assert.Equal(t, []string{"Witty"}, ms.Tags)
		assert.Equal(t, StatusPassthrough, outcomes[0].Status)
		assert.Empty(t, gen.requests)
	})

	t.Run("明示的なタイトルは見出しを上書きする", func(t *testing.T) {
		gen := &mockGenerator{response: validManuscript}
		e, err := NewArticleEditor(gen, newPromptBuilder(t))
		require.NoError(t, err)

		out, _ := e.EditBatch(ctx, domain.Articles{
			"titled":   {Title: "Blue Hour", Request: "dusk"},
			"untitled": {Title: "Untitled", Request: "dusk"},
		})

		assert.Equal(t, "Blue Hour", out["titled"].Manuscript.Headline)
		assert.Equal(t, "Generated Headline", out["untitled"].Manuscript.Headline)
	})

	t.Run("下書きの長さで校正モードと作成モードを切り替える", func(t *testing.T) {
		gen := &mockGenerator{response: validManuscript}
		e, err := NewArticleEditor(gen, newPromptBuilder(t))
		require.NoError(t, err)

		_, outcomes := e.EditBatch(ctx, domain.Articles{
			"a": {Request: "kyoto, tea"},
			"b": {Request: strings.Repeat("long draft ", 10), Plan: &domain.Plan{SelectedType: "TYPE_STREET_VIBE"}},
		})

		assert.Equal(t, director.ModeCreate, outcomes[0].Mode)
		assert.Equal(t, director.ModePolish, outcomes[1].Mode)
		require.Len(t, gen.requests, 2)
		assert.Contains(t, gen.requests[0].Prompt, "Keywords: kyoto, tea")
		assert.Contains(t, gen.requests[1].Prompt, "Proofread")
		assert.Contains(t, gen.requests[1].Prompt, "Bold & Energetic")
		assert.Contains(t, gen.requests[1].Prompt, "Short-form")
		assert.Equal(t, adapters.FormatJSON, gen.requests[1].Format)
		assert.Len(t, gen.requests[1].Fields, 6)
	})

	t.Run("必須フィールドの欠落はエラー原稿になる", func(t *testing.T) {
		gen := &mockGenerator{response: `{"headline":"H","subhead":"S","body":"B","caption":"C","tags":[]}`}
		e, err := NewArticleEditor(gen, newPromptBuilder(t))
		require.NoError(t, err)

		out, outcomes := e.EditBatch(ctx, domain.Articles{"x": {Request: "r"}})

		assert.Equal(t, StatusFailed, outcomes[0].Status)
		assert.Contains(t, out["x"].Manuscript.Error, "pull_quote")
	})

	t.Run("認証情報がなければ全件エラー原稿になる", func(t *testing.T) {
		e, err := NewArticleEditor(nil, newPromptBuilder(t))
		require.NoError(t, err)

		out, _ := e.EditBatch(ctx, domain.Articles{"x": {Request: "r"}, "y": {Request: "s", IsGenerated: boolPtr(false)}})

		assert.Equal(t, "Error", out["x"].Manuscript.Subhead)
		assert.Equal(t, "Original Draft", out["y"].Manuscript.Subhead)
	})
}

func TestParseManuscript(t *testing.T) {
	t.Run("tags が文字列でも受け付ける", func(t *testing.T) {
		ms, err := parseManuscript(`{"headline":"H","subhead":"S","body":"B","pull_quote":"P","caption":"C","tags":"solo"}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"solo"}, ms.Tags)
	})

	t.Run("前後の説明文があっても JSON を取り出す", func(t *testing.T) {
		ms, err := parseManuscript(`Sure! {"headline":"H","subhead":"S","body":"B","pull_quote":"P","caption":"C","tags":["a"]} Enjoy.`)
		require.NoError(t, err)
		assert.Equal(t, "H", ms.Headline)
	})

	t.Run("文字列でないフィールドはエラー", func(t *testing.T) {
		_, err := parseManuscript(`{"headline":1,"subhead":"S","body":"B","pull_quote":"P","caption":"C","tags":["a"]}`)
		assert.Error(t, err)
	})

	t.Run("JSON でなければエラー", func(t *testing.T) {
		_, err := parseManuscript("no json here")
		assert.Error(t, err)
	})
}
