package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticle_Defaults(t *testing.T) {
	t.Run("未指定の項目は既定値に解決される", func(t *testing.T) {
		a := &Article{Request: "kyoto"}

		assert.True(t, a.Generated())
		assert.Equal(t, UntitledTitle, a.DisplayTitle())
		assert.False(t, a.HasExplicitTitle())
		assert.Equal(t, DefaultStyle, a.TargetTone())
		assert.Equal(t, DefaultLayoutType, a.LayoutType())
		assert.Equal(t, DefaultImageDescription, a.ImageDescription())
	})

	t.Run("プランのタイプはスタイルより優先される", func(t *testing.T) {
		a := &Article{Style: "Witty", Plan: &Plan{SelectedType: "TYPE_STREET_VIBE"}}
		assert.Equal(t, "TYPE_STREET_VIBE", a.TargetTone())
		assert.Equal(t, "TYPE_STREET_VIBE", a.LayoutType())

		a.Plan = &Plan{}
		assert.Equal(t, "Witty", a.TargetTone())
	})

	t.Run("Untitled は明示的なタイトルとみなさない", func(t *testing.T) {
		assert.False(t, (&Article{Title: "Untitled"}).HasExplicitTitle())
		assert.True(t, (&Article{Title: "Blue Hour"}).HasExplicitTitle())
	})
}

func TestArticle_JSON(t *testing.T) {
	t.Run("上流レコードの形式をパースできる", func(t *testing.T) {
		input := `{
			"a1": {
				"title": "Morning Light",
				"request": "cafe, sunrise",
				"is_generated": false,
				"plan": {"selected_type": "TYPE_FASHION_COVER"},
				"vision_analysis": {"metadata": {"description": "a cup on a table"}}
			}
		}`

		var articles Articles
		require.NoError(t, json.Unmarshal([]byte(input), &articles))

		a := articles["a1"]
		require.NotNil(t, a)
		assert.False(t, a.Generated())
		assert.Equal(t, "a cup on a table", a.ImageDescription())
		assert.Equal(t, []string{"a1"}, articles.SortedIDs())
	})
}

func TestPlaceholderTokens(t *testing.T) {
	tokens := PlaceholderTokens(3)
	assert.Equal(t, []PlaceholderToken{"%%IMAGE_0%%", "%%IMAGE_1%%", "%%IMAGE_2%%"}, tokens)
	assert.Nil(t, PlaceholderTokens(0))
}
