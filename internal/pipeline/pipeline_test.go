package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-magazine-kit/internal/config"
	"github.com/shouni/go-magazine-kit/pkg/director"
	"github.com/shouni/go-magazine-kit/pkg/generator"
)

func TestLoadPageRequest(t *testing.T) {
	dir := t.TempDir()
	contentPath := filepath.Join(dir, "content.txt")
	imgPath := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(contentPath, []byte("Spring collection"), 0o644))
	require.NoError(t, os.WriteFile(imgPath, []byte("raw"), 0o644))

	t.Run("本文と画像を読み込む", func(t *testing.T) {
		req, err := loadPageRequest(config.GenerateOptions{
			ContentFile: contentPath,
			Images:      []string{imgPath},
			Category:    "Fashion",
		})
		require.NoError(t, err)
		assert.Equal(t, "Spring collection", req.Content)
		assert.Equal(t, "Fashion", req.Category)
		require.Len(t, req.Images, 1)
		assert.Equal(t, "photo.png", req.Images[0].Name)
	})

	t.Run("画像がなければエラー", func(t *testing.T) {
		_, err := loadPageRequest(config.GenerateOptions{
			ContentFile: contentPath,
			Images:      []string{filepath.Join(dir, "missing.png")},
		})
		assert.Error(t, err)
	})
}

func TestLoadArticles(t *testing.T) {
	dir := t.TempDir()

	t.Run("記事マップを読み込む", func(t *testing.T) {
		path := filepath.Join(dir, "articles.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"1":{"title":"Cafe","request":"coffee"}}`), 0o644))

		articles, err := loadArticles(path)
		require.NoError(t, err)
		require.Contains(t, articles, "1")
		assert.Equal(t, "Cafe", articles["1"].Title)
	})

	t.Run("不正な JSON はエラー", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`[1,2`), 0o644))

		_, err := loadArticles(path)
		assert.Error(t, err)
	})
}

func TestRenderOutcomes(t *testing.T) {
	out := RenderOutcomes([]generator.ArticleOutcome{
		{ID: "1", Title: "Cafe", Mode: director.ModeCreate, Tone: "Elegant", Status: generator.StatusGenerated, Headline: "Morning Brew"},
		{ID: "2", Title: "Mine", Status: generator.StatusPassthrough},
	})
	assert.Contains(t, out, "Morning Brew")
	assert.Contains(t, out, "passthrough")
	assert.Contains(t, out, "╭")
}
