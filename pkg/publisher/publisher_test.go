package publisher

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shouni/go-magazine-kit/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWriter struct {
	files map[string][]byte
}

func (w *memoryWriter) Write(_ context.Context, path string, data []byte) error {
	if w.files == nil {
		w.files = map[string][]byte{}
	}
	w.files[path] = data
	return nil
}

func TestMagazinePublisher_PublishPage(t *testing.T) {
	w := &memoryWriter{}
	p := NewMagazinePublisher(w)
	page := &domain.PageResult{
		ID:          "p1",
		Layout:      domain.LayoutDecision{Type: domain.LayoutSplit, Label: "Type B (Split)"},
		HTML:        "<html></html>",
		Substituted: []int{0, 1},
		Fallbacks:   []int{},
	}

	res, err := p.PublishPage(context.Background(), page, filepath.Join("out", DefaultPageFileName))
	require.NoError(t, err)

	assert.Equal(t, "<html></html>", string(w.files[res.HTMLPath]))

	var meta map[string]any
	require.NoError(t, json.Unmarshal(w.files[res.LayoutPath], &meta))
	assert.Equal(t, "p1", meta["page_id"])
	assert.NotContains(t, meta, "html")
	assert.Equal(t, []any{float64(0), float64(1)}, meta["substituted"])
	assert.Equal(t, []any{}, meta["fallbacks"])
	assert.Equal(t, false, meta["failed"])
	assert.Equal(t, "Type B (Split)", meta["layout"].(map[string]any)["label"])
}

func TestMagazinePublisher_PublishArticles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultArticlesFileName)
	articles := domain.Articles{"a1": {Title: "T", Manuscript: &domain.Manuscript{Headline: "H"}}}

	require.NoError(t, NewMagazinePublisher(nil).PublishArticles(context.Background(), articles, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"headline": "H"`)
}

func TestResolveOutputPath(t *testing.T) {
	got, err := ResolveOutputPath("output", "magazine.html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("output", "magazine.html"), got)

	_, err = ResolveOutputPath("output", "../x.html")
	assert.Error(t, err)
	_, err = ResolveOutputPath("output", "")
	assert.Error(t, err)
}
