package adapters

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("未対応のプロバイダーはエラー", func(t *testing.T) {
		_, err := New(ctx, Config{Provider: "watson"})
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})

	t.Run("キーがなければ ErrMissingAPIKey", func(t *testing.T) {
		for _, p := range []string{"", ProviderGemini, ProviderOpenAI, "Anthropic"} {
			_, err := New(ctx, Config{Provider: p})
			assert.ErrorIs(t, err, ErrMissingAPIKey, p)
		}
	})

	t.Run("Ollama はキーなしで生成できる", func(t *testing.T) {
		g, err := New(ctx, Config{Provider: ProviderOllama})
		require.NoError(t, err)
		assert.IsType(t, &OllamaGenerator{}, g)
	})
}

func TestWithDefaults(t *testing.T) {
	cfg := withDefaults(Config{Provider: " OpenAI "})
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, DefaultOpenAIModel, cfg.Model)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)

	cfg = withDefaults(Config{Model: "gemini-2.5-flash"})
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Model)
}

func TestJSONInstruction(t *testing.T) {
	req := Request{
		Prompt: "write",
		Format: FormatJSON,
		Fields: []Field{{Name: "headline"}, {Name: "tags", List: true}},
	}
	out := jsonInstruction(req)
	assert.Contains(t, out, `"headline": string`)
	assert.Contains(t, out, `"tags": array of strings`)

	req.Format = FormatText
	assert.Equal(t, "write", jsonInstruction(req))
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema([]Field{{Name: "body"}, {Name: "tags", List: true}})

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"body", "tags"}, s.Required)
	assert.Equal(t, genai.TypeString, s.Properties["body"].Type)
	require.NotNil(t, s.Properties["tags"].Items)
	assert.Equal(t, genai.TypeArray, s.Properties["tags"].Type)

	gc := geminiConfig(Config{MaxTokens: 10}, Request{Format: FormatJSON, Fields: []Field{{Name: "a"}}})
	assert.Equal(t, "application/json", gc.ResponseMIMEType)
	assert.Nil(t, gc.Temperature)
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" {\"headline\":\"H\"} "}}]}`)
	}))
	defer srv.Close()

	g, err := NewOpenAIGenerator(withDefaults(Config{Provider: ProviderOpenAI, APIKey: "k", BaseURL: srv.URL + "/v1"}))
	require.NoError(t, err)

	out, err := g.Generate(context.Background(), Request{
		Prompt:      "p",
		Format:      FormatJSON,
		Attachments: []Attachment{{MIMEType: "image/jpeg", Data: []byte{1, 2, 3}}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"headline":"H"}`, out)

	format, _ := body["response_format"].(map[string]any)
	assert.Equal(t, "json_object", format["type"])
	assert.Contains(t, mustJSON(t, body["messages"]), "data:image/jpeg;base64,AQID")
}

func TestOllamaGenerator_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = io.WriteString(w, "{\"response\":\"<html>\",\"done\":false}\n{\"response\":\"</html>\",\"done\":true}\n")
	}))
	defer srv.Close()

	g, err := NewOllamaGenerator(withDefaults(Config{Provider: ProviderOllama, BaseURL: srv.URL}))
	require.NoError(t, err)

	out, err := g.Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", out)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
