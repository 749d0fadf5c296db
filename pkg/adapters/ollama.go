package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

// OllamaGenerator はローカルの Ollama サーバーを呼び出す Generator です。認証は不要です。
type OllamaGenerator struct {
	client *ollama.Client
	cfg    Config
}

// NewOllamaGenerator は BaseURL（未指定なら既定ホスト）に接続するクライアントを生成します。
func NewOllamaGenerator(cfg Config) (*OllamaGenerator, error) {
	host := cfg.BaseURL
	if host == "" {
		host = DefaultOllamaHost
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("ollama: ホスト %q が不正です: %w", host, err)
	}
	c := ollama.NewClient(u, &http.Client{Timeout: cfg.HTTPTimeout})
	return &OllamaGenerator{client: c, cfg: cfg}, nil
}

// Generate はストリーミング応答を連結して返します。
func (o *OllamaGenerator) Generate(ctx context.Context, req Request) (string, error) {
	gr := &ollama.GenerateRequest{
		Model:   o.cfg.Model,
		Prompt:  jsonInstruction(req),
		Options: map[string]any{"num_predict": o.cfg.MaxTokens},
	}
	if o.cfg.Temperature > 0 {
		gr.Options["temperature"] = o.cfg.Temperature
	}
	if req.Format == FormatJSON {
		gr.Format = json.RawMessage(`"json"`)
	}
	for _, a := range req.Attachments {
		gr.Images = append(gr.Images, ollama.ImageData(a.Data))
	}

	var text strings.Builder
	if err := o.client.Generate(ctx, gr, func(resp ollama.GenerateResponse) error {
		text.WriteString(resp.Response)
		return nil
	}); err != nil {
		return "", fmt.Errorf("ollama: 生成に失敗しました: %w", err)
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", fmt.Errorf("ollama: %w", ErrEmptyResponse)
	}
	return out, nil
}
