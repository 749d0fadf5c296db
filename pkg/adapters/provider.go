package adapters

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultGeminiModel    = "gemini-2.5-pro"
	DefaultOpenAIModel    = "gpt-4o"
	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultOllamaModel    = "llama3.2-vision"
	DefaultOllamaHost     = "http://localhost:11434"
	DefaultMaxTokens      = 8192
	DefaultHTTPTimeout    = 5 * time.Minute
)

// New は設定に応じたプロバイダーの Generator を生成します。
// 認証が必要なプロバイダーでキーが空の場合は ErrMissingAPIKey を返します。
func New(ctx context.Context, cfg Config) (Generator, error) {
	cfg = withDefaults(cfg)

	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiGenerator(ctx, cfg)
	case ProviderOpenAI:
		return NewOpenAIGenerator(cfg)
	case ProviderAnthropic:
		return NewAnthropicGenerator(cfg)
	case ProviderOllama:
		return NewOllamaGenerator(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

func withDefaults(cfg Config) Config {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = ProviderGemini
	}
	if cfg.Model == "" {
		switch cfg.Provider {
		case ProviderOpenAI:
			cfg.Model = DefaultOpenAIModel
		case ProviderAnthropic:
			cfg.Model = DefaultAnthropicModel
		case ProviderOllama:
			cfg.Model = DefaultOllamaModel
		default:
			cfg.Model = DefaultGeminiModel
		}
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	return cfg
}

// jsonInstruction は JSON スキーマを直接渡せないプロバイダー向けに、必須キーをプロンプト末尾に追記します。
func jsonInstruction(req Request) string {
	if req.Format != FormatJSON || len(req.Fields) == 0 {
		return req.Prompt
	}
	var sb strings.Builder
	sb.WriteString(req.Prompt)
	sb.WriteString("\n\nRespond with a single JSON object and nothing else. Required keys:\n")
	for _, f := range req.Fields {
		if f.List {
			fmt.Fprintf(&sb, "- %q: array of strings\n", f.Name)
		} else {
			fmt.Fprintf(&sb, "- %q: string\n", f.Name)
		}
	}
	return sb.String()
}
