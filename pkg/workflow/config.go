package workflow

import (
	"time"

	"github.com/shouni/go-magazine-kit/pkg/adapters"
)

// デフォルト値の定義なのだ
const (
	DefaultProvider       = adapters.ProviderGemini
	DefaultTemperature    = 0.7
	DefaultRequestTimeout = 5 * time.Minute
)

// Config は Go Magazine Kit の各 Runner を動作させるための基本設定なのだ。
type Config struct {
	// --- AI Model Settings ---
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int

	// --- Timeout ---
	RequestTimeout time.Duration
}

// NewConfig はデフォルト値で初期化された Config を作成し、必要最小限の値をセットして返すのだ。
func NewConfig(apiKey string) Config {
	cfg := DefaultConfig()
	cfg.APIKey = apiKey
	return cfg
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数なのだ。
func DefaultConfig() Config {
	return Config{
		Provider:       DefaultProvider,
		Temperature:    DefaultTemperature,
		RequestTimeout: DefaultRequestTimeout,
	}
}

func (c Config) adapterConfig() adapters.Config {
	return adapters.Config{
		Provider:    c.Provider,
		APIKey:      c.APIKey,
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
		BaseURL:     c.BaseURL,
		HTTPTimeout: c.RequestTimeout,
	}
}
