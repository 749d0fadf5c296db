package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/shouni/go-utils/envutil"

	"github.com/shouni/go-magazine-kit/pkg/adapters"
)

// デフォルト値の定義なのだ
const (
	DefaultProvider              = adapters.ProviderGemini
	DefaultTemperature           = 0.7
	DefaultHTTPTimeout           = 30 * time.Second
	DefaultRequestTimeoutSeconds = 300
	DefaultOutputFile            = "output/magazine.html" // generate のデフォルト保存先なのだ
	DefaultArticlesOutput        = "output/articles.json" // articles のデフォルト保存先なのだ
	DefaultConfigFile            = "magazine.toml"
	DefaultListen                = ":8080"
	DefaultOverrideDir           = "datas"
	DefaultAnalyzeDelaySeconds   = 30
	DefaultPageTTLSeconds        = 3600
	DefaultRateLimitPerSecond    = 1.0
	DefaultRateBurst             = 5
	DefaultMaxUploadMB           = 32
)

// Config はアプリケーション全体の設定を保持する構造体なのだ。
// 既定値、TOML ファイル、環境変数、CLI フラグの順に上書きされます。
type Config struct {
	Provider              string  `toml:"provider"`
	Model                 string  `toml:"model"`
	Temperature           float32 `toml:"temperature"`
	MaxTokens             int     `toml:"max_tokens"`
	BaseURL               string  `toml:"base_url"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`

	// 認証情報は環境変数からのみ読み込みます。
	GeminiAPIKey    string `toml:"-"`
	OpenAIAPIKey    string `toml:"-"`
	AnthropicAPIKey string `toml:"-"`

	Server ServerConfig `toml:"server"`

	Options GenerateOptions `toml:"-"`
}

// ServerConfig は HTTP サーバーの設定です。
type ServerConfig struct {
	Listen              string  `toml:"listen"`
	OverrideDir         string  `toml:"override_dir"`
	AnalyzeDelaySeconds int     `toml:"analyze_delay_seconds"`
	PageTTLSeconds      int     `toml:"page_ttl_seconds"`
	RateLimitPerSecond  float64 `toml:"rate_limit_per_second"`
	RateBurst           int     `toml:"rate_burst"`
	MaxUploadMB         int64   `toml:"max_upload_mb"`
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	ContentFile   string   // --content-file
	Images        []string // --image
	Category      string   // --category
	OutputFile    string   // --output-file
	InputFile     string   // --input
	AnalyzeImages bool     // --analyze-images
	Sample        bool     // --sample
}

// Default は既定値で埋めた Config を返します。
func Default() Config {
	return Config{
		Provider:              DefaultProvider,
		Temperature:           DefaultTemperature,
		RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
		Server: ServerConfig{
			Listen:              DefaultListen,
			OverrideDir:         DefaultOverrideDir,
			AnalyzeDelaySeconds: DefaultAnalyzeDelaySeconds,
			PageTTLSeconds:      DefaultPageTTLSeconds,
			RateLimitPerSecond:  DefaultRateLimitPerSecond,
			RateBurst:           DefaultRateBurst,
			MaxUploadMB:         DefaultMaxUploadMB,
		},
	}
}

// LoadConfig は TOML ファイル（存在する場合）と環境変数から設定を読み込むのだ！
// path が空の場合はカレントディレクトリの magazine.toml を探します。
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("設定ファイル %s の解析に失敗しました: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// 既定の設定ファイルは任意
	default:
		return nil, fmt.Errorf("設定ファイル %s の読み込みに失敗しました: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Provider = envutil.GetEnv("MAGAZINE_PROVIDER", c.Provider)
	c.Model = envutil.GetEnv("MAGAZINE_MODEL", c.Model)
	c.BaseURL = envutil.GetEnv("MAGAZINE_BASE_URL", c.BaseURL)
	c.GeminiAPIKey = envutil.GetEnv("GEMINI_API_KEY", envutil.GetEnv("GOOGLE_API_KEY", ""))
	c.OpenAIAPIKey = envutil.GetEnv("OPENAI_API_KEY", "")
	c.AnthropicAPIKey = envutil.GetEnv("ANTHROPIC_API_KEY", "")
	c.Server.Listen = envutil.GetEnv("MAGAZINE_LISTEN", c.Server.Listen)
	c.Server.OverrideDir = envutil.GetEnv("MAGAZINE_OVERRIDE_DIR", c.Server.OverrideDir)

	if strings.EqualFold(c.Provider, adapters.ProviderOllama) && c.BaseURL == "" {
		c.BaseURL = envutil.GetEnv("OLLAMA_HOST", "")
	}
	if v := envutil.GetEnv("MAGAZINE_ANALYZE_DELAY_SECONDS", ""); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("MAGAZINE_ANALYZE_DELAY_SECONDS は整数で指定してください: %q", v)
		}
		c.Server.AnalyzeDelaySeconds = n
	}
	return nil
}

// Validate は設定値の範囲を検証します。
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case adapters.ProviderGemini, adapters.ProviderOpenAI, adapters.ProviderAnthropic, adapters.ProviderOllama:
	default:
		return fmt.Errorf("provider %q: %w", c.Provider, adapters.ErrUnknownProvider)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature は 0 から 2 の範囲で指定してください: %v", c.Temperature)
	}
	if c.Server.AnalyzeDelaySeconds < 0 {
		return fmt.Errorf("analyze_delay_seconds は 0 以上で指定してください")
	}
	if c.Server.RateLimitPerSecond <= 0 || c.Server.RateBurst <= 0 {
		return fmt.Errorf("rate_limit_per_second と rate_burst は正の値で指定してください")
	}
	return nil
}

// APIKey は選択中のプロバイダーの認証情報を返します。
func (c *Config) APIKey() string {
	switch strings.ToLower(c.Provider) {
	case adapters.ProviderOpenAI:
		return c.OpenAIAPIKey
	case adapters.ProviderAnthropic:
		return c.AnthropicAPIKey
	case adapters.ProviderOllama:
		return ""
	default:
		return c.GeminiAPIKey
	}
}

// RequestTimeout は生成リクエストのタイムアウトです。
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// AnalyzeDelay は /analyze の待機時間です。
func (s ServerConfig) AnalyzeDelay() time.Duration {
	return time.Duration(s.AnalyzeDelaySeconds) * time.Second
}

// PageTTL は生成ページの保持期間です。
func (s ServerConfig) PageTTL() time.Duration {
	return time.Duration(s.PageTTLSeconds) * time.Second
}

// MaxUploadBytes はマルチパートの上限サイズです。
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}
