package adapters

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMissingAPIKey は選択したプロバイダーの認証情報が設定されていない場合に返されます。
	ErrMissingAPIKey = errors.New("APIキーが設定されていません")
	// ErrUnknownProvider は未対応のプロバイダー名が指定された場合に返されます。
	ErrUnknownProvider = errors.New("未対応のプロバイダーです")
	// ErrEmptyResponse はモデルが空の応答を返した場合に返されます。
	ErrEmptyResponse = errors.New("モデルの応答が空です")
)

// Format はモデルに要求する応答の形式です。
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Field は構造化出力で必須となるフィールドです。
type Field struct {
	Name string
	List bool // 文字列の配列として返す場合は true
}

// Attachment はプロンプトに添付する画像です。
type Attachment struct {
	MIMEType string
	Data     []byte
}

// Request は1回の生成呼び出しの内容です。
type Request struct {
	Prompt      string
	Format      Format
	Fields      []Field
	Attachments []Attachment
}

// Generator は外部の生成サービスを1回呼び出す契約です。
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Provider 名の一覧です。
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Config はプロバイダーの接続設定です。
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	BaseURL     string
	HTTPTimeout time.Duration
}
