package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shouni/go-magazine-kit/pkg/adapters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "MAGAZINE_ANALYZE_DELAY_SECONDS"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("ファイルがなければ既定値", func(t *testing.T) {
		clearEnv(t)
		t.Chdir(t.TempDir())

		cfg, err := LoadConfig("")
		require.NoError(t, err)

		assert.Equal(t, DefaultProvider, cfg.Provider)
		assert.Equal(t, DefaultListen, cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.AnalyzeDelay())
		assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes())
		assert.Empty(t, cfg.APIKey())
	})

	t.Run("TOML の値を読み込む", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "magazine.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
provider = "openai"
model = "gpt-4o-mini"
temperature = 0.3

[server]
listen = ":9090"
analyze_delay_seconds = 0
`), 0o644))
		t.Setenv("OPENAI_API_KEY", "sk-test")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, adapters.ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "gpt-4o-mini", cfg.Model)
		assert.InDelta(t, 0.3, cfg.Temperature, 1e-6)
		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Zero(t, cfg.Server.AnalyzeDelay())
		assert.Equal(t, DefaultOverrideDir, cfg.Server.OverrideDir)
		assert.Equal(t, "sk-test", cfg.APIKey())
	})

	t.Run("環境変数はファイルより優先される", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "magazine.toml")
		require.NoError(t, os.WriteFile(path, []byte(`model = "from-file"`), 0o644))
		t.Setenv("MAGAZINE_MODEL", "from-env")
		t.Setenv("GOOGLE_API_KEY", "g-key")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Model)
		assert.Equal(t, "g-key", cfg.APIKey())
	})

	t.Run("待機秒数の環境変数を読み込む", func(t *testing.T) {
		clearEnv(t)
		t.Chdir(t.TempDir())
		t.Setenv("MAGAZINE_ANALYZE_DELAY_SECONDS", "5")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, cfg.Server.AnalyzeDelay())
	})

	t.Run("待機秒数が整数でなければエラー", func(t *testing.T) {
		clearEnv(t)
		t.Chdir(t.TempDir())
		t.Setenv("MAGAZINE_ANALYZE_DELAY_SECONDS", "thirty")

		_, err := LoadConfig("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MAGAZINE_ANALYZE_DELAY_SECONDS")
	})

	t.Run("明示したファイルがなければエラー", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("未対応のプロバイダーはエラー", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "magazine.toml")
		require.NoError(t, os.WriteFile(path, []byte(`provider = "watson"`), 0o644))

		_, err := LoadConfig(path)
		assert.ErrorIs(t, err, adapters.ErrUnknownProvider)
	})
}
