package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/shouni/go-magazine-kit/internal/config"
)

// globalFlags はすべてのサブコマンドで共有するフラグなのだ。
type globalFlags struct {
	ConfigFile string
	Provider   string
	Model      string
	LogFormat  string
	Verbose    bool
}

var (
	flags globalFlags
	opts  config.GenerateOptions
)

var rootCmd = &cobra.Command{
	Use:           "magazine-kit",
	Short:         "AIで雑誌の誌面と記事原稿を生成するのだ。",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger(flags.LogFormat, flags.Verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "設定ファイル（TOML）のパスなのだ。省略時は ./magazine.toml を探すのだ。")
	rootCmd.PersistentFlags().StringVar(&flags.Provider, "provider", "", "生成に使うプロバイダー（gemini, openai, anthropic, ollama）なのだ。")
	rootCmd.PersistentFlags().StringVar(&flags.Model, "model", "", "使用するモデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", "auto", "ログ形式（auto, text, json）なのだ。")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "デバッグログを出力するのだ。")

	rootCmd.AddCommand(generateCmd, articlesCmd, layoutCmd, serveCmd)
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("コマンドの実行に失敗したのだ", "error", err)
		os.Exit(1)
	}
}

// loadConfig は設定ファイルと環境変数を読み込み、CLI フラグで上書きするのだ。
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if flags.Provider != "" {
		cfg.Provider = flags.Provider
	}
	if flags.Model != "" {
		cfg.Model = flags.Model
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Options = opts
	return cfg, nil
}

// setupLogger は端末ならテキスト、それ以外は JSON でログを出すのだ。
func setupLogger(format string, verbose bool) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "auto", "":
		fd := os.Stderr.Fd()
		if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
			format = "text"
		} else {
			format = "json"
		}
	case "text", "json":
	default:
		return fmt.Errorf("未対応のログ形式なのだ: %q", format)
	}

	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	if strings.ToLower(format) == "text" {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
