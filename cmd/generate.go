package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/go-magazine-kit/internal/config"
	"github.com/shouni/go-magazine-kit/internal/pipeline"
)

// generateCmd は、本文と画像から雑誌の1ページを生成するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "本文と画像から雑誌の1ページ（HTML）を生成しますなのだ。",
	Long: `画像の枚数でレイアウトを決め、AIに誌面の HTML をデザインさせるのだ。
画像はプレースホルダーに埋め込まれ、単体で開ける HTML ファイルとして保存されるのだよ。`,
	RunE: generateCommand,
}

func init() {
	generateCmd.Flags().StringVarP(&opts.ContentFile, "content-file", "f", "", "本文のテキストファイル（'-'で標準入力なのだ）。")
	generateCmd.Flags().StringArrayVarP(&opts.Images, "image", "i", nil, "埋め込む画像ファイル。複数指定できるのだ。")
	generateCmd.Flags().StringVarP(&opts.Category, "category", "c", "", "誌面のカテゴリ（例: Fashion）なのだ。")
	generateCmd.Flags().StringVarP(&opts.OutputFile, "output-file", "o", config.DefaultOutputFile, "HTML の保存先なのだ。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.ContentFile == "" && !isStdin() {
		return fmt.Errorf("本文（--content-file）を指定してほしいのだ")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	slog.Info("誌面生成パイプラインを起動するのだ！",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"images", len(opts.Images),
		"output", opts.OutputFile)

	if err := pipeline.ExecuteGenerate(ctx, cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}
	return nil
}
