package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-magazine-kit/internal/config"
	"github.com/shouni/go-magazine-kit/internal/pipeline"
)

var articlesOutput string

// articlesCmd は、記事レコードの JSON から原稿を一括生成するのだ。
var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "記事バッチ（JSON）の原稿を生成しますなのだ。",
	Long: `記事IDをキーにした JSON を読み込み、記事ごとに見出し・本文・タグなどの原稿を生成するのだ。
is_generated が false の記事はユーザーの文章をそのまま使うのだよ。`,
	RunE: articlesCommand,
}

func init() {
	articlesCmd.Flags().StringVarP(&opts.InputFile, "input", "f", "", "記事バッチの JSON ファイル（'-'で標準入力なのだ）。")
	articlesCmd.Flags().StringVarP(&articlesOutput, "output-file", "o", config.DefaultArticlesOutput, "結果 JSON の保存先なのだ。")
	articlesCmd.Flags().BoolVar(&opts.Sample, "sample", false, "同梱のサンプル記事バッチを使うのだ。")
	articlesCmd.Flags().BoolVar(&opts.AnalyzeImages, "analyze-images", false, "記事の画像を解析してキャプションのヒントにするのだ。")
}

func articlesCommand(cmd *cobra.Command, args []string) error {
	if opts.InputFile == "" && !opts.Sample && !isStdin() {
		return fmt.Errorf("記事バッチ（--input）を指定してほしいのだ")
	}

	opts.OutputFile = articlesOutput
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := pipeline.ExecuteArticles(cmd.Context(), cfg, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}
	return nil
}
