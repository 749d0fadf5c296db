package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-magazine-kit/examples"
	"github.com/shouni/go-magazine-kit/internal/builder"
	"github.com/shouni/go-magazine-kit/internal/config"
	"github.com/shouni/go-magazine-kit/pkg/domain"
)

// ExecuteGenerate は本文ファイルと画像を読み込み、1ページの HTML を生成して保存するのだ。
func ExecuteGenerate(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.BuildAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	opts := appCtx.Options

	req, err := loadPageRequest(opts)
	if err != nil {
		return err
	}

	pageRunner, err := builder.BuildPageRunner(appCtx)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Phase 1: ページ生成を開始するのだ...", "images", len(req.Images), "category", req.Category)
	page, err := pageRunner.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("ページ生成に失敗したのだ: %w", err)
	}

	slog.InfoContext(ctx, "Phase 2: 公開処理を開始するのだ...")
	res, err := appCtx.Publisher.PublishPage(ctx, page, opts.OutputFile)
	if err != nil {
		return fmt.Errorf("公開処理に失敗したのだ: %w", err)
	}

	if page.Failed {
		slog.WarnContext(ctx, "生成に失敗したため、エラー表示のページを保存したのだ", "path", res.HTMLPath)
		return nil
	}
	slog.InfoContext(ctx, "ページが完成したのだ！",
		"path", res.HTMLPath,
		"layout", page.Layout.Label,
		"substituted", len(page.Substituted),
		"fallbacks", len(page.Fallbacks))
	return nil
}

// ExecuteArticles は記事バッチの JSON を読み込み、原稿を生成して保存するのだ。
func ExecuteArticles(ctx context.Context, cfg *config.Config, out io.Writer) error {
	appCtx, err := builder.BuildAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	opts := appCtx.Options

	var articles domain.Articles
	if opts.Sample {
		articles, err = examples.LoadArticles()
	} else {
		articles, err = loadArticles(opts.InputFile)
	}
	if err != nil {
		return err
	}

	editorRunner, err := builder.BuildEditorRunner(appCtx)
	if err != nil {
		return err
	}

	res, err := editorRunner.Run(ctx, articles, opts.AnalyzeImages)
	if err != nil {
		return fmt.Errorf("記事の編集に失敗したのだ: %w", err)
	}

	if err := appCtx.Publisher.PublishArticles(ctx, res.Articles, opts.OutputFile); err != nil {
		return fmt.Errorf("公開処理に失敗したのだ: %w", err)
	}

	if out != nil {
		fmt.Fprintln(out, RenderOutcomes(res.Outcomes))
	}
	slog.InfoContext(ctx, "記事の編集が完了したのだ！", "path", opts.OutputFile, "annotated", res.Annotated)
	return nil
}

// ExecuteServe は HTTP サーバーを起動し、ctx がキャンセルされるまで待つのだ。
func ExecuteServe(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.BuildServerAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	srv, err := builder.BuildServer(appCtx)
	if err != nil {
		return fmt.Errorf("サーバーの構築に失敗したのだ: %w", err)
	}
	return srv.Run(ctx)
}

func loadPageRequest(opts config.GenerateOptions) (domain.PageRequest, error) {
	req := domain.PageRequest{Category: opts.Category}

	content, err := readInput(opts.ContentFile)
	if err != nil {
		return req, fmt.Errorf("本文ファイル '%s' の読み込みに失敗しました: %w", opts.ContentFile, err)
	}
	req.Content = string(content)

	for _, path := range opts.Images {
		data, err := os.ReadFile(path)
		if err != nil {
			return req, fmt.Errorf("画像ファイル '%s' の読み込みに失敗しました: %w", path, err)
		}
		req.Images = append(req.Images, domain.SourceImage{Name: filepath.Base(path), Data: data})
	}
	return req, nil
}

func loadArticles(path string) (domain.Articles, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("JSONファイル '%s' の読み込みに失敗しました: %w", path, err)
	}
	var articles domain.Articles
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("JSONファイル '%s' のデコードに失敗しました: %w", path, err)
	}
	return articles, nil
}

// readInput は path が "-" または空のとき標準入力から読み込みます。
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
