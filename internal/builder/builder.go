package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-magazine-kit/internal/config"
	"github.com/shouni/go-magazine-kit/internal/server"
	"github.com/shouni/go-magazine-kit/pkg/imgcodec"
	"github.com/shouni/go-magazine-kit/pkg/publisher"
	"github.com/shouni/go-magazine-kit/pkg/workflow"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// BuildAppContext は CLI 用に共有コンポーネントを初期化し、AppContext を返すのだ。
// 記事の画像参照はローカルパスと URL の両方を読み込むのだ。
func BuildAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	return buildAppContext(ctx, cfg, false)
}

// BuildServerAppContext は HTTP サーバー用の AppContext を返すのだ。
// リクエストから渡される画像参照は http(s) URL だけを読み込むのだ。
func BuildServerAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	return buildAppContext(ctx, cfg, true)
}

func buildAppContext(ctx context.Context, cfg *config.Config, remoteOnly bool) (*AppContext, error) {
	httpClient := httpkit.New(config.DefaultHTTPTimeout)

	manager, err := InitializeManager(ctx, cfg, httpClient, remoteOnly)
	if err != nil {
		return nil, err
	}

	appCtx := NewAppContext(cfg, manager, publisher.NewMagazinePublisher(publisher.LocalWriter{}))
	return &appCtx, nil
}

// InitializeManager は設定を workflow.Config に写して Manager を初期化します。
func InitializeManager(ctx context.Context, cfg *config.Config, httpClient httpkit.ClientInterface, remoteImagesOnly bool) (*workflow.Manager, error) {
	wfCfg := workflow.DefaultConfig()
	wfCfg.Provider = cfg.Provider
	wfCfg.APIKey = cfg.APIKey()
	wfCfg.Model = cfg.Model
	wfCfg.BaseURL = cfg.BaseURL
	wfCfg.Temperature = cfg.Temperature
	wfCfg.MaxTokens = cfg.MaxTokens
	if t := cfg.RequestTimeout(); t > 0 {
		wfCfg.RequestTimeout = t
	}

	manager, err := workflow.New(ctx, workflow.ManagerArgs{
		Config:           wfCfg,
		HTTPClient:       httpClient,
		RemoteImagesOnly: remoteImagesOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("ワークフローの初期化に失敗しました: %w", err)
	}
	return manager, nil
}

// BuildPageRunner は CLI 用に JPEG で画像を埋め込む PageRunner を構築します。
func BuildPageRunner(appCtx *AppContext) (workflow.PageRunner, error) {
	r, err := appCtx.Workflow.BuildPageRunner(imgcodec.NewJPEGCodec())
	if err != nil {
		return nil, fmt.Errorf("PageRunnerの構築に失敗しました: %w", err)
	}
	return r, nil
}

// BuildEditorRunner は記事バッチ用の EditorRunner を構築します。
func BuildEditorRunner(appCtx *AppContext) (workflow.EditorRunner, error) {
	r, err := appCtx.Workflow.BuildEditorRunner()
	if err != nil {
		return nil, fmt.Errorf("EditorRunnerの構築に失敗しました: %w", err)
	}
	return r, nil
}

// BuildServer は HTTP サーバーを構築します。サーバーは画像を PNG で埋め込みます。
func BuildServer(appCtx *AppContext) (*server.Server, error) {
	pages, err := appCtx.Workflow.BuildPageRunner(imgcodec.PNGCodec{})
	if err != nil {
		return nil, fmt.Errorf("PageRunnerの構築に失敗しました: %w", err)
	}
	editor, err := BuildEditorRunner(appCtx)
	if err != nil {
		return nil, err
	}

	sc := appCtx.Config.Server
	return server.New(server.Options{
		Listen:         sc.Listen,
		Pages:          pages,
		Editor:         editor,
		OverrideDir:    sc.OverrideDir,
		AnalyzeDelay:   sc.AnalyzeDelay(),
		PageTTL:        sc.PageTTL(),
		RateLimit:      sc.RateLimitPerSecond,
		RateBurst:      sc.RateBurst,
		MaxUploadBytes: sc.MaxUploadBytes(),
	})
}
