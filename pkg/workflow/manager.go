package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-magazine-kit/pkg/adapters"
	"github.com/shouni/go-magazine-kit/pkg/asset"
	"github.com/shouni/go-magazine-kit/pkg/generator"
	"github.com/shouni/go-magazine-kit/pkg/imgcodec"
	"github.com/shouni/go-magazine-kit/pkg/prompts"
	"github.com/shouni/go-magazine-kit/pkg/publisher"
	"github.com/shouni/go-magazine-kit/pkg/runner"
)

// ManagerArgs は Manager の初期化に必要な依存関係です。
type ManagerArgs struct {
	Config Config
	// Generator を渡した場合はプロバイダーの初期化を行いません。
	Generator adapters.Generator
	// HTTPClient は画像 URL の取得に使います。
	HTTPClient asset.Fetcher
	// PromptBuilder が nil の場合は埋め込みテンプレートから生成します。
	PromptBuilder prompts.PromptBuilder
	// RemoteImagesOnly が true の場合、記事の画像参照は http(s) URL だけを読み込みます。
	RemoteImagesOnly bool
}

// Manager は、ワークフローの各工程を担う Runner 群を構築・管理します。
type Manager struct {
	generator adapters.Generator
	prompts   prompts.PromptBuilder
	loader    *asset.Loader
}

// New は設定を基に新しい Manager を初期化します。
// 認証情報がない場合もエラーにはせず、各 Runner がエラー成果物を返す状態で構築します。
func New(ctx context.Context, args ManagerArgs) (*Manager, error) {
	gen, err := initializeGenerator(ctx, args.Generator, args.Config)
	if err != nil {
		return nil, err
	}

	pb, err := initializePromptBuilder(args.PromptBuilder)
	if err != nil {
		return nil, err
	}

	loader := asset.NewLoader(args.HTTPClient)
	if args.RemoteImagesOnly {
		loader = asset.NewRemoteLoader(args.HTTPClient)
	}

	return &Manager{
		generator: gen,
		prompts:   pb,
		loader:    loader,
	}, nil
}

// initializeGenerator はプロバイダーの Generator を初期化します。APIキーがなければ nil を返します。
func initializeGenerator(ctx context.Context, gen adapters.Generator, cfg Config) (adapters.Generator, error) {
	if gen != nil {
		return gen, nil
	}
	g, err := adapters.New(ctx, cfg.adapterConfig())
	if errors.Is(err, adapters.ErrMissingAPIKey) {
		slog.WarnContext(ctx, "APIキーが設定されていません。生成結果はエラー表示になります", "provider", cfg.Provider)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return g, nil
}

// initializePromptBuilder は引数として既存のビルダーが渡された場合はそれを返し、nil の場合は新規作成します。
func initializePromptBuilder(pb prompts.PromptBuilder) (prompts.PromptBuilder, error) {
	if pb != nil {
		return pb, nil
	}
	tb, err := prompts.NewTextPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("TextPromptBuilder の新規作成に失敗しました: %w", err)
	}
	return tb, nil
}

// HasCredential は生成サービスを呼び出せる状態かどうかを返します。
func (m *Manager) HasCredential() bool {
	return m.generator != nil
}

// BuildPageRunner は指定のコーデックで画像を埋め込む PageRunner を構築します。
func (m *Manager) BuildPageRunner(codec imgcodec.Codec) (PageRunner, error) {
	designer, err := generator.NewPageDesigner(m.generator, m.prompts)
	if err != nil {
		return nil, err
	}
	resolver, err := publisher.NewResolver(codec)
	if err != nil {
		return nil, err
	}
	return runner.NewMagazinePageRunner(designer, resolver)
}

// BuildEditorRunner は記事バッチ用の EditorRunner を構築します。
func (m *Manager) BuildEditorRunner() (EditorRunner, error) {
	editor, err := generator.NewArticleEditor(m.generator, m.prompts)
	if err != nil {
		return nil, err
	}

	var captioner *generator.VisionCaptioner
	if m.generator != nil {
		captioner, err = generator.NewVisionCaptioner(m.generator, m.prompts, m.loader)
		if err != nil {
			return nil, err
		}
	}
	return runner.NewMagazineEditorRunner(editor, captioner)
}
