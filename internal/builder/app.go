package builder

import (
	"github.com/shouni/go-magazine-kit/internal/config"
	"github.com/shouni/go-magazine-kit/pkg/publisher"
	"github.com/shouni/go-magazine-kit/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config    *config.Config               // Configは、TOML と環境変数から読み込まれた設定です（プロバイダー、モデル、サーバー設定など）。
	Options   config.GenerateOptions       // Optionsは、コマンドラインから渡された実行時の設定です（入力ファイル、画像、出力先など）。
	Workflow  workflow.Workflow            // Workflowは、ページ生成と記事編集の Runner を構築します。
	Publisher *publisher.MagazinePublisher // Publisherは、生成物を保存するための出力先です。
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	wf workflow.Workflow,
	pub *publisher.MagazinePublisher,
) AppContext {
	return AppContext{
		Config:    cfg,
		Options:   cfg.Options,
		Workflow:  wf,
		Publisher: pub,
	}
}
