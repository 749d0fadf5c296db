package workflow

import (
	"context"

	"github.com/shouni/go-magazine-kit/pkg/domain"
	"github.com/shouni/go-magazine-kit/pkg/imgcodec"
	"github.com/shouni/go-magazine-kit/pkg/runner"
)

// Workflow は、誌面生成ワークフローの各工程を担当する Runner を構築するためのインターフェースを定義します。
type Workflow interface {
	BuildPageRunner(codec imgcodec.Codec) (PageRunner, error)
	BuildEditorRunner() (EditorRunner, error)
}

// PageRunner は、本文と画像から1ページ分の HTML を生成する責務を持ちます。
type PageRunner interface {
	Run(ctx context.Context, req domain.PageRequest) (*domain.PageResult, error)
}

// EditorRunner は、記事レコードの集合から原稿を生成する責務を持ちます。
type EditorRunner interface {
	Run(ctx context.Context, articles domain.Articles, analyzeImages bool) (*runner.EditorResult, error)
}
