package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/shouni/go-magazine-kit/pkg/workflow"
)

const shutdownTimeout = 5 * time.Second

// Options はサーバーの構成です。
type Options struct {
	Listen         string
	Pages          workflow.PageRunner
	Editor         workflow.EditorRunner
	OverrideDir    string
	AnalyzeDelay   time.Duration
	PageTTL        time.Duration
	RateLimit      float64 // 1秒あたりの許容リクエスト数
	RateBurst      int
	MaxUploadBytes int64
}

// Server は誌面生成の HTTP API です。
type Server struct {
	listen         string
	pages          workflow.PageRunner
	editor         workflow.EditorRunner
	store          *PageStore
	override       *AnalyzeOverride
	limiter        *rate.Limiter
	maxUploadBytes int64
	handler        http.Handler
}

// New は Server を生成します。
func New(opts Options) (*Server, error) {
	if opts.Pages == nil {
		return nil, fmt.Errorf("PageRunner は必須です")
	}
	if opts.Editor == nil {
		return nil, fmt.Errorf("EditorRunner は必須です")
	}
	if opts.RateLimit <= 0 || opts.RateBurst <= 0 {
		return nil, fmt.Errorf("レート制限は正の値で指定してください")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}

	s := &Server{
		listen:         opts.Listen,
		pages:          opts.Pages,
		editor:         opts.Editor,
		store:          NewPageStore(opts.PageTTL),
		override:       NewAnalyzeOverride(opts.OverrideDir, opts.AnalyzeDelay),
		limiter:        rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		maxUploadBytes: opts.MaxUploadBytes,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("POST /generate", s.throttle(http.HandlerFunc(s.handleGenerate)))
	mux.HandleFunc("GET /pages/{id}", s.handleGetPage)
	mux.Handle("POST /articles", s.throttle(http.HandlerFunc(s.handleArticles)))
	mux.Handle("POST /analyze", s.throttle(s.limitBody(s.override)))
	s.handler = mux

	return s, nil
}

// Handler はルーティング済みのハンドラーを返します。
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run は ctx がキャンセルされるまでリクエストを受け付け、その後グレースフルに停止します。
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.listen, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		// 生成と /analyze の待機を含むため長めに取る
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("HTTP サーバーを起動しました", "address", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("HTTP サーバーを停止します")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// throttle はレート制限を超えたリクエストを 429 で拒否します。
func (s *Server) throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			slog.WarnContext(r.Context(), "レート制限によりリクエストを拒否しました", "path", r.URL.Path)
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
		next.ServeHTTP(w, r)
	})
}
