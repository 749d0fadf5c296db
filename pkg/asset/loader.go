package asset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"
)

var (
	// ErrUnsafeURL は SSRF の可能性がある URL に対して返されます。
	ErrUnsafeURL = errors.New("安全でない URL です")
	// ErrLocalPathDenied はリモート専用の Loader にローカルパスが渡された場合に返されます。
	ErrLocalPathDenied = errors.New("ローカルパスからの読み込みは許可されていません")
)

// Fetcher は URL からバイト列を取得します。httpkit.ClientInterface が満たします。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Loader はローカルパスまたは http(s) URL から画像を読み込みます。
type Loader struct {
	fetcher    Fetcher
	remoteOnly bool
	// resolve はホスト名の名前解決です。テストで差し替えます。
	resolve func(host string) ([]net.IP, error)
}

// NewLoader は Loader を生成します。fetcher が nil の場合、URL の読み込みはエラーになります。
func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{fetcher: fetcher, resolve: net.LookupIP}
}

// NewRemoteLoader は http(s) URL だけを読み込む Loader を生成します。
// 外部から画像参照を受け取る HTTP サーバーで使います。
func NewRemoteLoader(fetcher Fetcher) *Loader {
	l := NewLoader(fetcher)
	l.remoteOnly = true
	return l
}

// Load は src がURLなら安全性を検証してダウンロードし、それ以外はローカルファイルとして読み込みます。
func (l *Loader) Load(ctx context.Context, src string) ([]byte, error) {
	if !IsRemote(src) {
		if l.remoteOnly {
			slog.WarnContext(ctx, "ローカルパスの画像参照をブロックしました", "src", src)
			return nil, fmt.Errorf("%w: %s", ErrLocalPathDenied, src)
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("画像ファイルの読み込みに失敗しました: %w", err)
		}
		return data, nil
	}

	if l.fetcher == nil {
		return nil, fmt.Errorf("URL の取得に使う HTTP クライアントがありません: %s", src)
	}
	if err := l.checkURL(src); err != nil {
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました", "url", src, "error", err)
		return nil, err
	}
	data, err := l.fetcher.FetchBytes(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("画像のダウンロードに失敗しました: %w", err)
	}
	return data, nil
}

// IsRemote は src が http(s) の URL かどうかを返します。
func IsRemote(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// checkURL は名前解決されたすべての IP アドレスに対してプライベート IP チェックを行います。
func (l *Loader) checkURL(rawURL string) error {
	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return fmt.Errorf("%w: URLパース失敗: %v", ErrUnsafeURL, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%w: 不許可スキーム: %s", ErrUnsafeURL, parsedURL.Scheme)
	}

	host := parsedURL.Hostname()
	var ips []net.IP
	if ip := net.ParseIP(host); ip != nil {
		ips = []net.IP{ip}
	} else {
		resolved, err := l.resolve(host)
		if err != nil {
			return fmt.Errorf("%w: 名前解決失敗: %v", ErrUnsafeURL, err)
		}
		ips = resolved
	}
	if len(ips) == 0 {
		return fmt.Errorf("%w: IPが見つかりません", ErrUnsafeURL)
	}

	for _, ip := range ips {
		if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
			return fmt.Errorf("%w: 制限されたネットワークへのアクセスを検知: %s", ErrUnsafeURL, ip.String())
		}
	}
	return nil
}
