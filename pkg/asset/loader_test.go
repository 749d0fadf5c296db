package asset

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFetcher struct {
	calls int
	data  []byte
}

func (m *mockFetcher) FetchBytes(_ context.Context, _ string) ([]byte, error) {
	m.calls++
	return m.data, nil
}

func newTestLoader(f Fetcher, ips map[string][]net.IP) *Loader {
	l := NewLoader(f)
	l.resolve = func(host string) ([]net.IP, error) {
		if found, ok := ips[host]; ok {
			return found, nil
		}
		return nil, errors.New("no such host")
	}
	return l
}

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("ローカルファイルを読み込む", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.png")
		require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

		data, err := NewLoader(nil).Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, []byte("png"), data)
	})

	t.Run("公開アドレスの URL は取得する", func(t *testing.T) {
		f := &mockFetcher{data: []byte("remote")}
		l := newTestLoader(f, map[string][]net.IP{"cdn.example.com": {net.ParseIP("93.184.216.34")}})

		data, err := l.Load(ctx, "https://cdn.example.com/a.jpg")
		require.NoError(t, err)
		assert.Equal(t, []byte("remote"), data)
		assert.Equal(t, 1, f.calls)
	})

	t.Run("プライベートアドレスは拒否する", func(t *testing.T) {
		f := &mockFetcher{}
		l := newTestLoader(f, map[string][]net.IP{
			"internal.example.com": {net.ParseIP("93.184.216.34"), net.ParseIP("10.0.0.5")},
		})

		for _, u := range []string{
			"http://127.0.0.1/a.png",
			"http://169.254.169.254/latest/meta-data",
			"http://internal.example.com/a.png",
			"http://unknown.example.com/a.png",
			"http://0.0.0.0/a.png",
		} {
			_, err := l.Load(ctx, u)
			assert.ErrorIs(t, err, ErrUnsafeURL, u)
		}
		assert.Zero(t, f.calls)
	})

	t.Run("HTTP クライアントがなければエラー", func(t *testing.T) {
		_, err := NewLoader(nil).Load(ctx, "https://cdn.example.com/a.jpg")
		assert.Error(t, err)
	})

	t.Run("リモート専用ではローカルファイルを読まない", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "secret.png")
		require.NoError(t, os.WriteFile(path, []byte("secret"), 0o600))

		l := NewRemoteLoader(&mockFetcher{})
		data, err := l.Load(ctx, path)
		assert.ErrorIs(t, err, ErrLocalPathDenied)
		assert.Nil(t, data)
	})

	t.Run("リモート専用でも公開 URL は取得する", func(t *testing.T) {
		f := &mockFetcher{data: []byte("img")}
		l := NewRemoteLoader(f)
		l.resolve = func(string) ([]net.IP, error) { return []net.IP{net.ParseIP("93.184.216.34")}, nil }

		data, err := l.Load(ctx, "https://cdn.example.com/a.jpg")
		require.NoError(t, err)
		assert.Equal(t, []byte("img"), data)
		assert.Equal(t, 1, f.calls)
	})
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("HTTPS://x/y.png"))
	assert.False(t, IsRemote("images/y.png"))
	assert.False(t, IsRemote("ftp://x/y.png"))
}
