package generator

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"

	"github.com/shouni/go-magazine-kit/pkg/adapters"
)

// --- Mocks ---

// mockGenerator は呼び出しを記録し、プロンプトに含まれる文字列で応答を切り替えます。
type mockGenerator struct {
	mu       sync.Mutex
	requests []adapters.Request
	// failOn を含むプロンプトはエラーになる
	failOn   string
	response string
}

func (m *mockGenerator) Generate(_ context.Context, req adapters.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.failOn != "" && strings.Contains(req.Prompt, m.failOn) {
		return "", errors.New("upstream 503")
	}
	return m.response, nil
}

type mockLoader struct {
	data map[string][]byte
}

func (m *mockLoader) Load(_ context.Context, src string) ([]byte, error) {
	data, ok := m.data[src]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func pngBytes() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 3)))
	return buf.Bytes()
}
