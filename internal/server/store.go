package server

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/shouni/go-magazine-kit/pkg/domain"
)

const cacheCleanupInterval = 15 * time.Minute

// PageStore は生成したページをダウンロード用に一定時間保持します。
// ttl が 0 以下の場合は何も保持しません。
type PageStore struct {
	cache *cache.Cache
}

// NewPageStore は ttl の間ページを保持するストアを生成します。
func NewPageStore(ttl time.Duration) *PageStore {
	if ttl <= 0 {
		return &PageStore{}
	}
	return &PageStore{cache: cache.New(ttl, cacheCleanupInterval)}
}

// Put はページ ID をキーにページを保存します。
func (s *PageStore) Put(page *domain.PageResult) {
	if s.cache == nil {
		return
	}
	s.cache.SetDefault(page.ID, page)
}

// Get は保存されたページを返します。
func (s *PageStore) Get(id string) (*domain.PageResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	page, ok := v.(*domain.PageResult)
	return page, ok
}

// Len は保持しているページ数です。
func (s *PageStore) Len() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.ItemCount()
}
