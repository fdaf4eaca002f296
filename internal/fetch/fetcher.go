// Package fetch retrieves the target listing page. Two strategies exist: a
// plain HTTP fetch gated by a cache-backed politeness window, and a real
// browser session for when the page only renders its cards client-side.
package fetch

import (
	"fmt"
	"io"
	"strings"
	"time"

	"sudburyscout/carscout/helpers"
	"sudburyscout/carscout/services/cache"
)

// Fetcher fetches a page over plain HTTP with a politeness window: while the
// block key is present in cache the target is not contacted at all, and a
// rate-limited response arms the key for BlockTime.
type Fetcher struct {
	URL       string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration

	// fetchFunc is swappable in tests.
	fetchFunc func(url string) (io.Reader, error)
}

// NewFetcher builds a Fetcher around helpers.FetchWithRandomHeaders.
func NewFetcher(url, cacheKey string, cacheSvc cache.CacheService, blockTime time.Duration) *Fetcher {
	return &Fetcher{
		URL:       url,
		CacheKey:  cacheKey,
		CacheSvc:  cacheSvc,
		BlockTime: blockTime,
		fetchFunc: helpers.FetchWithRandomHeaders,
	}
}

// Fetch retrieves the target page, refusing while inside the block window.
func (f *Fetcher) Fetch() (io.Reader, error) {
	if f.CacheSvc != nil && f.CacheKey != "" {
		if _, err := f.CacheSvc.Get(f.CacheKey); err == nil {
			return nil, fmt.Errorf("%s: fetch blocked for another %d seconds",
				f.CacheKey, int(f.BlockTime/time.Second))
		}
	}

	fetchFunc := f.fetchFunc
	if fetchFunc == nil {
		fetchFunc = helpers.FetchWithRandomHeaders
	}

	body, err := fetchFunc(f.URL)
	if err != nil {
		if f.CacheSvc != nil && f.CacheKey != "" && strings.HasPrefix(err.Error(), "rate limited") {
			f.CacheSvc.Set(f.CacheKey, []byte("blocked"), f.BlockTime)
		}
		return nil, err
	}

	return body, nil
}
