// Package tokencache keeps bearer tokens until shortly before they expire so
// consecutive counter requests share one credential exchange.
package tokencache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/msf-counter-service/internal/metrics"
	"github.com/preston-bernstein/msf-counter-service/internal/providers"
)

const (
	defaultRefreshSkew = 30 * time.Second
	// defaultTTL applies to tokens issued without expires_in.
	defaultTTL = 5 * time.Minute
)

// Options tunes a Cache. Zero values fall back to defaults.
type Options struct {
	RefreshSkew time.Duration
	DefaultTTL  time.Duration
	Recorder    *metrics.Recorder
}

// Cache stores one token per credentials key.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*oauth2.Token
	group    singleflight.Group
	skew     time.Duration
	ttl      time.Duration
	recorder *metrics.Recorder
	now      func() time.Time
}

// New constructs an empty Cache.
func New(opts Options) *Cache {
	if opts.RefreshSkew <= 0 {
		opts.RefreshSkew = defaultRefreshSkew
	}
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = defaultTTL
	}
	return &Cache{
		entries:  make(map[string]*oauth2.Token),
		skew:     opts.RefreshSkew,
		ttl:      opts.DefaultTTL,
		recorder: opts.Recorder,
		now:      time.Now,
	}
}

// Key derives the cache key for a client registered at a token endpoint.
func Key(tokenURL, clientID string) string {
	return tokenURL + "|" + clientID
}

// Bind returns a TokenFetcher that serves key from the cache and falls back to fetcher on a miss.
func (c *Cache) Bind(key string, fetcher providers.TokenFetcher) *Source {
	return &Source{cache: c, key: key, fetcher: fetcher}
}

// Invalidate drops the token stored under key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Cache) lookup(key string) (*oauth2.Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tok, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !tok.Expiry.After(c.now().Add(c.skew)) {
		delete(c.entries, key)
		return nil, false
	}
	cp := *tok
	return &cp, true
}

func (c *Cache) store(key string, tok *oauth2.Token) oauth2.Token {
	stored := *tok
	if stored.Expiry.IsZero() {
		stored.Expiry = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[key] = &stored
	c.mu.Unlock()
	return stored
}

// Source is a Cache view bound to one credentials key.
type Source struct {
	cache   *Cache
	key     string
	fetcher providers.TokenFetcher
}

// FetchToken returns the cached token or joins one exchange shared by all concurrent callers.
// The exchange outlives any single caller; each caller stops waiting when its own ctx ends.
func (s *Source) FetchToken(ctx context.Context) (*oauth2.Token, error) {
	if tok, ok := s.cache.lookup(s.key); ok {
		s.cache.recorder.RecordTokenLookup(true)
		return tok, nil
	}
	s.cache.recorder.RecordTokenLookup(false)

	shared := context.WithoutCancel(ctx)
	ch := s.cache.group.DoChan(s.key, func() (any, error) {
		if tok, ok := s.cache.lookup(s.key); ok {
			return *tok, nil
		}
		tok, err := s.fetcher.FetchToken(shared)
		if err != nil {
			return nil, err
		}
		return s.cache.store(s.key, tok), nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		tok := res.Val.(oauth2.Token)
		return &tok, nil
	}
}

// Invalidate drops the bound token so the next call exchanges credentials again.
func (s *Source) Invalidate() {
	s.cache.Invalidate(s.key)
}
