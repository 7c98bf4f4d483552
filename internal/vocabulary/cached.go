package vocabulary

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/meltforce/wodparse/internal/parser"
)

// DefaultCacheSize is used when a non-positive size is given to NewCached.
const DefaultCacheSize = 1024

type normalized struct {
	canonical string
	ok        bool
}

// Cached decorates a Vocabulary with LRU caches for per-name lookups and the
// full listing. Misses are cached too. Errors are never cached.
type Cached struct {
	next parser.Vocabulary

	byAlias     *lru.Cache[string, *parser.Movement]
	byCanonical *lru.Cache[string, *parser.Movement]
	names       *lru.Cache[string, normalized]
	searches    *lru.Cache[string, []parser.Movement]

	mu       sync.Mutex
	aliasMap map[string]string
}

var _ parser.Vocabulary = (*Cached)(nil)

// NewCached wraps next with caches holding up to size entries each.
func NewCached(next parser.Vocabulary, size int) (*Cached, error) {
	if next == nil {
		return nil, parser.ErrNilVocabulary
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	c := &Cached{next: next}
	var err error
	if c.byAlias, err = lru.New[string, *parser.Movement](size); err != nil {
		return nil, fmt.Errorf("creating alias cache: %w", err)
	}
	if c.byCanonical, err = lru.New[string, *parser.Movement](size); err != nil {
		return nil, fmt.Errorf("creating canonical cache: %w", err)
	}
	if c.names, err = lru.New[string, normalized](size); err != nil {
		return nil, fmt.Errorf("creating name cache: %w", err)
	}
	if c.searches, err = lru.New[string, []parser.Movement](size); err != nil {
		return nil, fmt.Errorf("creating search cache: %w", err)
	}
	return c, nil
}

// Purge drops every cached entry, e.g. after the underlying store is reseeded.
func (c *Cached) Purge() {
	c.byAlias.Purge()
	c.byCanonical.Purge()
	c.names.Purge()
	c.searches.Purge()
	c.mu.Lock()
	c.aliasMap = nil
	c.mu.Unlock()
}

func (c *Cached) AliasMap(ctx context.Context) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aliasMap == nil {
		m, err := c.next.AliasMap(ctx)
		if err != nil {
			return nil, err
		}
		c.aliasMap = m
	}
	out := make(map[string]string, len(c.aliasMap))
	for k, v := range c.aliasMap {
		out[k] = v
	}
	return out, nil
}

func (c *Cached) Normalize(ctx context.Context, text string) (string, bool, error) {
	key := parser.NormalizeName(text)
	if n, ok := c.names.Get(key); ok {
		return n.canonical, n.ok, nil
	}
	canonical, ok, err := c.next.Normalize(ctx, text)
	if err != nil {
		return "", false, err
	}
	c.names.Add(key, normalized{canonical: canonical, ok: ok})
	return canonical, ok, nil
}

func (c *Cached) FindByCanonicalName(ctx context.Context, name string) (*parser.Movement, error) {
	return cachedLookup(ctx, c.byCanonical, name, c.next.FindByCanonicalName)
}

func (c *Cached) FindByAlias(ctx context.Context, text string) (*parser.Movement, error) {
	return cachedLookup(ctx, c.byAlias, text, c.next.FindByAlias)
}

func (c *Cached) Search(ctx context.Context, query string) ([]parser.Movement, error) {
	key := parser.NormalizeName(query)
	if res, ok := c.searches.Get(key); ok {
		return append([]parser.Movement(nil), res...), nil
	}
	res, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	c.searches.Add(key, res)
	return append([]parser.Movement(nil), res...), nil
}

func cachedLookup(
	ctx context.Context,
	cache *lru.Cache[string, *parser.Movement],
	text string,
	load func(context.Context, string) (*parser.Movement, error),
) (*parser.Movement, error) {
	key := parser.NormalizeName(text)
	if m, ok := cache.Get(key); ok {
		return copyMovement(m), nil
	}
	m, err := load(ctx, text)
	if err != nil {
		return nil, err
	}
	cache.Add(key, copyMovement(m))
	return m, nil
}

func copyMovement(m *parser.Movement) *parser.Movement {
	if m == nil {
		return nil
	}
	cp := *m
	return &cp
}
