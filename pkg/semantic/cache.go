package semantic

import (
	"context"

	"github.com/Sumatoshi-tech/codemend/pkg/alg/lru"
	"github.com/Sumatoshi-tech/codemend/pkg/syntax"
)

// DefaultCacheSize bounds the memo of a cached oracle.
const DefaultCacheSize = 4096

type cacheKey struct {
	node nodeKey
	op   uint8
}

const (
	opSymbol uint8 = iota
	opType
)

type cachedFact struct {
	symbol Symbol
	typ    Type
}

// Cached memoizes SymbolOf and TypeOf answers of an inner oracle bound to a
// single tree. Cancelled lookups are never cached.
type Cached struct {
	inner Oracle
	memo  *lru.Cache[cacheKey, cachedFact]
}

// NewCached wraps inner with an LRU memo of at most size answers.
func NewCached(inner Oracle, size int) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}

	return &Cached{
		inner: inner,
		memo:  lru.New(lru.WithMaxEntries[cacheKey, cachedFact](size)),
	}
}

// SymbolOf implements Oracle.
func (c *Cached) SymbolOf(ctx context.Context, n *syntax.Node) (Symbol, error) {
	key := cacheKey{node: keyOf(n), op: opSymbol}
	if fact, ok := c.memo.Get(key); ok {
		return fact.symbol, nil
	}

	sym, err := c.inner.SymbolOf(ctx, n)
	if err != nil {
		return Unresolved, err
	}

	c.memo.Put(key, cachedFact{symbol: sym})

	return sym, nil
}

// TypeOf implements Oracle.
func (c *Cached) TypeOf(ctx context.Context, n *syntax.Node) (Type, error) {
	key := cacheKey{node: keyOf(n), op: opType}
	if fact, ok := c.memo.Get(key); ok {
		return fact.typ, nil
	}

	typ, err := c.inner.TypeOf(ctx, n)
	if err != nil {
		return UnresolvedType, err
	}

	c.memo.Put(key, cachedFact{typ: typ})

	return typ, nil
}

// NamesInScope implements Oracle. Scope queries are cheap and position
// keyed, so they pass through.
func (c *Cached) NamesInScope(ctx context.Context, pos int) ([]string, error) {
	return c.inner.NamesInScope(ctx, pos)
}

// Stats reports memo statistics.
func (c *Cached) Stats() lru.Stats {
	return c.memo.Stats()
}

// CachingProvider wraps every oracle produced by inner in a Cached memo.
func CachingProvider(inner Provider, size int) Provider {
	return ProviderFunc(func(ctx context.Context, root *syntax.Node) (Oracle, error) {
		o, err := inner.Oracle(ctx, root)
		if err != nil {
			return nil, err
		}

		return NewCached(o, size), nil
	})
}
