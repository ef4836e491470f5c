package lru_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codemend/pkg/alg/lru"
)

const (
	// smallMaxEntries limits the cache to 3 entries for eviction tests.
	smallMaxEntries = 3

	// testConcurrentGoroutines is the number of goroutines for concurrency tests.
	testConcurrentGoroutines = 32

	// testConcurrentOps is the number of operations per goroutine.
	testConcurrentOps = 100
)

func TestCache_GetPut(t *testing.T) {
	t.Parallel()

	cache := lru.New(lru.WithMaxEntries[int, string](smallMaxEntries))

	got, found := cache.Get(1)
	assert.False(t, found)
	assert.Empty(t, got)

	cache.Put(1, "hello")

	got, found = cache.Get(1)
	require.True(t, found)
	assert.Equal(t, "hello", got)

	cache.Put(1, "world")

	got, _ = cache.Get(1)
	assert.Equal(t, "world", got)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	var evicted []int

	cache := lru.New(
		lru.WithMaxEntries[int, string](smallMaxEntries),
		lru.WithOnEvict(func(k int, _ string) { evicted = append(evicted, k) }),
	)

	cache.Put(1, "a")
	cache.Put(2, "b")
	cache.Put(3, "c")

	// Touch 1 so 2 becomes the eviction victim.
	_, _ = cache.Get(1)

	cache.Put(4, "d")

	_, found := cache.Get(2)
	assert.False(t, found)
	assert.Equal(t, []int{2}, evicted)
	assert.Equal(t, smallMaxEntries, cache.Len())

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate(), 1e-9)
}

func TestCache_Remove(t *testing.T) {
	t.Parallel()

	cache := lru.New(lru.WithMaxEntries[string, int](smallMaxEntries))
	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)

	assert.True(t, cache.Remove("b"))
	assert.False(t, cache.Remove("b"))

	removed := cache.RemoveFunc(func(_ string, v int) bool { return v > 1 })
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestCache_RequiresCapacity(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { lru.New[int, int]() })
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache := lru.New(lru.WithMaxEntries[int, int](testConcurrentOps))

	var wg sync.WaitGroup

	for g := range testConcurrentGoroutines {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range testConcurrentOps {
				cache.Put(g*testConcurrentOps+i, i)
				_, _ = cache.Get(i)
			}
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), testConcurrentOps)
}
