package onemap

import (
	"container/list"
	"context"
	"strings"
	"sync"

	"github.com/szting/sgtravel-co2-calculator/internal/domain"
	"github.com/szting/sgtravel-co2-calculator/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache keyed by the
// normalized address. Batches often repeat depot or office addresses, and a
// hit skips both the network call and the rate-limit pause.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) Resolve(ctx context.Context, address string) (domain.GeocodeResult, error) {
	key := strings.ToLower(strings.Join(strings.Fields(address), " "))

	if result, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Resolve(ctx, address)
	if err != nil {
		// Not-found and transient failures are not cached so a later batch
		// can retry them.
		return result, err
	}
	c.cache.put(key, result)
	return result, nil
}

// lruCache is a small thread-safe LRU for geocoding results.
type lruCache struct {
	maxEntries int

	mu      sync.Mutex
	order   *list.List // front = most recently used
	entries map[string]*list.Element
}

type cacheEntry struct {
	key   string
	value domain.GeocodeResult
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (domain.GeocodeResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return domain.GeocodeResult{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

func (c *lruCache) put(key string, value domain.GeocodeResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, value: value})

	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}
