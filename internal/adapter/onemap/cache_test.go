package onemap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/szting/sgtravel-co2-calculator/internal/domain"
	"github.com/szting/sgtravel-co2-calculator/internal/observability"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	calls  int
	result domain.GeocodeResult
	err    error
}

func (m *countingGeocoder) Resolve(_ context.Context, _ string) (domain.GeocodeResult, error) {
	m.calls++
	return m.result, m.err
}

func newTestCache(inner domain.Geocoder, size int) *CachedGeocoder {
	return NewCachedGeocoder(inner, size, observability.NewMetricsForTesting())
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_Hit(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodeResult{
			Coordinate:       domain.Coordinate{Lat: 1.2834, Lon: 103.8607},
			FormattedAddress: "10 BAYFRONT AVENUE",
		},
	}
	cached := newTestCache(inner, 10)

	r1, err := cached.Resolve(context.Background(), "10 Bayfront Ave")
	require.NoError(t, err)
	assert.Equal(t, "10 BAYFRONT AVENUE", r1.FormattedAddress)

	r2, err := cached.Resolve(context.Background(), "10 Bayfront Ave")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedGeocoder_NormalizesKey(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodeResult{Coordinate: domain.Coordinate{Lat: 1.3, Lon: 103.8}, FormattedAddress: "BEDOK"},
	}
	cached := newTestCache(inner, 10)

	_, _ = cached.Resolve(context.Background(), "Bedok   Mall")
	_, _ = cached.Resolve(context.Background(), "  bedok mall ")

	assert.Equal(t, 1, inner.calls, "case and whitespace variants share one entry")
}

func TestCachedGeocoder_DifferentAddressesMiss(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodeResult{Coordinate: domain.Coordinate{Lat: 1.3, Lon: 103.8}, FormattedAddress: "X"},
	}
	cached := newTestCache(inner, 10)

	_, _ = cached.Resolve(context.Background(), "Bedok")
	_, _ = cached.Resolve(context.Background(), "Clementi")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedGeocoder_NotFoundNotCached(t *testing.T) {
	inner := &countingGeocoder{err: domain.ErrNotFound}
	cached := newTestCache(inner, 10)

	_, err := cached.Resolve(context.Background(), "nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = cached.Resolve(context.Background(), "nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 2, inner.calls, "failed lookups must be retried, not served from cache")
}

// --- LRU unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.GeocodeResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodeResult{FormattedAddress: "B"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result.FormattedAddress)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodeResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodeResult{FormattedAddress: "B"})
	c.put("c", domain.GeocodeResult{FormattedAddress: "C"}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	_, ok = c.get("b")
	assert.True(t, ok)
	_, ok = c.get("c")
	assert.True(t, ok)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodeResult{FormattedAddress: "A"})
	c.put("b", domain.GeocodeResult{FormattedAddress: "B"})

	c.get("a")

	// Inserting "c" should evict "b", the least recently used.
	c.put("c", domain.GeocodeResult{FormattedAddress: "C"})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.GeocodeResult{FormattedAddress: "A1"})
	c.put("a", domain.GeocodeResult{FormattedAddress: "A2"})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result.FormattedAddress)
}
