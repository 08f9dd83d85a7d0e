package pipeline

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/szting/sgtravel-co2-calculator/internal/domain"
)

// ThrottledGeocoder pauses for a fixed delay after every upstream call,
// successful or not, to respect the lookup service's implicit rate limits.
// The pause is cooperative, not a contract of the service, and is tunable
// via THROTTLE_DELAY. Compose it inside the cache decorator so cache hits
// skip the pause entirely.
type ThrottledGeocoder struct {
	inner domain.Geocoder
	delay time.Duration
	clock clockwork.Clock
}

// NewThrottledGeocoder creates a throttling decorator. A zero or negative
// delay disables the pause.
func NewThrottledGeocoder(inner domain.Geocoder, delay time.Duration, clock clockwork.Clock) *ThrottledGeocoder {
	return &ThrottledGeocoder{
		inner: inner,
		delay: delay,
		clock: clock,
	}
}

func (g *ThrottledGeocoder) Resolve(ctx context.Context, address string) (domain.GeocodeResult, error) {
	result, err := g.inner.Resolve(ctx, address)
	g.pause(ctx)
	return result, err
}

func (g *ThrottledGeocoder) pause(ctx context.Context) {
	if g.delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-g.clock.After(g.delay):
	}
}
