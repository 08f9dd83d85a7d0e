package pipeline

import (
	"context"
	"log/slog"

	"github.com/szting/sgtravel-co2-calculator/internal/domain"
)

// TripTransformer implements Transformer using the domain state machine
// with a pluggable geocoder, so batches are testable without a network.
type TripTransformer struct {
	geocoder   domain.Geocoder
	estimator  domain.DistanceEstimator
	calculator domain.EmissionCalculator
	logger     *slog.Logger
}

// NewTransformer creates a TripTransformer.
func NewTransformer(geocoder domain.Geocoder, estimator domain.DistanceEstimator, calculator domain.EmissionCalculator, logger *slog.Logger) *TripTransformer {
	return &TripTransformer{
		geocoder:   geocoder,
		estimator:  estimator,
		calculator: calculator,
		logger:     logger,
	}
}

func (t *TripTransformer) Transform(ctx context.Context, origin, destination string) domain.Record {
	return domain.ProcessTrip(ctx, origin, destination, t.geocoder, t.estimator, t.calculator, t.logger)
}
