package domain

import (
	"context"
	"log/slog"
	"strings"
)

// ProcessTrip runs one trip through the resolution state machine:
// blank-address check, origin geocode, destination geocode, distance
// estimate, emission computation. The first failing step decides the
// terminal status; geocoding faults are logged and absorbed here so they
// never interrupt a batch.
func ProcessTrip(ctx context.Context, origin, destination string, geocoder Geocoder, estimator DistanceEstimator, calculator EmissionCalculator, logger *slog.Logger) Record {
	rec := Record{
		OriginAddress:      strings.TrimSpace(origin),
		DestinationAddress: strings.TrimSpace(destination),
	}

	if rec.OriginAddress == "" || rec.DestinationAddress == "" {
		rec.Status = StatusMissingAddress
		return rec
	}

	from, err := geocoder.Resolve(ctx, rec.OriginAddress)
	if err != nil {
		logger.Warn("origin address did not resolve",
			"address", rec.OriginAddress,
			"reason", err,
		)
		rec.Status = StatusOriginNotFound
		return rec
	}

	to, err := geocoder.Resolve(ctx, rec.DestinationAddress)
	if err != nil {
		logger.Warn("destination address did not resolve",
			"address", rec.DestinationAddress,
			"reason", err,
		)
		rec.Status = StatusDestinationNotFound
		return rec
	}

	km, err := estimator.Estimate(from.Coordinate, to.Coordinate)
	if err != nil {
		logger.Warn("distance estimate failed",
			"origin", rec.OriginAddress,
			"destination", rec.DestinationAddress,
			"reason", err,
		)
		rec.Status = StatusDistanceUnavailable
		return rec
	}

	kg := calculator.Emissions(km)
	rec.DistanceKM = &km
	rec.EmissionKG = &kg
	rec.Status = StatusSuccess
	return rec
}
