package domain

import (
	"context"
	"errors"
)

// ErrNotFound is the expected outcome when a geocoding provider has no match
// for an address. Any other error from a Geocoder is a transport or parse
// fault, distinguishable via errors.Is.
var ErrNotFound = errors.New("address not found")

// GeocodeResult is a successfully resolved address.
type GeocodeResult struct {
	Coordinate       Coordinate
	FormattedAddress string // provider-normalized form of the input address
}

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	// Resolve returns the first ranked match for address, ErrNotFound when
	// the provider reports no usable match, or a classified error on
	// transport failure.
	Resolve(ctx context.Context, address string) (GeocodeResult, error)
}
