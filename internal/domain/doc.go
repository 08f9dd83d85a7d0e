// Package domain models trip records and the carbon-emission estimate
// derived for each one.
//
// # Methodology
//
// Each trip is a pair of free-text Singapore addresses. Both are resolved to
// WGS-84 coordinates through the OneMap search API (first ranked match only,
// no disambiguation). The travel distance is the great-circle distance on a
// spherical Earth (radius 6371 km, haversine formula) scaled by a fixed
// road-circuity multiplier, because authenticated road routing is out of
// scope:
//
//	road_km = round(haversine_km × circuity, 2)
//
// The default circuity of 1.3 sits in the 1.2–1.4 range typically observed
// for dense urban road networks such as Singapore's. Emissions follow from a
// flat per-kilometre factor:
//
//	co2_kg = round(road_km × factor, 3)
//
// The default factor of 0.2 kg CO₂/km represents an average private car or
// taxi, per Singapore NEA figures and the IPCC Guidelines for National
// Greenhouse Gas Inventories.
//
// # Failure classification
//
// Every trip ends in exactly one terminal [Status]. Distance and emission
// values are attached iff the status is [StatusSuccess]. A geocoding "no
// match" is an expected outcome ([ErrNotFound]), not a fault; transport and
// parse failures talking to the lookup service are returned as classified
// errors by the adapter and absorbed into the same not-found status by
// [ProcessTrip], which logs the address and reason. Faults never escape a
// single trip.
package domain
