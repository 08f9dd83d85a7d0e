package domain

// EmissionCalculator converts a travel distance into an estimated CO₂ mass.
type EmissionCalculator struct {
	// FactorKgPerKm is the mass of CO₂ emitted per kilometre traveled.
	FactorKgPerKm float64
}

// Emissions returns the estimated emission in kilograms for a distance in
// kilometres, rounded to three decimal places. Total over non-negative
// inputs; Emissions(0) == 0.
func (c EmissionCalculator) Emissions(distanceKM float64) float64 {
	return round3(distanceKM * c.FactorKgPerKm)
}
