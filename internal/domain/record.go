package domain

// Status is the terminal outcome of processing one trip record.
type Status string

const (
	StatusSuccess             Status = "Success"
	StatusMissingAddress      Status = "MissingAddress"
	StatusOriginNotFound      Status = "OriginNotFound"
	StatusDestinationNotFound Status = "DestinationNotFound"
	StatusDistanceUnavailable Status = "DistanceUnavailable"
)

// Record is one processed trip. DistanceKM and EmissionKG are set iff
// Status is StatusSuccess.
type Record struct {
	OriginAddress      string
	DestinationAddress string

	DistanceKM *float64 // kilometres, rounded to 2 decimal places
	EmissionKG *float64 // kilograms CO₂, rounded to 3 decimal places
	Status     Status
}

// Succeeded reports whether the record carries distance and emission values.
func (r Record) Succeeded() bool {
	return r.Status == StatusSuccess
}
