package models

// Usage is an aggregate over a set of prints.
type Usage struct {
	Weight   float64 `json:"weight"`   // grams
	Length   float64 `json:"length"`   // meters
	Duration int64   `json:"duration"` // seconds
	Prints   int64   `json:"prints"`
}

// DurationMinutes returns the total duration in whole minutes
func (u Usage) DurationMinutes() int64 {
	return u.Duration / 60
}

// PrintRequest is the caller-supplied part of a print. The spool is never
// part of a request; it is assigned from the active spool when recorded.
type PrintRequest struct {
	Line     int   `json:"line,omitempty"` // source line when parsed from a file
	Duration int64 `json:"duration"`       // seconds
	Measurement
}
