// Package models defines the records tracked by the filament accounting engine
// and the rules for deriving a missing measurement from the one that is known.
package models

import (
	"fmt"

	apperrors "remainder/internal/errors"
)

// Conversion ratios between filament mass and length. They are reciprocal
// (1/0.33 ≈ 3.0303) and must be changed together.
const (
	// WeightPerLength is grams of filament per meter
	WeightPerLength = 3.0303

	// LengthPerWeight is meters of filament per gram
	LengthPerWeight = 0.33
)

// Measurement is the pair of optional quantities shared by spools and prints.
// A nil field means the value was not supplied.
type Measurement struct {
	Weight *float64 `json:"weight,omitempty"` // grams
	Length *float64 `json:"length,omitempty"` // meters
}

// NewMeasurement builds a Measurement from optional values
func NewMeasurement(weight, length *float64) Measurement {
	return Measurement{Weight: copyFloat(weight), Length: copyFloat(length)}
}

// ResolveWeight returns a copy of m with Weight set, deriving it from Length
// when missing. A Weight that is already set is kept as is.
func (m Measurement) ResolveWeight() (Measurement, error) {
	if m.Weight != nil {
		return m, nil
	}
	if m.Length == nil {
		return m, apperrors.ErrIncompleteMeasurement
	}
	weight := *m.Length * WeightPerLength
	return Measurement{Weight: &weight, Length: copyFloat(m.Length)}, nil
}

// ResolveLength returns a copy of m with Length set, deriving it from Weight
// when missing. A Length that is already set is kept as is.
func (m Measurement) ResolveLength() (Measurement, error) {
	if m.Length != nil {
		return m, nil
	}
	if m.Weight == nil {
		return m, apperrors.ErrIncompleteMeasurement
	}
	length := *m.Weight * LengthPerWeight
	return Measurement{Weight: copyFloat(m.Weight), Length: &length}, nil
}

// Resolve fills in whichever field is missing.
func (m Measurement) Resolve() (Measurement, error) {
	resolved, err := m.ResolveWeight()
	if err != nil {
		return m, err
	}
	return resolved.ResolveLength()
}

// IsResolved reports whether both fields are set
func (m Measurement) IsResolved() bool {
	return m.Weight != nil && m.Length != nil
}

// WeightValue returns the weight, or 0 when unset
func (m Measurement) WeightValue() float64 {
	if m.Weight == nil {
		return 0
	}
	return *m.Weight
}

// LengthValue returns the length, or 0 when unset
func (m Measurement) LengthValue() float64 {
	if m.Length == nil {
		return 0
	}
	return *m.Length
}

// String returns a human-readable representation of the measurement
func (m Measurement) String() string {
	return fmt.Sprintf("%s g / %s m", formatOptional(m.Weight), formatOptional(m.Length))
}

func formatOptional(v *float64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%g", *v)
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Float returns a pointer to v, for building optional measurements
func Float(v float64) *float64 {
	return &v
}
