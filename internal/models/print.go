package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Print is one usage event: the filament consumed by a single print job.
// Maps to the filament table: print_id, print_weight, print_length, print_time, roll_id
type Print struct {
	ID       uuid.UUID `db:"print_id" json:"id"`
	SpoolID  uuid.UUID `db:"roll_id" json:"spool_id"` // assigned from the active spool, never by the caller
	Duration int64     `db:"print_time" json:"duration"` // seconds
	Measurement
}

// String returns a human-readable representation of the print
func (p Print) String() string {
	return fmt.Sprintf("%s: %s over %ds on spool %s", p.ID, p.Measurement, p.Duration, p.SpoolID)
}
