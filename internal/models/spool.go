package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Spool represents one roll of filament.
// Maps to the spool table: roll_id, roll_name, roll_weight, roll_length, roll_timestamp
type Spool struct {
	ID        uuid.UUID `db:"roll_id" json:"id"`
	Name      string    `db:"roll_name" json:"name"`
	CreatedAt int64     `db:"roll_timestamp" json:"created_at"` // seconds since epoch, the recency key
	Measurement
}

// CreatedTime returns CreatedAt as a time.Time
func (s Spool) CreatedTime() time.Time {
	return time.Unix(s.CreatedAt, 0)
}

// String returns a human-readable representation of the spool
func (s Spool) String() string {
	return fmt.Sprintf("%s %q (%s) created %s",
		s.ID,
		s.Name,
		s.Measurement,
		s.CreatedTime().Format("2006-01-02 15:04:05"))
}
