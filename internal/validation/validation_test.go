package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "remainder/internal/errors"
)

type sample struct {
	Name   string   `json:"name" validate:"required,max=8"`
	Weight *float64 `json:"weight" validate:"omitempty,gte=0"`
	Time   int64    `json:"time" validate:"gte=0"`
}

func float(v float64) *float64 { return &v }

func TestStruct(t *testing.T) {
	tests := []struct {
		name     string
		input    sample
		wantErr  bool
		contains []string
	}{
		{
			name:  "valid",
			input: sample{Name: "pla", Weight: float(1000), Time: 60},
		},
		{
			name:  "nil pointer skipped",
			input: sample{Name: "pla"},
		},
		{
			name:     "missing name",
			input:    sample{},
			wantErr:  true,
			contains: []string{"name is required"},
		},
		{
			name:     "name too long",
			input:    sample{Name: "much too long"},
			wantErr:  true,
			contains: []string{"name must be at most 8 characters long"},
		},
		{
			name:     "every failure reported",
			input:    sample{Name: "pla", Weight: float(-1), Time: -5},
			wantErr:  true,
			contains: []string{"weight must not be negative", "time must not be negative, got -5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			for _, want := range tt.contains {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
