package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSpoolEmbedsMeasurement checks that the resolver works through Spool and Print
func TestSpoolEmbedsMeasurement(t *testing.T) {
	spool := Spool{
		ID:          uuid.New(),
		Name:        "creality",
		CreatedAt:   1734209754,
		Measurement: Measurement{Weight: Float(1000)},
	}

	resolved, err := spool.Resolve()
	require.NoError(t, err)
	spool.Measurement = resolved

	assert.InDelta(t, 330.0, spool.LengthValue(), 1e-9)
	assert.Equal(t, time.Unix(1734209754, 0), spool.CreatedTime())
	assert.True(t, strings.Contains(spool.String(), `"creality"`))
}

func TestPrintEmbedsMeasurement(t *testing.T) {
	p := Print{
		ID:          uuid.New(),
		Duration:    1125,
		Measurement: Measurement{Length: Float(2.31)},
	}

	resolved, err := p.Resolve()
	require.NoError(t, err)
	p.Measurement = resolved

	assert.InDelta(t, 2.31*WeightPerLength, p.WeightValue(), 1e-9)
	assert.Contains(t, p.String(), "1125s")
}
