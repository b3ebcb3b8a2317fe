package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeClock(t *testing.T) {
	start := time.Unix(1734209754, 0)
	c := NewFakeClock(start)

	assert.True(t, c.Now().Equal(start))

	c.Advance(5 * time.Second)
	assert.Equal(t, int64(1734209759), c.Now().Unix())
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	now := System{}.Now()
	assert.False(t, now.Before(before))
}
