package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReal_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	assert.Equal(t, loc, NewReal(loc).Now().Location())
	assert.Equal(t, time.UTC, NewReal(nil).Now().Location())
}

func TestFixed(t *testing.T) {
	ts := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, ts, Fixed{T: ts}.Now())
}
