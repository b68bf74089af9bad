package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zone = time.FixedZone("AEST", 10*3600)

func TestParseDate(t *testing.T) {
	day, err := ParseDate("2025-06-02", zone)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, zone), day)

	_, err = ParseDate("02/06/2025", zone)
	assert.Error(t, err)
}

func TestCombineDateClock(t *testing.T) {
	day := time.Date(2025, 6, 2, 0, 0, 0, 0, zone)

	got, err := CombineDateClock(day, "05:30", zone)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 2, 5, 30, 0, 0, zone), got)

	_, err = CombineDateClock(day, "5:30pm", zone)
	assert.Error(t, err)
}

func TestSameLocalDate(t *testing.T) {
	// 23:30 local on the 2nd, which is 13:30 on the 2nd in UTC.
	instant := time.Date(2025, 6, 2, 23, 30, 0, 0, zone)
	assert.True(t, SameLocalDate(instant, "2025-06-02", zone))

	next := time.Date(2025, 6, 3, 0, 30, 0, 0, zone)
	assert.False(t, SameLocalDate(next, "2025-06-02", zone))
	assert.True(t, SameLocalDate(next.UTC(), "2025-06-03", zone))
}

func TestClock(t *testing.T) {
	instant := time.Date(2025, 6, 2, 6, 5, 0, 0, zone)
	assert.Equal(t, "06:05", Clock(instant, zone))
	assert.Equal(t, "06:05", Clock(instant.UTC(), zone))
}
