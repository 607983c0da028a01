package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stamped time.Time

func (s stamped) Timestamp() time.Time { return time.Time(s) }

func TestStartOfDayWeekMonthYear(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// Wednesday 2024-03-13 15:04:05 local.
	ref := time.Date(2024, 3, 13, 15, 4, 5, 0, loc)

	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, loc), StartOfDay(ref, loc))
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, loc), StartOfWeek(ref, time.Sunday, loc))
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, loc), StartOfWeek(ref, time.Monday, loc))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), StartOfMonth(ref, loc))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), StartOfYear(ref, loc))
}

func TestStartOfWeekOnWeekStartDay(t *testing.T) {
	loc := time.UTC
	sunday := time.Date(2024, 3, 10, 9, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, loc), StartOfWeek(sunday, time.Sunday, loc))
	// A Sunday belongs to the previous Monday-started week.
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, loc), StartOfWeek(sunday, time.Monday, loc))
}

func TestDayKeyCrossesTimezone(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 23:30 UTC on the 9th is already the 10th in UTC+7.
	instant := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-10", DayKey(instant, jakarta))
	assert.Equal(t, "2024-03-09", DayKey(instant, time.UTC))
}

func TestSameDayAndDaysBetween(t *testing.T) {
	loc := time.UTC
	a := time.Date(2024, 1, 1, 0, 30, 0, 0, loc)
	b := time.Date(2024, 1, 1, 23, 59, 0, 0, loc)
	c := time.Date(2024, 1, 5, 12, 0, 0, 0, loc)

	assert.True(t, SameDay(a, b, loc))
	assert.False(t, SameDay(a, c, loc))
	assert.Equal(t, 4, DaysBetween(a, c, loc))
	assert.Equal(t, -4, DaysBetween(c, a, loc))
	assert.Equal(t, 0, DaysBetween(a, b, loc))
}

func TestBucketByDay(t *testing.T) {
	loc := time.UTC
	records := []stamped{
		stamped(time.Date(2024, 1, 1, 8, 0, 0, 0, loc)),
		stamped(time.Date(2024, 1, 1, 14, 0, 0, 0, loc)),
		stamped(time.Date(2024, 1, 2, 8, 0, 0, 0, loc)),
	}

	buckets := BucketByDay(records, loc)
	require.Len(t, buckets, 2)
	assert.Len(t, buckets["2024-01-01"], 2)
	assert.Len(t, buckets["2024-01-02"], 1)
}

func TestBucketByWeekAndMonth(t *testing.T) {
	loc := time.UTC
	records := []stamped{
		stamped(time.Date(2024, 3, 9, 8, 0, 0, 0, loc)),  // Saturday, week of Mar 3
		stamped(time.Date(2024, 3, 10, 8, 0, 0, 0, loc)), // Sunday, week of Mar 10
		stamped(time.Date(2024, 4, 1, 8, 0, 0, 0, loc)),
	}

	weeks := BucketByWeek(records, time.Sunday, loc)
	require.Len(t, weeks, 3)
	assert.Len(t, weeks["2024-03-03"], 1)
	assert.Len(t, weeks["2024-03-10"], 1)

	months := BucketByMonth(records, loc)
	require.Len(t, months, 2)
	assert.Len(t, months["2024-03"], 2)
	assert.Len(t, months["2024-04"], 1)
}

func TestParseWeekday(t *testing.T) {
	assert.Equal(t, time.Monday, ParseWeekday("MONDAY"))
	assert.Equal(t, time.Saturday, ParseWeekday("saturday"))
	assert.Equal(t, time.Sunday, ParseWeekday(""))
	assert.Equal(t, time.Sunday, ParseWeekday("bogus"))
}
