package horizon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildFourWeeksStartingMonday(t *testing.T) {
	start := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC) // a Monday
	hz := Build(start, 4)

	assert.Equal(t, 20, hz.Len()) // 4 weeks * 5 weekdays

	idx, ok := hz.IndexOf("2024-12-02")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	assert.Equal(t, "2024-12-02", hz.DateAt(0))
}

func TestBuildFiveWeeks(t *testing.T) {
	start := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	hz := Build(start, 5)

	assert.Equal(t, 25, hz.Len())
}

func TestBuildDropsWeekends(t *testing.T) {
	start := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	hz := Build(start, 1)

	for i := 0; i < hz.Len(); i++ {
		wd := hz.Weekday(i)
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
}

func TestBuildAcceptsNonMondayStart(t *testing.T) {
	start := time.Date(2024, 12, 4, 0, 0, 0, 0, time.UTC) // Wednesday
	hz := Build(start, 1)

	assert.Equal(t, "2024-12-04", hz.DateAt(0))
	assert.True(t, hz.Len() > 0)
}

func TestIdempotentRelabelingRoundTrip(t *testing.T) {
	start := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	hz := Build(start, 4)

	for i := 0; i < hz.Len(); i++ {
		date := hz.DateAt(i)
		idx, ok := hz.IndexOf(date)
		assert.True(t, ok)
		assert.Equal(t, i, idx)
	}
}

func TestIndexOfUnknownDate(t *testing.T) {
	start := time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC)
	hz := Build(start, 4)

	_, ok := hz.IndexOf("1999-01-01")
	assert.False(t, ok)
}
