package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeSpansRequestedDays(t *testing.T) {
	from, to := Range(30)
	fromDate, err := time.Parse(isoLayout, from)
	require.NoError(t, err)
	toDate, err := time.Parse(isoLayout, to)
	require.NoError(t, err)
	assert.Equal(t, 30, int(toDate.Sub(fromDate).Hours()/24))
}

func TestDaysAgoInvalidDate(t *testing.T) {
	_, ok := DaysAgo("not-a-date")
	assert.False(t, ok)
	_, ok = DaysAgo("")
	assert.False(t, ok)
}

func TestDaysAgoKnownOffset(t *testing.T) {
	_, to := Range(0)
	age, ok := DaysAgo(to)
	require.True(t, ok)
	assert.Equal(t, 0, age)
}

func TestRecencyScoreBands(t *testing.T) {
	_, today := Range(0)
	assert.Equal(t, 100, RecencyScore(today, 30))
	assert.Equal(t, 0, RecencyScore("2000-01-01", 30))
	assert.Equal(t, 0, RecencyScore("garbage", 30))
}

func TestOffsetDate(t *testing.T) {
	out, err := OffsetDate("2026-07-01", 5)
	require.NoError(t, err)
	assert.Equal(t, "2026-07-06", out)

	_, err = OffsetDate("bad", 1)
	assert.Error(t, err)
}

func TestFormatConverters(t *testing.T) {
	assert.Equal(t, "2026070100", ToWikimediaFormat("2026-07-01"))
	assert.Equal(t, "20260701000000", ToGDELTFormat("2026-07-01"))
	assert.Equal(t, "2026-07-01", ToAPIFormat("2026-07-01"))
}

func TestYearHelpers(t *testing.T) {
	assert.Equal(t, time.Now().UTC().Year(), CurrentYear())
	assert.Equal(t, "2026", YearString(2026))
}
