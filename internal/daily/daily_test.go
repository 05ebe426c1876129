package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKeyIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	morning := time.Date(2025, 3, 9, 0, 5, 0, 0, loc)
	night := time.Date(2025, 3, 9, 23, 59, 59, 0, loc)

	assert.Equal(t, "2025-03-09", DateKey(morning))
	assert.Equal(t, DateKey(morning), DateKey(night))
}

func TestParseKey(t *testing.T) {
	d, err := ParseKey("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", DateKey(d))

	_, err = ParseKey("29/02/2024")
	assert.Error(t, err)
}

func TestIndexIsStablePerDay(t *testing.T) {
	day := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	later := day.Add(10 * time.Hour)

	i := Index(day, "salt", 5)
	assert.Equal(t, i, Index(later, "salt", 5))
	assert.GreaterOrEqual(t, i, 0)
	assert.Less(t, i, 5)
	assert.Zero(t, Index(day, "salt", 0))
}

func TestIndexVariesAcrossDays(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seen := map[int]bool{}
	for d := 0; d < 60; d++ {
		seen[Index(start.AddDate(0, 0, d), "salt", 5)] = true
	}
	assert.Len(t, seen, 5)
}
