package watch

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHorizonDates_Window(t *testing.T) {
	now := time.Date(2026, 3, 1, 15, 4, 5, 0, time.UTC)
	h := Horizon{Start: 11, End: 15}

	days := h.Dates(now)
	require.Len(t, days, 5)

	want := []string{"2026-03-12", "2026-03-13", "2026-03-14", "2026-03-15", "2026-03-16"}
	for i, d := range days {
		assert.Equal(t, want[i], d.Date)
		assert.Equal(t, 11+i, d.DaysOut)
	}

	// strictly increasing, one day apart
	for i := 1; i < len(days); i++ {
		prev, err := time.Parse(dayFormat, days[i-1].Date)
		require.NoError(t, err)
		cur, err := time.Parse(dayFormat, days[i].Date)
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, cur.Sub(prev))
	}
}

func TestHorizonDates_MidnightRollover(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	h := Horizon{Start: 2, End: 4}

	before := h.Dates(now)
	after := h.Dates(now.AddDate(0, 0, 1))

	// the whole window shifts by one calendar day
	assert.Equal(t, before[1].Date, after[0].Date)
	assert.Equal(t, before[2].Date, after[1].Date)
	assert.NotContains(t, []string{before[0].Date, before[1].Date, before[2].Date}, after[2].Date)
}

func TestHorizonDates_SingleDay(t *testing.T) {
	now := time.Date(2026, 1, 31, 6, 0, 0, 0, time.UTC)
	days := Horizon{Start: 3, End: 3}.Dates(now)
	require.Len(t, days, 1)
	assert.Equal(t, "2026-02-03", days[0].Date)
	assert.Equal(t, 3, days[0].DaysOut)
}

func TestJittered_Bounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	base := 60 * time.Second
	jitter := 20 * time.Second
	floor := 10 * time.Second

	for i := 0; i < 1000; i++ {
		d := Jittered(rnd, base, jitter, floor)
		assert.GreaterOrEqual(t, d, floor)
		assert.GreaterOrEqual(t, d, base-jitter)
		assert.LessOrEqual(t, d, base+jitter)
	}
}

func TestJittered_FloorClamp(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		d := Jittered(rnd, 5*time.Second, 10*time.Second, 10*time.Second)
		assert.GreaterOrEqual(t, d, 10*time.Second)
		assert.LessOrEqual(t, d, 15*time.Second)
	}
}

func TestJittered_NoJitter(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	assert.Equal(t, time.Minute, Jittered(rnd, time.Minute, 0, time.Second))
}

func TestRequestGap_Range(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		g := RequestGap(rnd)
		assert.GreaterOrEqual(t, g, time.Second)
		assert.LessOrEqual(t, g, 3*time.Second)
	}
}
