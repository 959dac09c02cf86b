package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/resy-watch/internal/resy"
)

func TestNormalize_FiltersAndMaps(t *testing.T) {
	raw := []resy.Slot{
		{Available: true, StartMinutes: 19 * 60, Token: "h2", Kind: resy.KindBookable},
		{Available: false, StartMinutes: 18 * 60, Token: "h9", Kind: resy.KindBookable},
		{Available: true, StartMinutes: 20 * 60, Token: "h3", Kind: "waitlist"},
		{Available: true, StartMinutes: 18*60 + 30, Token: "h1", Kind: resy.KindBookable},
		{Available: true, StartMinutes: 21 * 60, Token: "", Kind: resy.KindBookable},
	}

	snap := Normalize("2026-03-12", 11, raw)

	assert.Equal(t, "2026-03-12", snap.Date)
	assert.Equal(t, 11, snap.DaysOut)
	require.Equal(t, 2, snap.SlotCount())
	assert.Equal(t, []SlotID{{Time: "18:30", Hash: "h1"}, {Time: "19:00", Hash: "h2"}}, snap.Slots)
	assert.Equal(t, []string{"18:30", "19:00"}, snap.Times())
}

func TestNormalize_OrderIndependent(t *testing.T) {
	a := []resy.Slot{
		{Available: true, StartMinutes: 1080, Token: "h1", Kind: resy.KindBookable},
		{Available: true, StartMinutes: 1110, Token: "h2", Kind: resy.KindBookable},
	}
	b := []resy.Slot{a[1], a[0]}

	assert.Equal(t, Normalize("2026-03-12", 11, a), Normalize("2026-03-12", 11, b))
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := []resy.Slot{
		{Available: true, StartMinutes: 1080, Token: "h1", Kind: resy.KindBookable},
		{Available: true, StartMinutes: 1140, Token: "h2", Kind: resy.KindBookable},
	}
	first := Normalize("2026-03-12", 11, raw)
	second := Normalize("2026-03-12", 11, raw)
	assert.Equal(t, first, second)
}

func TestNormalize_DuplicateHashCollapses(t *testing.T) {
	raw := []resy.Slot{
		{Available: true, StartMinutes: 1080, Token: "h1", Kind: resy.KindBookable},
		{Available: true, StartMinutes: 1080, Token: "h1", Kind: resy.KindBookable},
	}
	assert.Equal(t, 1, Normalize("2026-03-12", 11, raw).SlotCount())
}

func TestNormalize_Empty(t *testing.T) {
	snap := Normalize("2026-03-12", 11, nil)
	assert.Equal(t, 0, snap.SlotCount())
	assert.Empty(t, snap.Times())
}

func TestNormalize_ClockFormatting(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{600, "10:00"},
		{1439, "23:59"},
		{1440, "00:00"}, // wraps
	}
	for _, tc := range cases {
		raw := []resy.Slot{{Available: true, StartMinutes: tc.minutes, Token: "h", Kind: resy.KindBookable}}
		snap := Normalize("2026-03-12", 11, raw)
		require.Equal(t, 1, snap.SlotCount())
		assert.Equal(t, tc.want, snap.Slots[0].Time)
	}
}
