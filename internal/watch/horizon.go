package watch

import (
	"math/rand"
	"time"
)

const dayFormat = "2006-01-02"

// Horizon is the rolling lookahead window, expressed in whole days out from
// today. Both ends are inclusive.
type Horizon struct {
	Start int
	End   int
}

// Day pairs a calendar date with its offset from today at computation time.
type Day struct {
	Date    string
	DaysOut int
}

// Dates returns the calendar dates today+Start .. today+End, where "today"
// is derived from now. Recomputing from the clock every cycle is what makes
// midnight rollover work without any dedicated logic: the mapped dates
// simply shift by one.
func (h Horizon) Dates(now time.Time) []Day {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := make([]Day, 0, h.End-h.Start+1)
	for off := h.Start; off <= h.End; off++ {
		days = append(days, Day{Date: today.AddDate(0, 0, off).Format(dayFormat), DaysOut: off})
	}
	return days
}

// Jittered returns base +/- uniform(jitter), clamped so it never drops
// below floor.
func Jittered(rnd *rand.Rand, base, jitter, floor time.Duration) time.Duration {
	d := base
	if jitter > 0 {
		d += time.Duration(rnd.Int63n(int64(2*jitter)+1)) - jitter
	}
	if d < floor {
		d = floor
	}
	return d
}

// RequestGap is the small randomized pause between per-date fetches within
// one cycle, uniform in [1s, 3s]. A fixed cadence would give the request
// stream an obvious signature.
func RequestGap(rnd *rand.Rand) time.Duration {
	return time.Second + time.Duration(rnd.Int63n(int64(2*time.Second)+1))
}
