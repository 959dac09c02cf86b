package watch

import (
	"fmt"
	"sort"

	"github.com/example/resy-watch/internal/resy"
)

// SlotID identifies one bookable slot within a date.
type SlotID struct {
	Time string // wall-clock HH:MM
	Hash string // opaque stable identifier from the source
}

// DateSnapshot is the normalized set of bookable slots observed for one
// calendar date at one point in time. Slots are ordered by time. A fresh
// value is built on every poll and never mutated afterwards.
type DateSnapshot struct {
	Date    string // YYYY-MM-DD
	DaysOut int    // offset from "today" at capture time
	Slots   []SlotID
}

func (s DateSnapshot) SlotCount() int { return len(s.Slots) }

// Times returns the slot times in snapshot order (ascending).
func (s DateSnapshot) Times() []string {
	out := make([]string, len(s.Slots))
	for i, sl := range s.Slots {
		out[i] = sl.Time
	}
	return out
}

// Normalize filters one day's raw slot records down to bookable entries and
// maps each to a SlotID. Unavailable entries and entries of other kinds
// (waitlist, notify) are dropped silently. Duplicate hashes collapse to one
// entry, so the result is a set. Input order does not matter.
func Normalize(date string, daysOut int, raw []resy.Slot) DateSnapshot {
	snap := DateSnapshot{Date: date, DaysOut: daysOut}
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		if !r.Available || r.Kind != resy.KindBookable {
			continue
		}
		if r.Token == "" || seen[r.Token] {
			continue
		}
		seen[r.Token] = true
		snap.Slots = append(snap.Slots, SlotID{Time: minutesToClock(r.StartMinutes), Hash: r.Token})
	}
	sort.Slice(snap.Slots, func(i, j int) bool {
		if snap.Slots[i].Time != snap.Slots[j].Time {
			return snap.Slots[i].Time < snap.Slots[j].Time
		}
		return snap.Slots[i].Hash < snap.Slots[j].Hash
	})
	return snap
}

func minutesToClock(m int) string {
	m %= 24 * 60
	if m < 0 {
		m += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
