package watch

import "sort"

// Classification of one date's transition between consecutive cycles.
type Classification int

const (
	// Baseline: no prior snapshot and this is the run's first cycle.
	Baseline Classification = iota
	// NewDate: the date rolled into the window after the first cycle, so
	// there is no observed predecessor. Never a Release, even with slots
	// already present: the opening edge was not seen.
	NewDate
	// Release: the date went from zero bookable slots to one or more.
	Release
	// Delta: the slot set changed on an already-open date.
	Delta
	// Unchanged: identical hash set, nothing to report.
	Unchanged
)

func (c Classification) String() string {
	switch c {
	case Baseline:
		return "baseline"
	case NewDate:
		return "new-date"
	case Release:
		return "release"
	case Delta:
		return "delta"
	case Unchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Change is the detector's verdict for one date. Added and Removed are only
// populated for Delta; both may be empty when a slot swapped identity at
// the same time, which still counts as a Delta.
type Change struct {
	Class   Classification
	Added   []string
	Removed []string
}

// Classify compares the previous snapshot for a date (prev is nil when the
// date has no entry in the store) against the freshly observed one.
// firstCycle reports whether the run has completed zero cycles so far.
// Unchanged requires the hash sets to match, not just the counts: a slot
// replaced by a different identity at the same time must surface.
func Classify(prev *DateSnapshot, next DateSnapshot, firstCycle bool) Change {
	switch {
	case prev == nil && firstCycle:
		return Change{Class: Baseline}
	case prev == nil:
		return Change{Class: NewDate}
	case prev.SlotCount() == 0 && next.SlotCount() > 0:
		return Change{Class: Release}
	}
	if hashSetEqual(prev.Slots, next.Slots) {
		return Change{Class: Unchanged}
	}
	added, removed := timeDiff(prev.Slots, next.Slots)
	return Change{Class: Delta, Added: added, Removed: removed}
}

func hashSetEqual(a, b []SlotID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s.Hash] = true
	}
	for _, s := range b {
		if !set[s.Hash] {
			return false
		}
	}
	return true
}

// timeDiff computes the symmetric difference of slot times: added holds
// times present in next but not prev, removed the reverse. Both come back
// sorted.
func timeDiff(prev, next []SlotID) (added, removed []string) {
	before := make(map[string]bool, len(prev))
	for _, s := range prev {
		before[s.Time] = true
	}
	after := make(map[string]bool, len(next))
	for _, s := range next {
		after[s.Time] = true
	}
	for t := range after {
		if !before[t] {
			added = append(added, t)
		}
	}
	for t := range before {
		if !after[t] {
			removed = append(removed, t)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}
