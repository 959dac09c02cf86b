// Package watch implements the horizon-polling and change-detection engine:
// it walks a rolling window of future dates every cycle, normalizes each
// day's availability into a snapshot, and diffs it against the previous
// cycle to catch a date opening up.
package watch

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/example/resy-watch/internal/obslog"
	"github.com/example/resy-watch/internal/resy"
)

// Source fetches the raw availability payload for one calendar date. It is
// treated as unreliable: errors and malformed payloads degrade to a
// zero-slot observation, never into a crash of the loop.
type Source interface {
	FetchDay(ctx context.Context, day string, partySize int) (resy.DayAvailability, error)
}

// ReleaseEvent is the primary output: a date transitioned from zero
// bookable slots to one or more.
type ReleaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
	DaysOut   int       `json:"days_out"`
	SlotCount int       `json:"slot_count"`
	SlotTimes []string  `json:"slot_times"`
}

// Watcher drives the poll loop. One cycle fetches every date in the window
// sequentially, logs each observation, diffs against the previous cycle's
// snapshots, then replaces them wholesale. Cycles never overlap.
type Watcher struct {
	Source    Source
	Log       obslog.Sink
	Horizon   Horizon
	PartySize int

	BaseInterval time.Duration // inter-cycle delay before jitter
	Jitter       time.Duration
	MinInterval  time.Duration // floor the jittered delay never drops below
	MaxPolls     int           // 0 means poll until stopped

	// OnRelease receives each ReleaseEvent. Optional.
	OnRelease func(ReleaseEvent)

	Logger *slog.Logger

	Now  func() time.Time
	Rand *rand.Rand
	gap  func() time.Duration

	runID  string
	prev   map[string]DateSnapshot
	cycles int
}

// Run polls until ctx is canceled or the poll budget is exhausted. Both are
// normal termination and return nil. The store is only ever replaced after
// a cycle's comparisons have fully completed, so a stop observed at any
// suspension point leaves no partial state behind.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Logger == nil {
		w.Logger = slog.Default()
	}
	if w.Now == nil {
		w.Now = time.Now
	}
	if w.Rand == nil {
		w.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if w.Log == nil {
		w.Log = obslog.Nop{}
	}
	if w.gap == nil {
		w.gap = func() time.Duration { return RequestGap(w.Rand) }
	}
	w.runID = uuid.NewString()
	w.prev = nil
	w.cycles = 0

	w.Logger.Info("watch starting",
		"run_id", w.runID,
		"lookahead_start", w.Horizon.Start,
		"lookahead_end", w.Horizon.End,
		"party_size", w.PartySize)

	for {
		if ctx.Err() != nil {
			w.Logger.Info("stop signal received", "cycles", w.cycles)
			return nil
		}
		if !w.cycle(ctx) {
			w.Logger.Info("stop signal received mid-cycle", "cycles", w.cycles)
			return nil
		}
		w.cycles++
		if w.MaxPolls > 0 && w.cycles >= w.MaxPolls {
			w.Logger.Info("poll budget exhausted", "cycles", w.cycles)
			return nil
		}
		delay := Jittered(w.Rand, w.BaseInterval, w.Jitter, w.MinInterval)
		w.Logger.Info("cycle complete", "cycle", w.cycles, "next_poll_in", delay)
		if !sleep(ctx, delay) {
			w.Logger.Info("stop signal received", "cycles", w.cycles)
			return nil
		}
	}
}

// cycle runs one fetch-compare-replace pass. It returns false when a stop
// signal interrupted the fetch phase; in that case the snapshot store is
// left untouched so the abandoned cycle is invisible.
func (w *Watcher) cycle(ctx context.Context) bool {
	days := w.Horizon.Dates(w.Now())
	firstCycle := w.cycles == 0
	next := make(map[string]DateSnapshot, len(days))

	for i, d := range days {
		if ctx.Err() != nil {
			return false
		}
		da, err := w.Source.FetchDay(ctx, d.Date, w.PartySize)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			w.Logger.Warn("fetch failed, treating day as zero slots", "date", d.Date, "err", err)
		}
		rec := obslog.Record{
			Timestamp: w.Now(),
			RunID:     w.runID,
			Date:      d.Date,
			Request:   da.Request,
			Raw:       da.Raw,
		}
		if lerr := w.Log.Append(ctx, rec); lerr != nil {
			w.Logger.Warn("observation log append failed", "date", d.Date, "err", lerr)
		}
		next[d.Date] = Normalize(d.Date, d.DaysOut, da.Slots)
		if i < len(days)-1 && !sleep(ctx, w.gap()) {
			return false
		}
	}

	for _, d := range days {
		snap := next[d.Date]
		var prev *DateSnapshot
		if p, ok := w.prev[d.Date]; ok {
			prev = &p
		}
		w.report(d, snap, Classify(prev, snap, firstCycle))
	}
	w.prev = next
	return true
}

func (w *Watcher) report(d Day, snap DateSnapshot, ch Change) {
	switch ch.Class {
	case Baseline:
		w.Logger.Info("baseline", "date", d.Date, "days_out", d.DaysOut, "slots", snap.SlotCount())
	case NewDate:
		if snap.SlotCount() > 0 {
			w.Logger.Info("date entered window with availability",
				"date", d.Date, "days_out", d.DaysOut, "slots", snap.SlotCount(), "times", snap.Times())
		} else {
			w.Logger.Info("date entered window, no availability yet", "date", d.Date, "days_out", d.DaysOut)
		}
	case Release:
		ev := ReleaseEvent{
			Timestamp: w.Now(),
			Date:      d.Date,
			DaysOut:   d.DaysOut,
			SlotCount: snap.SlotCount(),
			SlotTimes: snap.Times(),
		}
		w.Logger.Info("release detected",
			"date", ev.Date, "days_out", ev.DaysOut, "slots", ev.SlotCount, "times", ev.SlotTimes)
		if w.OnRelease != nil {
			w.OnRelease(ev)
		}
	case Delta:
		w.Logger.Info("availability changed",
			"date", d.Date, "days_out", d.DaysOut, "slots", snap.SlotCount(),
			"added", ch.Added, "removed", ch.Removed)
	case Unchanged:
		// nothing to report
	}
}

// sleep waits for d or until ctx is canceled, reporting whether the full
// wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
