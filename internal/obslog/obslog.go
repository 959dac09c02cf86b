// Package obslog records every fetched observation to an append-only sink
// for offline replay. Logging here is best-effort: detection never depends
// on an append having succeeded.
package obslog

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"
)

// Record is one fetched observation, written as a single self-contained
// unit. Records are immutable and ordered only by append sequence.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Date      string    `json:"date"`
	Request   string    `json:"request"`
	Raw       string    `json:"raw_response"`
}

type Sink interface {
	Append(ctx context.Context, rec Record) error
	Close() error
}

// Nop is the sink used when no log destination is configured.
type Nop struct{}

func (Nop) Append(context.Context, Record) error { return nil }
func (Nop) Close() error                         { return nil }

// FileSink appends one JSON line per record. Each line is independently
// parseable and prior bytes are never rewritten, so a crash mid-write can
// at worst truncate the final line.
type FileSink struct {
	mu sync.Mutex
	f  *os.File
}

func OpenFile(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f}, nil
}

func (s *FileSink) Append(_ context.Context, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.f.Write(b)
	return err
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

type multi struct {
	sinks []Sink
}

// Multi fans an append out to every sink. All sinks are attempted even when
// one fails; errors are joined so the caller still sees the failure.
func Multi(sinks ...Sink) Sink {
	switch len(sinks) {
	case 0:
		return Nop{}
	case 1:
		return sinks[0]
	}
	return &multi{sinks: sinks}
}

func (m *multi) Append(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
