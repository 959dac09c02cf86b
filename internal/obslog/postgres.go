package obslog

import (
	"context"

	"github.com/example/resy-watch/internal/db"
)

// PGSink appends observations to the observations table. INSERT-only by
// construction; nothing in this repo updates or deletes rows.
type PGSink struct {
	db *db.DB
}

func NewPG(d *db.DB) *PGSink { return &PGSink{db: d} }

func (s *PGSink) Append(ctx context.Context, rec Record) error {
	return s.db.Exec(ctx, `
INSERT INTO observations(captured_at, run_id, day, request, raw_response)
VALUES ($1,$2,$3,$4,$5)`,
		rec.Timestamp, rec.RunID, rec.Date, rec.Request, rec.Raw)
}

// Close is a no-op; the pool is owned by the caller.
func (s *PGSink) Close() error { return nil }
