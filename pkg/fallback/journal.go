package fallback

import (
	"context"
	"log/slog"
)

// DefaultMaxRecords is the journal cap; the oldest records go first.
const DefaultMaxRecords = 100

// Journal is a bounded append-only collection of records.
// Append must be safe for concurrent use. List returns records oldest first.
type Journal interface {
	Append(ctx context.Context, rec Record) error
	List(ctx context.Context) ([]Record, error)
}

// Option configures a journal.
type Option func(*options)

type options struct {
	maxRecords int
	logger     *slog.Logger
}

// WithMaxRecords sets the journal cap. Non-positive values are ignored.
func WithMaxRecords(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRecords = n
		}
	}
}

// WithLogger sets the logger used for recoverable read problems.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{maxRecords: DefaultMaxRecords, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// trim keeps the last max records.
func trim(records []Record, max int) []Record {
	if len(records) <= max {
		return records
	}
	return records[len(records)-max:]
}
