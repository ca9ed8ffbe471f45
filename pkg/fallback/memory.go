package fallback

import (
	"context"
	"errors"
	"sync"
)

// MemoryJournal keeps records in process memory. Used in tests and when no
// durable backend is configured.
type MemoryJournal struct {
	mu      sync.Mutex
	records []Record
	max     int
}

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal(opts ...Option) *MemoryJournal {
	o := newOptions(opts)
	return &MemoryJournal{max: o.maxRecords}
}

func (m *MemoryJournal) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	if len(m.records) > m.max {
		// Copy so the evicted prefix can be collected.
		m.records = append([]Record(nil), trim(m.records, m.max)...)
	}
	return nil
}

func (m *MemoryJournal) List(context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record(nil), m.records...), nil
}

// Len returns the number of stored records.
func (m *MemoryJournal) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
