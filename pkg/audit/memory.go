package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory audit backend for tests and ephemeral
// deployments. Records are lost on process exit.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*DecisionRecord
	byID    map[string]*DecisionRecord
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID: make(map[string]*DecisionRecord),
	}
}

// Store persists a record.
func (m *MemoryStorage) Store(ctx context.Context, record *DecisionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	m.byID[record.ID] = record
	return nil
}

// Get returns the record with the given ID.
func (m *MemoryStorage) Get(ctx context.Context, id string) (*DecisionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return record, nil
}

// Query returns matching records, newest first.
func (m *MemoryStorage) Query(ctx context.Context, filter Filter) ([]*DecisionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	var out []*DecisionRecord
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		r := m.records[i]
		if matches(r, filter) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Count returns the number of stored records.
func (m *MemoryStorage) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.records)), nil
}

// DeleteBefore removes records evaluated before the cutoff.
func (m *MemoryStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	var deleted int64
	for _, r := range m.records {
		if r.EvaluatedAt.Before(cutoff) {
			delete(m.byID, r.ID)
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

// TrimToCount removes the oldest records until at most max remain.
func (m *MemoryStorage) TrimToCount(ctx context.Context, max int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if max < 0 || int64(len(m.records)) <= max {
		return 0, nil
	}

	drop := int64(len(m.records)) - max
	for _, r := range m.records[:drop] {
		delete(m.byID, r.ID)
	}
	m.records = append([]*DecisionRecord(nil), m.records[drop:]...)
	return drop, nil
}

// Close is a no-op for the in-memory backend.
func (m *MemoryStorage) Close() error {
	return nil
}

func matches(r *DecisionRecord, f Filter) bool {
	if f.Rule != "" && r.Rule != f.Rule {
		return false
	}
	if f.Outcome != "" && r.Outcome() != f.Outcome {
		return false
	}
	if !f.Since.IsZero() && r.EvaluatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !r.EvaluatedAt.Before(f.Until) {
		return false
	}
	return true
}
