package store

import (
	"context"
	"sort"
	"sync"

	"github.com/thanawat/thailotto-api/interfaces"
	"github.com/thanawat/thailotto-api/lotteryparser/entities"
)

// Compile-time check to ensure MemoryStore implements DrawStore
var _ interfaces.DrawStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory DrawStore used by tests and database-less
// runs. Rows are keyed by ISO draw date, like the lottery_results table.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]entities.DrawRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[string]entities.DrawRecord),
	}
}

// GetByDate returns the record for an ISO date, or nil.
func (s *MemoryStore) GetByDate(_ context.Context, isoDate string) (*entities.DrawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.rows[isoDate]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// GetLatest returns the record flagged as latest, or nil.
func (s *MemoryStore) GetLatest(_ context.Context) (*entities.DrawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.rows {
		if rec.IsLatest {
			r := rec
			return &r, nil
		}
	}
	return nil, nil
}

// ListPrevious returns up to limit non-latest records, newest first.
func (s *MemoryStore) ListPrevious(_ context.Context, limit int) ([]entities.DrawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []entities.DrawRecord
	for _, rec := range s.rows {
		if !rec.IsLatest {
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].DrawDate > records[j].DrawDate
	})

	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Upsert inserts or replaces the record with the same draw date.
func (s *MemoryStore) Upsert(_ context.Context, rec *entities.DrawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows[rec.DrawDate] = *rec
	return nil
}

// ClearLatestFlag unsets the latest flag on every record holding it.
func (s *MemoryStore) ClearLatestFlag(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for date, rec := range s.rows {
		if rec.IsLatest {
			rec.IsLatest = false
			s.rows[date] = rec
		}
	}
	return nil
}

// Len reports the number of cached rows.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
