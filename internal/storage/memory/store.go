// Package memory is a process-local storage.Store used when no database is
// configured.
package memory

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samijaber1/aegis-reliability/internal/calculator"
	"github.com/samijaber1/aegis-reliability/internal/storage"
)

// Store is a thread-safe in-memory store. Snapshots are kept as JSON so a
// loaded snapshot never aliases the caller's slices.
type Store struct {
	mu           sync.RWMutex
	snapshots    map[string][]byte
	calculations []storage.CalculationRecord
	nextID       int64
	now          func() time.Time
}

var _ storage.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		snapshots: make(map[string][]byte),
		now:       time.Now,
	}
}

// SaveSnapshot stores the snapshot under key
func (s *Store) SaveSnapshot(key string, snap *calculator.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[key] = payload
	return nil
}

// LoadSnapshot returns the snapshot stored under key, or nil if none
func (s *Store) LoadSnapshot(key string) (*calculator.Snapshot, error) {
	s.mu.RLock()
	payload, exists := s.snapshots[key]
	s.mu.RUnlock()

	if !exists {
		return nil, nil
	}

	var snap calculator.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// RecordCalculation appends a record and sets its ID
func (s *Store) RecordCalculation(rec *storage.CalculationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	rec.ID = s.nextID
	rec.CreatedAt = s.now()

	stored := *rec
	if rec.Value != nil {
		v := *rec.Value
		stored.Value = &v
	}
	s.calculations = append(s.calculations, stored)
	return nil
}

// QueryCalculations retrieves matching records, newest first
func (s *Store) QueryCalculations(filter storage.CalculationFilter) ([]storage.CalculationRecord, error) {
	s.mu.RLock()
	var matched []storage.CalculationRecord
	for _, rec := range s.calculations {
		if filter.Calculator != "" && rec.Calculator != filter.Calculator {
			continue
		}
		if filter.Method != "" && rec.Method != filter.Method {
			continue
		}
		if filter.StartTime != nil && rec.Timestamp.Before(*filter.StartTime) {
			continue
		}
		if filter.EndTime != nil && rec.Timestamp.After(*filter.EndTime) {
			continue
		}
		matched = append(matched, rec)
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].ID > matched[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = storage.DefaultQueryLimit
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	return matched, nil
}

// Size returns the number of recorded calculations
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.calculations)
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}
