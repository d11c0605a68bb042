package jobs

import (
	"sync"
	"time"
)

// Store is a concurrency-safe in-memory map of job records. Growth is
// bounded: once the retention cap is exceeded the oldest terminal records
// are evicted. Records for jobs still in flight are never evicted.
type Store struct {
	mu        sync.RWMutex
	records   map[string]Record
	order     []string
	retention int
	now       func() time.Time
}

// StoreOption customizes the store.
type StoreOption func(*Store)

// WithClock overrides the store's time source (used in tests).
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore constructs a status store retaining at most retention records.
// A retention of zero or less disables eviction.
func NewStore(retention int, opts ...StoreOption) *Store {
	store := &Store{
		records:   make(map[string]Record),
		retention: retention,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Set records the current state of a job, stamping the update time.
func (s *Store) Set(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.UpdatedAt = s.now()
	if _, known := s.records[record.JobID]; !known {
		s.order = append(s.order, record.JobID)
	}
	s.records[record.JobID] = record
	s.evictLocked()
}

// Get returns the record for jobID. Unknown ids yield a record with
// StatusUnknown rather than an error, matching the query contract.
func (s *Store) Get(jobID string) Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if record, ok := s.records[jobID]; ok {
		return record
	}
	return Record{JobID: jobID, Status: StatusUnknown}
}

// Len reports the number of retained records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) evictLocked() {
	if s.retention <= 0 {
		return
	}
	for len(s.records) > s.retention {
		evicted := false
		for i, id := range s.order {
			if s.records[id].Status.Terminal() {
				delete(s.records, id)
				s.order = append(s.order[:i], s.order[i+1:]...)
				evicted = true
				break
			}
		}
		if !evicted {
			return
		}
	}
}
