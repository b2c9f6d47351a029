package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/vote-service/internal/domain"
)

// MemoryStore keeps window entries in process. Not shared across replicas.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[domain.ThrottleKey][]time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[domain.ThrottleKey][]time.Time)}
}

// Count drops entries older than from and counts the rest up to to.
func (s *MemoryStore) Count(ctx context.Context, key domain.ThrottleKey, from, to time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	timestamps := s.entries[key]
	i := 0
	for ; i < len(timestamps); i++ {
		if !timestamps[i].Before(from) {
			break
		}
	}
	timestamps = timestamps[i:]
	if len(timestamps) == 0 {
		delete(s.entries, key)
		return 0, nil
	}
	s.entries[key] = timestamps

	count := 0
	for _, ts := range timestamps {
		if !ts.After(to) {
			count++
		}
	}
	return count, nil
}

// Record appends an entry, keeping timestamps ordered.
func (s *MemoryStore) Record(ctx context.Context, key domain.ThrottleKey, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	timestamps := s.entries[key]
	pos := len(timestamps)
	for pos > 0 && timestamps[pos-1].After(at) {
		pos--
	}
	timestamps = append(timestamps, time.Time{})
	copy(timestamps[pos+1:], timestamps[pos:])
	timestamps[pos] = at
	s.entries[key] = timestamps
	return nil
}

// Len reports the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
