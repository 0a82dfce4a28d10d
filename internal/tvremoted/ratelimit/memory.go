package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps fixed-window counters in process memory
type MemoryStore struct {
	mu      sync.Mutex
	windows map[LimitKey]*window
	now     func() time.Time
}

type window struct {
	count int
	reset time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[LimitKey]*window),
		now:     time.Now,
	}
}

// Increment counts one operation in the current window
func (s *MemoryStore) Increment(_ context.Context, key LimitKey, limit Limit) (*LimitStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	w, ok := s.windows[key]
	if !ok {
		w = &window{reset: now.Add(limit.Period)}
		s.windows[key] = w
	}
	w.count++

	status := &LimitStatus{
		Limit:     limit,
		Count:     w.count,
		Remaining: limit.Max() - w.count,
		Reset:     w.reset,
	}
	if status.Remaining < 0 {
		status.Remaining = 0
	}
	if w.count > limit.Max() {
		return status, ErrLimitExceeded
	}
	return status, nil
}

// Reset clears a rate limit counter
func (s *MemoryStore) Reset(_ context.Context, key LimitKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	return nil
}

// sweep drops expired windows
func (s *MemoryStore) sweep(now time.Time) {
	for k, w := range s.windows {
		if !now.Before(w.reset) {
			delete(s.windows, k)
		}
	}
}
