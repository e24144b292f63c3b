package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultIdleTTL = 2 * time.Hour

type session struct {
	store   *Store
	touched time.Time
}

// Sessions owns the carts of all active browsing sessions, keyed by
// session id. Nothing is persisted. A cart untouched for longer than the
// idle TTL is removed by Sweep.
type Sessions struct {
	mu      sync.Mutex
	carts   map[string]*session
	idleTTL time.Duration
	now     func() time.Time
}

func NewSessions() *Sessions {
	return NewSessionsWithTTL(DefaultIdleTTL, time.Now)
}

func NewSessionsWithTTL(idleTTL time.Duration, now func() time.Time) *Sessions {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Sessions{
		carts:   make(map[string]*session),
		idleTTL: idleTTL,
		now:     now,
	}
}

// Get returns the session's cart without creating one.
func (s *Sessions) Get(id string) (*Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.carts[id]
	if !ok {
		return nil, false
	}
	sess.touched = s.now()
	return sess.store, true
}

func (s *Sessions) GetOrCreate(id string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.carts[id]
	if !ok {
		sess = &session{store: NewStore()}
		s.carts[id] = sess
	}
	sess.touched = s.now()
	return sess.store
}

func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
}

// DropIfEmpty removes the session only when its cart holds no lines.
func (s *Sessions) DropIfEmpty(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.carts[id]
	if !ok || !sess.store.IsEmpty() {
		return false
	}
	delete(s.carts, id)
	return true
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

// Sweep removes every session idle for longer than the TTL and returns how
// many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	removed := 0
	for id, sess := range s.carts {
		if sess.touched.Before(cutoff) {
			delete(s.carts, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done. A
// non-positive interval disables sweeping.
func (s *Sessions) Run(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				logger.Debug("idle carts removed", zap.Int("removed", removed), zap.Int("active", s.Len()))
			}
		}
	}
}
