// Package notification queues toast messages between a mutation and the next rendered page
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/homemadefood/backoffice/internal/ports/outbound"
)

type queue struct {
	toasts    []outbound.Toast
	expiresAt time.Time
}

// MemoryStore keeps toasts in process memory
type MemoryStore struct {
	mu     sync.Mutex
	queues map[string]*queue
	ttl    time.Duration
	now    func() time.Time
}

var _ outbound.ToastStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty toast store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		queues: make(map[string]*queue),
		ttl:    outbound.ToastTTL,
		now:    time.Now,
	}
}

// Push appends toast to the session's queue and refreshes its expiry
func (s *MemoryStore) Push(_ context.Context, sessionID string, toast outbound.Toast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictExpired(now)

	q, ok := s.queues[sessionID]
	if !ok {
		q = &queue{}
		s.queues[sessionID] = q
	}
	q.toasts = append(q.toasts, toast)
	q.expiresAt = now.Add(s.ttl)
	return nil
}

// Pop drains the session's queue
func (s *MemoryStore) Pop(_ context.Context, sessionID string) ([]outbound.Toast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[sessionID]
	if !ok {
		return nil, nil
	}
	delete(s.queues, sessionID)

	if !q.expiresAt.After(s.now()) {
		return nil, nil
	}
	return q.toasts, nil
}

func (s *MemoryStore) evictExpired(now time.Time) {
	for id, q := range s.queues {
		if !q.expiresAt.After(now) {
			delete(s.queues, id)
		}
	}
}
