// Package storage provides in-memory state holders. Nothing here survives
// a restart.
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/powernap/internal/domain"
	"github.com/hammamikhairi/powernap/internal/logger"
)

// PendingStore holds scheduled notification requests keyed by ID. Safe
// for concurrent access.
type PendingStore struct {
	mu       sync.RWMutex
	requests map[string]domain.NotificationRequest
	log      *logger.Logger
}

// NewPendingStore creates an empty store.
func NewPendingStore(log *logger.Logger) *PendingStore {
	return &PendingStore{
		requests: make(map[string]domain.NotificationRequest),
		log:      log,
	}
}

// Save stores a request. Overwrites if the ID already exists.
func (s *PendingStore) Save(ctx context.Context, req domain.NotificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving pending notification %s (fire=%s)", req.ID, req.FireAt.Format("15:04:05"))
	s.requests[req.ID] = req
	return nil
}

// Load retrieves a request by ID.
func (s *PendingStore) Load(ctx context.Context, id string) (domain.NotificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return domain.NotificationRequest{}, domain.ErrNotFound
	}
	return req, nil
}

// Delete removes a request by ID.
func (s *PendingStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.requests, id)
	s.log.Debug("deleted pending notification %s", id)
	return nil
}

// List returns all pending requests ordered by fire time.
func (s *PendingStore) List(ctx context.Context) ([]domain.NotificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.NotificationRequest, 0, len(s.requests))
	for _, req := range s.requests {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].FireAt.Before(out[j].FireAt)
	})
	return out, nil
}
