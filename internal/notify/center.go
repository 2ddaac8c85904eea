// Package notify schedules the wake-up notification and delivers it when
// it fires.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/powernap/internal/domain"
	"github.com/hammamikhairi/powernap/internal/logger"
	"github.com/hammamikhairi/powernap/internal/storage"
)

// Compile-time interface check.
var _ domain.NotificationCenter = (*LocalCenter)(nil)

// CenterOption configures the local center.
type CenterOption func(*LocalCenter)

// WithAfterFunc replaces time.AfterFunc, mainly for tests.
func WithAfterFunc(f AfterFunc) CenterOption {
	return func(c *LocalCenter) {
		c.afterFunc = f
	}
}

// WithNow replaces the clock used to resolve triggers.
func WithNow(now func() time.Time) CenterOption {
	return func(c *LocalCenter) {
		c.now = now
	}
}

// LocalCenter is an in-process notification center. Pending requests
// live in a PendingStore; each one is armed with its own timer and
// delivered through the notifier when it fires.
type LocalCenter struct {
	store     *storage.PendingStore
	notifier  domain.Notifier
	log       *logger.Logger
	afterFunc AfterFunc
	now       func() time.Time

	mu    sync.Mutex
	armed map[string]armedRequest
	seq   uint64
}

type armedRequest struct {
	seq    uint64
	handle TimerHandle
}

// NewLocalCenter creates a center that delivers through notifier.
func NewLocalCenter(store *storage.PendingStore, notifier domain.Notifier, log *logger.Logger, opts ...CenterOption) *LocalCenter {
	c := &LocalCenter{
		store:     store,
		notifier:  notifier,
		log:       log,
		afterFunc: DefaultAfterFunc,
		now:       time.Now,
		armed:     make(map[string]armedRequest),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add arms req, replacing any pending request with the same ID. done is
// called before Add returns; a nil done is allowed.
func (c *LocalCenter) Add(ctx context.Context, req domain.NotificationRequest, done func(error)) {
	if done == nil {
		done = func(error) {}
	}
	if req.ID == "" || req.Trigger == nil {
		done(fmt.Errorf("%w: id=%q trigger=%v", domain.ErrInvalidRequest, req.ID, req.Trigger))
		return
	}

	now := c.now()
	req.FireAt = req.Trigger.Next(now)

	c.mu.Lock()
	c.disarm(req.ID)
	c.seq++
	seq := c.seq
	if err := c.store.Save(ctx, req); err != nil {
		c.mu.Unlock()
		done(fmt.Errorf("saving request %s: %w", req.ID, err))
		return
	}
	handle := c.afterFunc(req.FireAt.Sub(now), func() { c.fire(req.ID, seq) })
	c.armed[req.ID] = armedRequest{seq: seq, handle: handle}
	c.mu.Unlock()

	c.log.Info("scheduled %s at %s (%s)", req.ID, req.FireAt.Format("15:04:05"), req.Trigger)
	done(nil)
}

// RemovePending disarms and forgets the given requests. Unknown IDs are
// ignored.
func (c *LocalCenter) RemovePending(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		if c.disarm(id) {
			c.log.Info("removed pending %s", id)
		}
	}
}

// Pending returns the requests that have not fired yet.
func (c *LocalCenter) Pending() []domain.NotificationRequest {
	reqs, err := c.store.List(context.Background())
	if err != nil {
		c.log.Error("listing pending notifications: %v", err)
		return nil
	}
	return reqs
}

// Close disarms every pending request.
func (c *LocalCenter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.armed {
		c.disarm(id)
	}
}

// disarm stops the timer and deletes the stored request. Caller holds mu.
func (c *LocalCenter) disarm(id string) bool {
	a, ok := c.armed[id]
	if !ok {
		return false
	}
	a.handle.Stop()
	delete(c.armed, id)
	if err := c.store.Delete(context.Background(), id); err != nil {
		c.log.Debug("disarm %s: %v", id, err)
	}
	return true
}

// fire delivers the request if it is still the one armed under id.
func (c *LocalCenter) fire(id string, seq uint64) {
	ctx := context.Background()

	c.mu.Lock()
	a, ok := c.armed[id]
	if !ok || a.seq != seq {
		c.mu.Unlock()
		c.log.Debug("dropping superseded fire for %s", id)
		return
	}
	req, err := c.store.Load(ctx, id)
	delete(c.armed, id)
	if err == nil {
		err = c.store.Delete(ctx, id)
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Error("loading fired request %s: %v", id, err)
		return
	}

	c.log.Info("delivering %s", id)
	if err := c.notifier.Notify(ctx, req.Title, req.Body); err != nil {
		c.log.Error("delivering %s: %v", id, err)
	}
}
