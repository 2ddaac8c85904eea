package timer

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/powernap/internal/logger"
)

// Handle stops a periodic callback registered with a Scheduler.
type Handle interface {
	Stop()
}

// Scheduler runs fn once per interval until the returned handle is
// stopped.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
}

// Dispatcher hands a function to the application's event loop. The
// countdown relies on every tick running on the same loop as user
// actions.
type Dispatcher func(fn func())

// Compile-time interface check.
var _ Scheduler = (*TickerScheduler)(nil)

// TickerScheduler is the production Scheduler. Each handle owns a
// time.Ticker goroutine that forwards ticks to the dispatcher.
type TickerScheduler struct {
	ctx      context.Context
	dispatch Dispatcher
	log      *logger.Logger
}

// NewTickerScheduler creates a scheduler whose loops end when ctx is
// cancelled. A nil dispatch runs callbacks on the ticker goroutine.
func NewTickerScheduler(ctx context.Context, dispatch Dispatcher, log *logger.Logger) *TickerScheduler {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &TickerScheduler{ctx: ctx, dispatch: dispatch, log: log}
}

// Every starts a background ticker loop. Non-blocking.
func (s *TickerScheduler) Every(interval time.Duration, fn func()) Handle {
	childCtx, cancel := context.WithCancel(s.ctx)
	h := &tickerHandle{cancel: cancel}
	go s.loop(childCtx, interval, fn)
	s.log.Debug("ticker started (interval=%s)", interval)
	return h
}

// loop is the tick loop for one handle.
func (s *TickerScheduler) loop(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("ticker stopped")
			return
		case <-ticker.C:
			s.dispatch(fn)
		}
	}
}

type tickerHandle struct {
	once   sync.Once
	cancel context.CancelFunc
}

func (h *tickerHandle) Stop() {
	h.once.Do(h.cancel)
}
