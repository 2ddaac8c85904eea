// Package timer implements the nap countdown: a single session that ticks
// once per interval and reports tick, stop and completion events to one
// listener.
package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/powernap/internal/domain"
	"github.com/hammamikhairi/powernap/internal/logger"
)

// Option configures the timer.
type Option func(*Timer)

// WithTickInterval sets how often the countdown ticks.
func WithTickInterval(d time.Duration) Option {
	return func(t *Timer) {
		t.tickInterval = d
	}
}

// Timer is the countdown engine. Start and Stop are expected on the event
// loop that also receives the scheduler's ticks; the mutex only protects
// the state from readers on other goroutines.
type Timer struct {
	scheduler    Scheduler
	log          *logger.Logger
	tickInterval time.Duration

	mu        sync.Mutex
	listener  domain.SessionListener
	running   bool
	remaining time.Duration
	handle    Handle
	gen       uint64
}

// New creates a stopped countdown driven by the given scheduler.
func New(scheduler Scheduler, log *logger.Logger, opts ...Option) *Timer {
	t := &Timer{
		scheduler:    scheduler,
		log:          log,
		tickInterval: time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetListener registers the single receiver of countdown events.
func (t *Timer) SetListener(l domain.SessionListener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listener = l
}

// Start begins counting down from d. A running countdown is left alone
// and ErrAlreadyRunning is returned.
func (t *Timer) Start(d time.Duration) error {
	if d <= 0 {
		return domain.ErrInvalidDuration
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return domain.ErrAlreadyRunning
	}

	t.gen++
	gen := t.gen
	t.running = true
	t.remaining = d
	t.handle = t.scheduler.Every(t.tickInterval, func() { t.tick(gen) })

	t.log.Info("countdown started (%s)", d)
	return nil
}

// Stop halts the countdown early and emits SessionStopped.
func (t *Timer) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return domain.ErrNotRunning
	}
	left := t.remaining
	t.halt()
	l := t.listener
	t.mu.Unlock()

	t.log.Info("countdown stopped with %s left", left)
	if l != nil {
		l.SessionStopped()
	}
	return nil
}

// IsRunning reports whether a session is counting down.
func (t *Timer) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Remaining returns the time left. The boolean is false when no session
// is running.
func (t *Timer) Remaining() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return 0, false
	}
	return t.remaining, true
}

// String formats the remaining time for display.
func (t *Timer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return FormatRemaining(0)
	}
	return FormatRemaining(t.remaining)
}

// tick runs one countdown step for the run identified by gen. Ticks
// queued before a Stop or a restart carry a stale gen and are dropped.
func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if !t.running || gen != t.gen {
		t.mu.Unlock()
		return
	}

	t.remaining -= t.tickInterval
	if t.remaining < 0 {
		t.remaining = 0
	}
	remaining := t.remaining
	done := remaining == 0
	if done {
		t.halt()
	}
	l := t.listener
	t.mu.Unlock()

	if l == nil {
		return
	}
	l.SessionTick(remaining)
	if done {
		t.log.Info("countdown completed")
		l.SessionCompleted()
	}
}

// halt releases the scheduler handle. Caller holds mu.
func (t *Timer) halt() {
	t.running = false
	t.remaining = 0
	t.gen++
	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}
}

// FormatRemaining renders a duration as MM:SS, or H:MM:SS from one hour
// up. Partial seconds round up so a countdown never shows 00:00 early.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
