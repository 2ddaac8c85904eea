// Package loop provides a serial event loop. Every function posted to a
// Loop runs on the goroutine that called Run, one at a time, so the code
// it calls needs no locking of its own.
package loop

import (
	"context"
	"sync"

	"github.com/hammamikhairi/powernap/internal/logger"
)

// Option configures the loop.
type Option func(*Loop)

// WithBuffer sets how many posted functions may wait before Post blocks.
func WithBuffer(n int) Option {
	return func(l *Loop) {
		l.buffer = n
	}
}

// Loop runs posted functions serially.
type Loop struct {
	log    *logger.Logger
	buffer int
	queue  chan func()
	done   chan struct{}
	once   sync.Once
}

// New creates a loop. Call Run to start processing.
func New(log *logger.Logger, opts ...Option) *Loop {
	l := &Loop{log: log, buffer: 64}
	for _, opt := range opts {
		opt(l)
	}
	l.queue = make(chan func(), l.buffer)
	l.done = make(chan struct{})
	return l
}

// Post queues fn. After Run has returned, fn is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		l.log.Warn("event loop stopped, dropping posted function")
	case l.queue <- fn:
	}
}

// Run executes posted functions until ctx is cancelled. Blocks.
func (l *Loop) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.done) })

	l.log.Debug("event loop started")
	for {
		select {
		case <-ctx.Done():
			l.log.Debug("event loop stopped")
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }
