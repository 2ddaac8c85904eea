// Package timertest provides a hand-driven Scheduler for tests.
package timertest

import (
	"sync"
	"time"

	"github.com/hammamikhairi/powernap/internal/timer"
)

// Compile-time interface check.
var _ timer.Scheduler = (*ManualScheduler)(nil)

// ManualScheduler never ticks on its own. Tests call Fire to deliver
// ticks to every live handle.
type ManualScheduler struct {
	mu      sync.Mutex
	handles []*manualHandle
	started int
}

// Every registers fn. It runs only when Fire is called.
func (m *ManualScheduler) Every(interval time.Duration, fn func()) timer.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := &manualHandle{interval: interval, fn: fn}
	m.handles = append(m.handles, h)
	m.started++
	return h
}

// Fire delivers n ticks to every handle that has not been stopped.
// Handles stopped by a tick stop receiving the remaining ones.
func (m *ManualScheduler) Fire(n int) {
	for i := 0; i < n; i++ {
		for _, h := range m.live() {
			if !h.stopped() {
				h.fn()
			}
		}
	}
}

// Active returns how many handles are still live.
func (m *ManualScheduler) Active() int {
	return len(m.live())
}

// Started returns how many handles were ever registered.
func (m *ManualScheduler) Started() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

func (m *ManualScheduler) live() []*manualHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*manualHandle
	for _, h := range m.handles {
		if !h.stopped() {
			out = append(out, h)
		}
	}
	m.handles = out
	return append([]*manualHandle(nil), out...)
}

type manualHandle struct {
	interval time.Duration
	fn       func()

	mu   sync.Mutex
	done bool
}

func (h *manualHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done = true
}

func (h *manualHandle) stopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}
