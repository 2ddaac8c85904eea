package domain

import (
	"context"
	"time"
)

// SessionListener receives countdown events. There is no "started"
// event: the controller already knows when it starts a session.
type SessionListener interface {
	SessionTick(remaining time.Duration)
	SessionStopped()
	SessionCompleted()
}

// Presenter is the surface that shows the countdown to the user.
// Implementations can be a terminal UI, a line console, or a recorder
// in tests. All methods are called from the event loop.
type Presenter interface {
	ShowRemaining(text string)
	SetActionLabel(label string)
	SetActionStyle(style ActionStyle)
	PresentDialog(d Dialog)
}

// NotificationCenter schedules local notifications. Add reports the
// outcome through done and never blocks on delivery; adding a request
// whose ID is already pending replaces it.
type NotificationCenter interface {
	Add(ctx context.Context, req NotificationRequest, done func(error))
	RemovePending(ids ...string)
}

// Notifier delivers a fired notification to the user. Implementations
// can print to the terminal, raise a desktop notification, or sound an
// alarm.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}
