// Package domain defines the core types and interfaces for the nap timer.
// All other packages depend on domain; domain depends on nothing.
package domain

import "time"

// TimerNotificationID is the fixed identifier of the single pending
// wake-up notification.
const TimerNotificationID = "timerNotification"

// SessionState is a point-in-time view of the countdown as the
// controller sees it.
type SessionState struct {
	Running    bool
	Remaining  time.Duration // zero when not running
	Display    string
	DialogOpen bool
}

// ActionStyle is the visual affordance of the start/cancel control.
type ActionStyle int

const (
	// ActionReady means the control invites starting a nap.
	ActionReady ActionStyle = iota
	// ActionBusy means a nap is in progress.
	ActionBusy
)

// String returns a human-readable action style.
func (s ActionStyle) String() string {
	switch s {
	case ActionReady:
		return "ready"
	case ActionBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Action labels shown on the start/cancel control.
const (
	LabelStart  = "Start nap"
	LabelCancel = "Cancel"
)

// Dialog describes the modal shown when a nap completes. The presenter
// collects one line of text and invokes exactly one of the callbacks on
// the event loop.
type Dialog struct {
	Title        string
	Message      string
	Placeholder  string
	DismissLabel string
	SnoozeLabel  string
	OnDismiss    func()
	OnSnooze     func(input string)
}
