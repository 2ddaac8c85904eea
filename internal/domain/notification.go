package domain

import "time"

// Trigger decides when a scheduled notification fires.
type Trigger interface {
	// Next returns the first fire time strictly after the given instant.
	Next(after time.Time) time.Time
	String() string
}

// NotificationRequest is a local notification waiting to be delivered.
type NotificationRequest struct {
	ID      string
	Title   string
	Body    string
	Trigger Trigger
	FireAt  time.Time // filled in by the center when the request is armed
}
