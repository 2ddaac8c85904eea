package notify

import (
	"context"
	"time"

	"github.com/hammamikhairi/powernap/internal/domain"
	"github.com/hammamikhairi/powernap/internal/logger"
)

// Default notification texts.
const (
	DefaultTitle = "Time to Wake Up!"
	DefaultBody  = "Don't sleep too late or you'll miss stuff"
)

// AlertsOption configures Alerts.
type AlertsOption func(*Alerts)

// WithContent sets the notification title and body.
func WithContent(title, body string) AlertsOption {
	return func(a *Alerts) {
		a.title = title
		a.body = body
	}
}

// WithTriggerMode selects calendar or interval triggers.
func WithTriggerMode(m TriggerMode) AlertsOption {
	return func(a *Alerts) {
		a.mode = m
	}
}

// WithClock replaces the clock used to compute fire times.
func WithClock(now func() time.Time) AlertsOption {
	return func(a *Alerts) {
		a.now = now
	}
}

// Alerts keeps the single wake-up notification in a NotificationCenter.
type Alerts struct {
	center domain.NotificationCenter
	log    *logger.Logger
	title  string
	body   string
	mode   TriggerMode
	now    func() time.Time
}

// NewAlerts creates the adapter over center.
func NewAlerts(center domain.NotificationCenter, log *logger.Logger, opts ...AlertsOption) *Alerts {
	a := &Alerts{
		center: center,
		log:    log,
		title:  DefaultTitle,
		body:   DefaultBody,
		mode:   TriggerCalendar,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Schedule asks the center to fire the wake-up notification remaining
// from now. It does not wait for the outcome; failures are only logged.
func (a *Alerts) Schedule(remaining time.Duration) {
	var trigger domain.Trigger
	switch a.mode {
	case TriggerInterval:
		trigger = IntervalTrigger{Delay: remaining}
	default:
		trigger = CalendarTriggerFor(a.now().Add(remaining))
	}

	req := domain.NotificationRequest{
		ID:      domain.TimerNotificationID,
		Title:   a.title,
		Body:    a.body,
		Trigger: trigger,
	}
	a.center.Add(context.Background(), req, func(err error) {
		if err != nil {
			a.log.Error("unable to add notification request: %v", err)
		}
	})
}

// Cancel removes the pending wake-up notification, if any.
func (a *Alerts) Cancel() {
	a.center.RemovePending(domain.TimerNotificationID)
}
