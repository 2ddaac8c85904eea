// Package engine implements the nap session controller: it turns user
// actions into countdown and notification changes and keeps the
// presenter in sync with the countdown.
package engine

import (
	"errors"
	"time"

	"github.com/hammamikhairi/powernap/internal/domain"
	"github.com/hammamikhairi/powernap/internal/logger"
)

// DefaultNapDuration is the preset used by the start action unless
// WithNapDuration overrides it.
const DefaultNapDuration = 10 * time.Second

// Countdown is the engine the controller drives. *timer.Timer satisfies it.
type Countdown interface {
	SetListener(l domain.SessionListener)
	Start(d time.Duration) error
	Stop() error
	IsRunning() bool
	Remaining() (time.Duration, bool)
	String() string
}

// Alerts keeps the wake-up notification in step with the countdown.
// *notify.Alerts satisfies it.
type Alerts interface {
	Schedule(remaining time.Duration)
	Cancel()
}

// DefaultDialog is the completion dialog without callbacks.
var DefaultDialog = domain.Dialog{
	Title:        "Wake Up Lazy!",
	Message:      "Get Out of Bed",
	Placeholder:  "How many more minutes would you like to sleep?",
	DismissLabel: "Dismiss",
	SnoozeLabel:  "Snooze",
}

// Option configures the controller.
type Option func(*Controller)

// WithNapDuration sets the duration of a nap started with StartOrCancel.
func WithNapDuration(d time.Duration) Option {
	return func(c *Controller) {
		c.napDuration = d
	}
}

// WithDialog replaces the completion dialog texts. Callbacks in d are
// ignored.
func WithDialog(d domain.Dialog) Option {
	return func(c *Controller) {
		c.dialog = d
	}
}

// Controller owns the countdown and is the only writer to the presenter
// and the notification center. It is not safe for concurrent use: every
// method, including the listener callbacks, must run on the event loop.
type Controller struct {
	timer       Countdown
	alerts      Alerts
	view        domain.Presenter
	log         *logger.Logger
	napDuration time.Duration
	dialog      domain.Dialog
	dialogOpen  bool
}

// Compile-time interface check.
var _ domain.SessionListener = (*Controller)(nil)

// New creates a controller and registers it as the countdown's listener.
func New(timer Countdown, alerts Alerts, view domain.Presenter, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		timer:       timer,
		alerts:      alerts,
		view:        view,
		log:         log,
		napDuration: DefaultNapDuration,
		dialog:      DefaultDialog,
	}
	for _, opt := range opts {
		opt(c)
	}
	timer.SetListener(c)
	return c
}

// NapDuration returns the preset nap length.
func (c *Controller) NapDuration() time.Duration { return c.napDuration }

// StartOrCancel is the single action control: it cancels a running nap
// or starts a new one with the preset duration.
func (c *Controller) StartOrCancel() {
	if c.timer.IsRunning() {
		if err := c.timer.Stop(); err != nil {
			c.log.Warn("stopping countdown: %v", err)
		}
		c.alerts.Cancel()
	} else {
		c.begin(c.napDuration)
	}
	c.Render()
}

// Render pushes the countdown text and the action label to the view.
func (c *Controller) Render() {
	c.view.ShowRemaining(c.timer.String())
	if c.timer.IsRunning() {
		c.view.SetActionLabel(domain.LabelCancel)
	} else {
		c.view.SetActionLabel(domain.LabelStart)
	}
}

// SessionTick refreshes the remaining time only.
func (c *Controller) SessionTick(time.Duration) {
	c.view.ShowRemaining(c.timer.String())
}

// SessionStopped re-renders and puts the action back in its ready look.
func (c *Controller) SessionStopped() {
	c.Render()
	c.view.SetActionStyle(domain.ActionReady)
}

// SessionCompleted re-renders and asks whether to snooze.
func (c *Controller) SessionCompleted() {
	c.Render()
	c.presentCompletionDialog()
}

// Snooze answers the completion dialog. Input that is not a positive
// number of minutes closes the dialog without starting anything.
func (c *Controller) Snooze(input string) {
	if !c.dialogOpen {
		c.log.Debug("snooze %q ignored: no dialog open", input)
		return
	}
	c.dialogOpen = false

	d, err := ParseSnooze(input)
	if err != nil {
		c.log.Debug("snooze %q ignored: %v", input, err)
		return
	}
	c.begin(d)
	c.Render()
}

// Dismiss closes the completion dialog.
func (c *Controller) Dismiss() {
	if !c.dialogOpen {
		return
	}
	c.dialogOpen = false
	c.log.Debug("completion dialog dismissed")
}

// State returns a snapshot for status displays.
func (c *Controller) State() domain.SessionState {
	remaining, running := c.timer.Remaining()
	return domain.SessionState{
		Running:    running,
		Remaining:  remaining,
		Display:    c.timer.String(),
		DialogOpen: c.dialogOpen,
	}
}

// begin starts a countdown of d and schedules the matching notification.
func (c *Controller) begin(d time.Duration) {
	if err := c.timer.Start(d); err != nil {
		if errors.Is(err, domain.ErrAlreadyRunning) {
			c.log.Warn("start ignored: %v", err)
		} else {
			c.log.Error("starting countdown: %v", err)
		}
		return
	}
	if remaining, ok := c.timer.Remaining(); ok {
		c.alerts.Schedule(remaining)
	}
	c.view.SetActionStyle(domain.ActionBusy)
}

func (c *Controller) presentCompletionDialog() {
	d := c.dialog
	d.OnDismiss = c.Dismiss
	d.OnSnooze = c.Snooze
	c.dialogOpen = true
	c.view.PresentDialog(d)
}
