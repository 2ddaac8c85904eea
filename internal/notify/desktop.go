package notify

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/hammamikhairi/powernap/internal/domain"
	"github.com/hammamikhairi/powernap/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*Desktop)(nil)

// Desktop raises a notification through the operating system's
// notification daemon.
type Desktop struct {
	log  *logger.Logger
	send func(title, body string) error
}

// NewDesktop creates a desktop notifier.
func NewDesktop(log *logger.Logger) *Desktop {
	return &Desktop{
		log: log,
		send: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}
}

// Notify shows the notification on the desktop.
func (d *Desktop) Notify(ctx context.Context, title, body string) error {
	d.log.Debug("desktop notify: %s", title)
	if err := d.send(title, body); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}
