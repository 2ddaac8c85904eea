package notify

import (
	"context"
	"errors"

	"github.com/hammamikhairi/powernap/internal/domain"
)

// Compile-time interface check.
var _ domain.Notifier = Fanout(nil)

// Fanout delivers to every notifier in order. One failing notifier does
// not stop the others; all errors are joined.
type Fanout []domain.Notifier

// Notify calls each notifier.
func (f Fanout) Notify(ctx context.Context, title, body string) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
