package console

import (
	"context"
	"fmt"

	"github.com/hammamikhairi/powernap/internal/domain"
	"github.com/hammamikhairi/powernap/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*TextNotifier)(nil)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.UI.Printf.
type PrintFunc func(format string, a ...interface{})

// TextNotifier writes fired notifications to the terminal.
type TextNotifier struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewTextNotifier creates a terminal notifier.
// If printFn is nil, fmt.Printf is used.
func NewTextNotifier(log *logger.Logger, printFn PrintFunc) *TextNotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &TextNotifier{log: log, printFn: printFn}
}

// Notify prints the title in bold red and the body underneath.
func (n *TextNotifier) Notify(ctx context.Context, title, body string) error {
	n.log.Debug("notify: %s", title)
	n.printFn("%s", alertStyle.Render("⏰ "+title))
	if body != "" {
		n.printFn("%s", hintStyle.Render("   "+body))
	}
	return nil
}
