// Package console is the plain line-mode front end: a Presenter that
// prints countdown changes and a reader that turns typed commands into
// controller calls.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hammamikhairi/powernap/internal/domain"
	"github.com/hammamikhairi/powernap/internal/logger"
)

// Compile-time interface check.
var _ domain.Presenter = (*Console)(nil)

// Session is the part of the controller the console drives.
// *engine.Controller satisfies it.
type Session interface {
	StartOrCancel()
	Snooze(input string)
	Dismiss()
	State() domain.SessionState
}

// Console prints to out. On a terminal the countdown is redrawn in place
// on one status line; otherwise every change is its own line.
type Console struct {
	log    *logger.Logger
	parser *CommandParser

	mu        sync.Mutex
	out       io.Writer
	tty       bool
	remaining string
	label     string
	style     domain.ActionStyle
	dialog    *domain.Dialog
	lastLine  string
}

// New creates a console writing to out.
func New(out io.Writer, tty bool, log *logger.Logger) *Console {
	return &Console{
		log:       log,
		parser:    NewCommandParser(),
		out:       out,
		tty:       tty,
		remaining: "00:00",
		label:     domain.LabelStart,
	}
}

// ShowRemaining updates the countdown text.
func (c *Console) ShowRemaining(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = text
	c.drawStatus()
}

// SetActionLabel updates the action hint.
func (c *Console) SetActionLabel(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.label = label
	c.drawStatus()
}

// SetActionStyle records whether a nap is running.
func (c *Console) SetActionStyle(style domain.ActionStyle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.style = style
	c.drawStatus()
}

// PresentDialog prints the completion prompt. The next answer typed is
// routed to the dialog's callbacks.
func (c *Console) PresentDialog(d domain.Dialog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialog = &d
	c.println(alertStyle.Render(d.Title) + " " + d.Message)
	c.println(hintStyle.Render(fmt.Sprintf("  %s (type minutes), or %q", d.Placeholder, strings.ToLower(d.DismissLabel))))
}

// Printf prints a line above the status line. Safe for concurrent use,
// so it can back a TextNotifier fired from timer goroutines.
func (c *Console) Printf(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.println(fmt.Sprintf(format, a...))
}

// Run reads commands from in until EOF or ctx is done. Each command is
// handed to post so it runs on the event loop; quit is called for the
// quit command.
func (c *Console) Run(ctx context.Context, in io.Reader, s Session, post func(func()), quit func()) error {
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errCh <- sc.Err()
	}()

	c.printHelp()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("reading commands: %w", err)
			}
			c.log.Info("console input closed")
			return nil
		case line := <-lines:
			post(func() { c.handle(line, s, quit) })
		}
	}
}

// handle runs one command. Called on the event loop.
func (c *Console) handle(line string, s Session, quit func()) {
	c.mu.Lock()
	dialog := c.dialog
	c.mu.Unlock()

	cmd := c.parser.Parse(line, dialog != nil)
	c.log.Debug("console command %s %q", cmd.Type, cmd.Arg)

	switch cmd.Type {
	case CmdPress:
		s.StartOrCancel()
	case CmdStatus:
		c.printStatus(s.State())
	case CmdHelp:
		c.printHelp()
	case CmdQuit:
		quit()
	case CmdDismiss:
		c.closeDialog()
		dialog.OnDismiss()
	case CmdSnooze:
		c.closeDialog()
		dialog.OnSnooze(cmd.Arg)
	default:
		c.Printf("%s", hintStyle.Render(fmt.Sprintf("unknown command %q, type help", cmd.Arg)))
	}
}

func (c *Console) closeDialog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialog = nil
}

func (c *Console) printStatus(st domain.SessionState) {
	var b strings.Builder
	b.WriteString(timeStyle.Render(st.Display))
	switch {
	case st.DialogOpen:
		b.WriteString(alertStyle.Render("  waiting for snooze answer"))
	case st.Running:
		b.WriteString(busyStyle.Render("  napping"))
	default:
		b.WriteString(readyStyle.Render("  ready"))
	}
	c.Printf("%s", b.String())
}

func (c *Console) printHelp() {
	c.Printf("%s", titleStyle.Render("commands:"))
	c.Printf("%s", hintStyle.Render("  start | cancel (or just enter)  toggle the nap"))
	c.Printf("%s", hintStyle.Render("  status                          show the countdown"))
	c.Printf("%s", hintStyle.Render("  snooze <minutes> | dismiss      answer the wake-up prompt"))
	c.Printf("%s", hintStyle.Render("  quit                            exit"))
}

// println writes a full line, keeping the status line at the bottom on a
// terminal. Caller holds mu.
func (c *Console) println(line string) {
	if c.tty {
		fmt.Fprint(c.out, "\r\033[K")
	}
	fmt.Fprintln(c.out, line)
	if c.tty {
		c.writeStatus()
	}
}

// drawStatus shows the countdown. Off a terminal an unchanged status is
// not printed again. Caller holds mu.
func (c *Console) drawStatus() {
	if c.tty {
		fmt.Fprint(c.out, "\r\033[K")
		c.writeStatus()
		return
	}
	line := c.statusLine()
	if line == c.lastLine {
		return
	}
	c.lastLine = line
	fmt.Fprintln(c.out, line)
}

func (c *Console) writeStatus() {
	fmt.Fprint(c.out, c.statusLine())
}

func (c *Console) statusLine() string {
	action := readyStyle
	if c.style == domain.ActionBusy {
		action = busyStyle
	}
	return timeStyle.Render(c.remaining) + "  " + action.Render("["+c.label+"]")
}
