// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type is both the presentation surface of the nap controller
// and its event loop: controller calls and countdown ticks are delivered
// as messages through [UI.Dispatch] and run inside Update, so they never
// race with rendering. Notifications are printed above the rendered area
// via Program.Println / Printf.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/powernap/internal/domain"
)

// Compile-time interface check.
var _ domain.Presenter = (*UI)(nil)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle is the muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fde68a")).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b"))

	readyButton = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 3).
			Foreground(lipgloss.Color("#052e16")).
			Background(lipgloss.Color("#4ade80"))

	busyButton = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 3).
			Foreground(lipgloss.Color("#431407")).
			Background(lipgloss.Color("#fb923c"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#fca5a5")).
			Padding(1, 2)

	dialogTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#fca5a5"))

	dialogMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d4d4d8"))

	actionStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#a1a1aa"))

	actionFocusStyle = lipgloss.NewStyle().
				Padding(0, 2).
				Bold(true).
				Foreground(lipgloss.Color("#18181b")).
				Background(lipgloss.Color("#bae6fd"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))
)

// ── UI ───────────────────────────────────────────────────────────

// Session is the part of the controller the UI drives.
// *engine.Controller satisfies it.
type Session interface {
	StartOrCancel()
}

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI], [UI.Bind], then [UI.Run] (blocking). Other goroutines may
// call [UI.Dispatch], [UI.Println] and [UI.Printf] at any time after
// [UI.WaitReady] returns. The Presenter methods must only be called from
// functions passed to Dispatch.
type UI struct {
	program *tea.Program
	screen  *screen
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool
}

// screen is the presentation state. Only touched inside Update/View.
type screen struct {
	session   Session
	remaining string
	label     string
	style     domain.ActionStyle
	dialog    *domain.Dialog
	focus     int // 0 snooze, 1 dismiss
	input     textinput.Model
	width     int
}

// NewUI creates the display. Call Run() to start.
func NewUI() *UI {
	return &UI{
		screen: &screen{
			remaining: "00:00",
			label:     domain.LabelStart,
			input:     newInput(),
		},
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Bind connects the action button to the controller. Call before Run.
func (u *UI) Bind(s Session) { u.screen.session = s }

// Dispatch runs fn inside the Bubble Tea event loop. Safe for
// concurrent use; fn is dropped once the UI has quit.
func (u *UI) Dispatch(fn func()) {
	if u.program == nil || u.done.Load() {
		return
	}
	u.program.Send(callMsg(fn))
}

// ShowRemaining updates the clock.
func (u *UI) ShowRemaining(text string) { u.screen.remaining = text }

// SetActionLabel updates the button text.
func (u *UI) SetActionLabel(label string) { u.screen.label = label }

// SetActionStyle switches the button between its ready and busy colors.
func (u *UI) SetActionStyle(style domain.ActionStyle) { u.screen.style = style }

// PresentDialog opens the snooze prompt.
func (u *UI) PresentDialog(d domain.Dialog) {
	s := u.screen
	s.dialog = &d
	s.focus = 0
	s.input.Reset()
	s.input.Placeholder = d.Placeholder
	s.input.Focus()
}

// Println prints a line above the screen. Thread-safe.
// If the program hasn't started yet, falls back to fmt.Println.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the screen. Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	m := model{screen: u.screen, readyCh: u.readyCh}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

func newInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "minutes> "
	ti.PromptStyle = hintStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.CharLimit = 6
	ti.Width = 12
	return ti
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	screen  *screen
	readyCh chan struct{}
}

// Messages.
type callMsg func()

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := m.screen

	switch msg := msg.(type) {
	case callMsg:
		msg()
		return m, tea.SetWindowTitle(m.titleStr())

	case tea.WindowSizeMsg:
		s.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if s.dialog != nil {
			return m, m.updateDialog(msg)
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "enter", " ":
			if s.session != nil {
				s.session.StartOrCancel()
			}
			return m, tea.SetWindowTitle(m.titleStr())
		}
		return m, nil
	}

	if s.dialog != nil {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// updateDialog handles keys while the snooze prompt is open.
func (m model) updateDialog(msg tea.KeyMsg) tea.Cmd {
	s := m.screen
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		s.focus = 1 - s.focus
		return nil
	case tea.KeyEsc:
		d := m.closeDialog()
		d.OnDismiss()
		return tea.SetWindowTitle(m.titleStr())
	case tea.KeyEnter:
		text := s.input.Value()
		focus := s.focus
		d := m.closeDialog()
		if focus == 1 {
			d.OnDismiss()
		} else {
			d.OnSnooze(text)
		}
		return tea.SetWindowTitle(m.titleStr())
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (m model) closeDialog() *domain.Dialog {
	s := m.screen
	d := s.dialog
	s.dialog = nil
	s.input.Blur()
	s.input.Reset()
	return d
}

func (m model) titleStr() string {
	if m.screen.style == domain.ActionBusy && m.screen.label == domain.LabelCancel {
		return "powernap - " + m.screen.remaining
	}
	return "powernap"
}

func (m model) View() string {
	s := m.screen
	var blocks []string

	blocks = append(blocks, clockStyle.Render(s.remaining))

	button := readyButton
	if s.style == domain.ActionBusy {
		button = busyButton
	}
	blocks = append(blocks, button.Render(s.label))

	if s.dialog != nil {
		blocks = append(blocks, m.renderDialog())
		blocks = append(blocks, hintStyle.Render("enter: choose  tab: switch  esc: dismiss"))
	} else {
		blocks = append(blocks, hintStyle.Render("enter/space: "+strings.ToLower(s.label)+"  q: quit"))
	}

	body := lipgloss.JoinVertical(lipgloss.Center, blocks...)
	if s.width > 0 {
		return lipgloss.PlaceHorizontal(s.width, lipgloss.Center, body) + "\n"
	}
	return body + "\n"
}

func (m model) renderDialog() string {
	s := m.screen
	d := s.dialog

	snooze, dismiss := actionStyle, actionStyle
	if s.focus == 0 {
		snooze = actionFocusStyle
	} else {
		dismiss = actionFocusStyle
	}
	actions := lipgloss.JoinHorizontal(lipgloss.Top,
		dismiss.Render(d.DismissLabel),
		"  ",
		snooze.Render(d.SnoozeLabel),
	)

	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		dialogTitleStyle.Render(d.Title),
		dialogMessageStyle.Render(d.Message),
		"",
		s.input.View(),
		"",
		actions,
	))
}
