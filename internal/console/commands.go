package console

import (
	"regexp"
	"strings"
)

// CommandType classifies a line typed at the console.
type CommandType int

const (
	CmdUnknown CommandType = iota
	CmdPress               // start or cancel, whichever applies
	CmdStatus
	CmdHelp
	CmdQuit
	CmdDismiss
	CmdSnooze
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CmdPress:
		return "press"
	case CmdStatus:
		return "status"
	case CmdHelp:
		return "help"
	case CmdQuit:
		return "quit"
	case CmdDismiss:
		return "dismiss"
	case CmdSnooze:
		return "snooze"
	default:
		return "unknown"
	}
}

// Command is a parsed console line.
type Command struct {
	Type CommandType
	Arg  string // snooze minutes as typed
}

type rule struct {
	regex *regexp.Regexp
	cmd   CommandType
}

// CommandParser matches console input with keyword patterns. While the
// completion dialog is open every line other than status/help/quit is an
// answer to the dialog.
type CommandParser struct {
	always []rule
	idle   []rule
	dialog []rule
	snooze *regexp.Regexp
}

// NewCommandParser creates the keyword parser.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		always: []rule{
			{regexp.MustCompile(`(?i)^(status|where|info|st)$`), CmdStatus},
			{regexp.MustCompile(`(?i)^(help|h|\?)$`), CmdHelp},
			{regexp.MustCompile(`(?i)^(quit|exit|q)$`), CmdQuit},
		},
		idle: []rule{
			{regexp.MustCompile(`(?i)^(start|nap|go|cancel|stop|c|s|x)?$`), CmdPress},
		},
		dialog: []rule{
			{regexp.MustCompile(`(?i)^(dismiss|d|ok|no|up)$`), CmdDismiss},
		},
		snooze: regexp.MustCompile(`(?i)^(?:snooze|z)\s*(.*)$`),
	}
}

// Parse converts a line into a command. An empty line presses the
// action button when no dialog is open.
func (p *CommandParser) Parse(input string, dialogOpen bool) Command {
	trimmed := strings.TrimSpace(input)

	for _, r := range p.always {
		if r.regex.MatchString(trimmed) {
			return Command{Type: r.cmd}
		}
	}

	if dialogOpen {
		for _, r := range p.dialog {
			if r.regex.MatchString(trimmed) {
				return Command{Type: r.cmd}
			}
		}
		if m := p.snooze.FindStringSubmatch(trimmed); m != nil {
			return Command{Type: CmdSnooze, Arg: strings.TrimSpace(m[1])}
		}
		// A bare answer is the number of minutes.
		return Command{Type: CmdSnooze, Arg: trimmed}
	}

	for _, r := range p.idle {
		if r.regex.MatchString(trimmed) {
			return Command{Type: r.cmd}
		}
	}
	return Command{Type: CmdUnknown, Arg: trimmed}
}
