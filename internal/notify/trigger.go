package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/hammamikhairi/powernap/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.Trigger = CalendarTrigger{}
	_ domain.Trigger = IntervalTrigger{}
)

// CalendarTrigger fires at the next wall-clock time whose minute and
// second match. Hour and day are not part of the match, so a nap of an
// hour or more fires early, at the first matching minute:second.
type CalendarTrigger struct {
	Minute int
	Second int
}

// CalendarTriggerFor keeps only the minute and second of t.
func CalendarTriggerFor(t time.Time) CalendarTrigger {
	return CalendarTrigger{Minute: t.Minute(), Second: t.Second()}
}

// Next returns the first matching instant strictly after the given time,
// in that time's location.
func (c CalendarTrigger) Next(after time.Time) time.Time {
	y, mo, d := after.Date()
	candidate := time.Date(y, mo, d, after.Hour(), c.Minute, c.Second, 0, after.Location())
	if !candidate.After(after) {
		candidate = time.Date(y, mo, d, after.Hour()+1, c.Minute, c.Second, 0, after.Location())
	}
	return candidate
}

func (c CalendarTrigger) String() string {
	return fmt.Sprintf("calendar(**:%02d:%02d)", c.Minute, c.Second)
}

// IntervalTrigger fires a fixed delay after it is armed.
type IntervalTrigger struct {
	Delay time.Duration
}

// Next returns after + Delay.
func (i IntervalTrigger) Next(after time.Time) time.Time {
	return after.Add(i.Delay)
}

func (i IntervalTrigger) String() string {
	return fmt.Sprintf("interval(%s)", i.Delay)
}

// TriggerMode selects how Alerts builds triggers.
type TriggerMode int

const (
	// TriggerCalendar matches the fire time's minute and second.
	TriggerCalendar TriggerMode = iota
	// TriggerInterval fires after the exact remaining duration.
	TriggerInterval
)

// String returns the config name of the mode.
func (m TriggerMode) String() string {
	switch m {
	case TriggerCalendar:
		return "calendar"
	case TriggerInterval:
		return "interval"
	default:
		return "unknown"
	}
}

// ParseTriggerMode converts a config value into a TriggerMode.
func ParseTriggerMode(s string) (TriggerMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "calendar":
		return TriggerCalendar, nil
	case "interval":
		return TriggerInterval, nil
	}
	return TriggerCalendar, fmt.Errorf("unknown trigger mode %q", s)
}
