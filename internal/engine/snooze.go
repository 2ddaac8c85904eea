package engine

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hammamikhairi/powernap/internal/domain"
)

// maxSnooze bounds snooze input so minutes*60s cannot overflow a Duration.
const maxSnooze = 24 * time.Hour

// ParseSnooze reads a number of minutes from free text. Decimals are
// accepted ("1.5" is ninety seconds). Empty, non-numeric, non-finite,
// non-positive and absurdly large values return ErrInvalidSnooze.
func ParseSnooze(input string) (time.Duration, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return 0, domain.ErrInvalidSnooze
	}
	minutes, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes <= 0 || minutes > maxSnooze.Minutes() {
		return 0, domain.ErrInvalidSnooze
	}
	d := time.Duration(minutes * float64(time.Minute)).Round(time.Second)
	if d <= 0 {
		return 0, domain.ErrInvalidSnooze
	}
	return d, nil
}
