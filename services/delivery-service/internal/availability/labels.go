package availability

import (
	"fmt"
	"time"
)

// ClosedLabel is shown when no opening is scheduled within the lookahead window.
const ClosedLabel = "Closed"

func clockLabel(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func closesLabel(minute int) string {
	return "Closes at " + clockLabel(minute)
}

func opensLabel(at time.Time) string {
	return fmt.Sprintf("Opens %s %s at %s", at.Weekday(), at.Format("02/01"), at.Format("15:04"))
}

// RemainingLabel renders a positive number of minutes as "2h 15min", "2h" or "45min".
func RemainingLabel(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dmin", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dmin", m)
	}
}
