package utils

import "fmt"

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// FormatRoundedUnit renders a duration in its largest whole unit, e.g. "2h" or "45s".
// The sign is dropped.
func FormatRoundedUnit(seconds int64) string {
	if seconds < 0 {
		seconds = -seconds
	}

	switch {
	case seconds >= secondsPerDay:
		return fmt.Sprintf("%dd", seconds/secondsPerDay)
	case seconds >= secondsPerHour:
		return fmt.Sprintf("%dh", seconds/secondsPerHour)
	case seconds >= secondsPerMinute:
		return fmt.Sprintf("%dm", seconds/secondsPerMinute)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatPlayTime renders a play time as hours and minutes, e.g. "1h 05m"
func FormatPlayTime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / secondsPerHour
	minutes := (seconds % secondsPerHour) / secondsPerMinute
	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}
