package scheduler

import (
	"fmt"
	"time"

	"github.com/sadopc/remindr/internal/store"
)

// TimeOfDay is a wall-clock HH:MM value in the user's zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// on anchors the time of day to the calendar date of ref.
func (t TimeOfDay) on(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Minute, 0, 0, ref.Location())
}

// Window is the daily interval during which reminders may fire.
// Start later than End means the window wraps past midnight.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// DefaultWindow is used when no valid window is configured.
var DefaultWindow = Window{Start: TimeOfDay{Hour: 8}, End: TimeOfDay{Hour: 22}}

// ParseWindow parses a stored window, falling back to DefaultWindow on
// malformed or zero-length configuration.
func ParseWindow(w store.NotificationWindow) Window {
	start, err1 := ParseTimeOfDay(w.Start)
	end, err2 := ParseTimeOfDay(w.End)
	if err1 != nil || err2 != nil || start == end {
		return DefaultWindow
	}
	return Window{Start: start, End: end}
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// Resolve pins the window to concrete instants around now. A same-day
// window lands entirely on now's date. An overnight window began yesterday
// if now is still before today's end, otherwise it starts today and ends
// tomorrow. The resolved duration is always positive and at most 24h.
func (w Window) Resolve(now time.Time) (start, end time.Time) {
	start = w.Start.on(now)
	end = w.End.on(now)
	if start.Before(end) {
		return start, end
	}
	if now.Before(end) {
		start = start.AddDate(0, 0, -1)
	} else {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// Contains reports whether now falls inside the resolved window.
func (w Window) Contains(now time.Time) bool {
	start, end := w.Resolve(now)
	return !now.Before(start) && now.Before(end)
}
