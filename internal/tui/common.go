package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/remindr/internal/scheduler"
	"github.com/sadopc/remindr/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewSupplements
	viewHistory
	viewReminders
	viewSettings
)

var viewNames = []string{"Dashboard", "Supplements", "History", "Reminders", "Settings"}

// --- Messages ---

type tickMsg time.Time

type reminderTickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type waterSyncedMsg struct {
	status *scheduler.WaterStatus
}

type deliveredMsg struct {
	reminders []scheduler.Delivered
}

type supplementsDataMsg struct {
	items []store.Supplement
}

type historyDataMsg struct {
	records []store.IntakeRecord
}

type remindersDataMsg struct {
	water       []store.ReminderEvent
	supplements []supplementQueue
	delivered   []store.ReminderRecord
}

type supplementQueue struct {
	name  string
	queue []store.ReminderEvent
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatML(ml int) string {
	if ml >= 1000 {
		return fmt.Sprintf("%.1fL", float64(ml)/1000)
	}
	return fmt.Sprintf("%dml", ml)
}

// formatCountdown renders a gap as a short human string.
func formatCountdown(until time.Duration) string {
	if until <= 0 {
		return "now"
	}
	h := int(until.Hours())
	m := int(until.Minutes()) % 60
	s := int(until.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func formatClock(t time.Time) string {
	return t.Local().Format("15:04")
}
