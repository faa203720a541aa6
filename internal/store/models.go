package store

import (
	"time"

	"github.com/sadopc/remindr/internal/weather"
)

// Mode selects the water reminder strategy.
type Mode string

const (
	ModeNone   Mode = "none"
	ModeSmart  Mode = "smart"
	ModeCustom Mode = "custom"
)

// NotificationWindow is the daily HH:MM interval during which reminders
// may fire. Start may be later than End, in which case the window wraps
// past midnight.
type NotificationWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Profile holds the user's physiological data and notification window.
// Stored as the "profile" document; zero values mean "not configured"
// and are replaced with defaults by the scheduler.
type Profile struct {
	Weight        float64            `json:"weight,omitempty"` // kg
	Height        float64            `json:"height,omitempty"` // cm
	Age           int                `json:"age,omitempty"`
	Gender        string             `json:"gender,omitempty"`        // "male" or "female"
	ActivityLevel string             `json:"activityLevel,omitempty"` // sedentary..athlete
	Window        NotificationWindow `json:"notificationWindow"`
}

// ReminderEvent is a single scheduled reminder.
type ReminderEvent struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// WaterDoc is the "water/current" document. Queue and the next-reminder
// fields are owned by the scheduler; intake fields are mutated by the UI.
type WaterDoc struct {
	Mode                Mode              `json:"mode,omitempty"`
	DailyTarget         int               `json:"dailyTarget,omitempty"` // ml
	GlassSize           int               `json:"glassSize,omitempty"`   // ml
	Intake              int               `json:"waterIntake"`           // ml consumed today
	YesterdayIntake     int               `json:"yesterdayWaterIntake,omitempty"`
	CustomIntervalHours float64           `json:"customIntervalHours,omitempty"`
	Queue               []ReminderEvent   `json:"queue,omitempty"`
	NextReminderTime    *time.Time        `json:"nextReminderTime,omitempty"`
	NextReminderMessage string            `json:"nextReminderMessage,omitempty"`
	Fingerprint         string            `json:"lastTriggerFingerprint,omitempty"`
	LastComputedAt      *time.Time        `json:"lastComputedAt,omitempty"`
	LastResetDate       string            `json:"lastResetDate,omitempty"` // YYYY-MM-DD
	Weather             *weather.Snapshot `json:"dailyWeatherAverages,omitempty"`
}

// Supplement is one "supplements/<id>" document.
type Supplement struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Quantity            float64         `json:"quantity"`   // remaining units
	DailyUsage          float64         `json:"dailyUsage"` // units per day
	Schedule            []string        `json:"notificationSchedule,omitempty"`
	ConsumedToday       float64         `json:"consumedToday"`
	Queue               []ReminderEvent `json:"queue,omitempty"`
	NextReminderTime    *time.Time      `json:"nextReminderTime,omitempty"`
	NextReminderMessage string          `json:"nextReminderMessage,omitempty"`
	Fingerprint         string          `json:"lastTriggerFingerprint,omitempty"`
	LastComputedAt      *time.Time      `json:"lastComputedAt,omitempty"`
}

// IntakeRecord is one day of archived water intake.
type IntakeRecord struct {
	Date     string // YYYY-MM-DD
	IntakeML int
	TargetML int
}

// ReminderRecord is one delivered reminder, kept for the audit trail.
type ReminderRecord struct {
	ID      int64
	Kind    string // "water" or "supplement"
	Source  string // supplement name, empty for water
	FiredAt time.Time
	Message string
}
