package scheduler

import (
	"strconv"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/sadopc/remindr/internal/store"
)

// rebuildThrottle bounds how often an unchanged schedule is recomputed,
// independent of how often it is read.
const rebuildThrottle = 30 * time.Minute

// State is the persisted bookkeeping the guard inspects before deciding
// whether a stored queue may be reused.
type State struct {
	Queue       []store.ReminderEvent
	Fingerprint string
	ComputedAt  time.Time // zero when never computed
}

type waterTrigger struct {
	IntakeML int
	Mode     string
	Activity string
	Window   string
}

type supplementTrigger struct {
	Quantity   float64
	DailyUsage float64
	Schedule   []string
	Window     string
}

func fingerprint(v any) string {
	h, err := hashstructure.Hash(v, hashstructure.FormatV2, nil)
	if err != nil {
		// Hash only fails on unsupported types; the trigger structs hold
		// plain scalars and strings.
		return ""
	}
	return strconv.FormatUint(h, 16)
}

// WaterFingerprint hashes the inputs that determine the water schedule.
func WaterFingerprint(intakeML int, mode store.Mode, activity string, w Window) string {
	return fingerprint(waterTrigger{
		IntakeML: intakeML,
		Mode:     string(mode),
		Activity: activity,
		Window:   w.String(),
	})
}

// SupplementFingerprint hashes the inputs that determine one supplement's
// schedule.
func SupplementFingerprint(item store.Supplement, w Window) string {
	return fingerprint(supplementTrigger{
		Quantity:   item.Quantity,
		DailyUsage: item.DailyUsage,
		Schedule:   item.Schedule,
		Window:     w.String(),
	})
}

// ShouldRebuild decides whether the persisted queue is still usable. The
// queue is reused only when the fingerprint is unchanged, the queue is
// non-empty, its head is still comfortably in the future, and the last
// computation is fresher than the throttle interval.
func ShouldRebuild(s State, fp string, now time.Time) bool {
	if s.Fingerprint != fp {
		return true
	}
	if len(s.Queue) == 0 {
		return true
	}
	if !s.Queue[0].Time.After(now.Add(minLead)) {
		return true
	}
	if s.ComputedAt.IsZero() || now.Sub(s.ComputedAt) >= rebuildThrottle {
		return true
	}
	return false
}
