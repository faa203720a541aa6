package scheduler

import (
	"testing"
	"time"

	"github.com/sadopc/remindr/internal/store"
)

// ============================================================
// Fingerprints
// ============================================================

func TestWaterFingerprintStable(t *testing.T) {
	w := DefaultWindow
	a := WaterFingerprint(500, store.ModeSmart, "moderate", w)
	b := WaterFingerprint(500, store.ModeSmart, "moderate", w)
	if a == "" || a != b {
		t.Fatalf("fingerprints differ: %q vs %q", a, b)
	}
}

func TestWaterFingerprintChanges(t *testing.T) {
	w := DefaultWindow
	base := WaterFingerprint(500, store.ModeSmart, "moderate", w)

	if WaterFingerprint(750, store.ModeSmart, "moderate", w) == base {
		t.Fatal("intake change should alter the fingerprint")
	}
	if WaterFingerprint(500, store.ModeCustom, "moderate", w) == base {
		t.Fatal("mode change should alter the fingerprint")
	}
	if WaterFingerprint(500, store.ModeSmart, "athlete", w) == base {
		t.Fatal("activity change should alter the fingerprint")
	}
	other := Window{Start: TimeOfDay{Hour: 9}, End: TimeOfDay{Hour: 21}}
	if WaterFingerprint(500, store.ModeSmart, "moderate", other) == base {
		t.Fatal("window change should alter the fingerprint")
	}
}

func TestSupplementFingerprint(t *testing.T) {
	w := DefaultWindow
	item := store.Supplement{Quantity: 30, DailyUsage: 1, Schedule: []string{"09:00"}}
	base := SupplementFingerprint(item, w)

	taken := item
	taken.Quantity = 29
	if SupplementFingerprint(taken, w) == base {
		t.Fatal("quantity change should alter the fingerprint")
	}

	resched := item
	resched.Schedule = []string{"10:00"}
	if SupplementFingerprint(resched, w) == base {
		t.Fatal("schedule change should alter the fingerprint")
	}
}

// ============================================================
// Rebuild decision
// ============================================================

func freshState(t *testing.T, now time.Time, fp string) State {
	t.Helper()
	return State{
		Queue:       []store.ReminderEvent{{Time: now.Add(30 * time.Minute)}},
		Fingerprint: fp,
		ComputedAt:  now,
	}
}

func TestShouldRebuildFresh(t *testing.T) {
	now := at(t, 10, 0)
	fp := "abc"

	if ShouldRebuild(freshState(t, now, fp), fp, now) {
		t.Fatal("fresh state should be reused")
	}
}

func TestShouldRebuildFingerprintMismatch(t *testing.T) {
	now := at(t, 10, 0)
	if !ShouldRebuild(freshState(t, now, "old"), "new", now) {
		t.Fatal("changed fingerprint must rebuild")
	}
}

func TestShouldRebuildEmptyQueue(t *testing.T) {
	now := at(t, 10, 0)
	s := freshState(t, now, "fp")
	s.Queue = nil
	if !ShouldRebuild(s, "fp", now) {
		t.Fatal("empty queue must rebuild")
	}
}

func TestShouldRebuildImminentHead(t *testing.T) {
	now := at(t, 10, 0)
	s := freshState(t, now, "fp")
	s.Queue = []store.ReminderEvent{{Time: now.Add(30 * time.Second)}}
	if !ShouldRebuild(s, "fp", now) {
		t.Fatal("head inside the lead guard must rebuild")
	}
}

func TestShouldRebuildThrottleExpiry(t *testing.T) {
	now := at(t, 10, 0)
	s := freshState(t, now, "fp")

	// Just under the throttle: reuse.
	later := now.Add(rebuildThrottle - time.Minute)
	s.Queue = []store.ReminderEvent{{Time: later.Add(30 * time.Minute)}}
	if ShouldRebuild(s, "fp", later) {
		t.Fatal("inside throttle should reuse")
	}

	// At the throttle boundary: rebuild.
	later = now.Add(rebuildThrottle)
	s.Queue = []store.ReminderEvent{{Time: later.Add(30 * time.Minute)}}
	if !ShouldRebuild(s, "fp", later) {
		t.Fatal("expired throttle must rebuild")
	}
}

func TestShouldRebuildNeverComputed(t *testing.T) {
	now := at(t, 10, 0)
	s := freshState(t, now, "fp")
	s.ComputedAt = time.Time{}
	if !ShouldRebuild(s, "fp", now) {
		t.Fatal("zero ComputedAt must rebuild")
	}
}
