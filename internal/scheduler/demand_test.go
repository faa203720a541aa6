package scheduler

import (
	"testing"

	"github.com/sadopc/remindr/internal/store"
	"github.com/sadopc/remindr/internal/weather"
)

// ============================================================
// BMR
// ============================================================

func TestBMR(t *testing.T) {
	// Mifflin-St Jeor with the documented defaults
	male := BMR("male", 93, 190, 30)
	if male != 1972.5 {
		t.Fatalf("male BMR = %v", male)
	}

	female := BMR("female", 93, 190, 30)
	if female != 1806.5 {
		t.Fatalf("female BMR = %v", female)
	}

	if male-female != 166 {
		t.Fatalf("gender offset = %v", male-female)
	}
}

// ============================================================
// Environment factor
// ============================================================

func TestEnvironmentFactorHeat(t *testing.T) {
	cool := weather.Neutral()
	hot := weather.Neutral()
	hot.Temperature = 35

	if environmentFactor(hot) <= environmentFactor(cool) {
		t.Fatal("hotter weather should raise the factor")
	}
}

func TestEnvironmentFactorComponents(t *testing.T) {
	base := weather.Neutral()

	windy := base
	windy.WindSpeed = 30
	if environmentFactor(windy) <= environmentFactor(base) {
		t.Fatal("wind should raise the factor")
	}

	humid := base
	humid.Humidity = 90
	if environmentFactor(humid) <= environmentFactor(base) {
		t.Fatal("humidity far from 50%% should raise the factor")
	}

	rainy := base
	rainy.Precipitation = 2
	if environmentFactor(rainy) >= environmentFactor(base) {
		t.Fatal("rain should lower the factor")
	}

	night := base
	night.IsDay = false
	if environmentFactor(night) >= environmentFactor(base) {
		t.Fatal("night should lower the factor")
	}
}

// ============================================================
// Demand estimation
// ============================================================

func TestEstimateDefaults(t *testing.T) {
	d := Estimate(store.Profile{}, weather.Neutral(), 0, 0)

	if d.DailyTarget <= 0 {
		t.Fatalf("target = %d", d.DailyTarget)
	}
	if d.Remaining != d.DailyTarget {
		t.Fatalf("remaining %d != target %d with no intake", d.Remaining, d.DailyTarget)
	}
	want := (d.Remaining + DefaultGlassML - 1) / DefaultGlassML
	if d.EventCount != want {
		t.Fatalf("event count = %d, want %d", d.EventCount, want)
	}
}

func TestEstimateRemainingClamped(t *testing.T) {
	d := Estimate(store.Profile{}, weather.Neutral(), 100000, 250)

	if d.Remaining != 0 {
		t.Fatalf("remaining = %d", d.Remaining)
	}
	// Event count never drops below one so the queue stays alive.
	if d.EventCount != 1 {
		t.Fatalf("event count = %d", d.EventCount)
	}
}

func TestEstimateActivity(t *testing.T) {
	athlete := Estimate(store.Profile{ActivityLevel: "athlete"}, weather.Neutral(), 0, 250)
	sedentary := Estimate(store.Profile{ActivityLevel: "sedentary"}, weather.Neutral(), 0, 250)

	if athlete.DailyTarget <= sedentary.DailyTarget {
		t.Fatalf("athlete %d should exceed sedentary %d", athlete.DailyTarget, sedentary.DailyTarget)
	}
}

func TestEstimateUnknownActivityUsesModerate(t *testing.T) {
	unknown := Estimate(store.Profile{ActivityLevel: "couch"}, weather.Neutral(), 0, 250)
	moderate := Estimate(store.Profile{ActivityLevel: "moderate"}, weather.Neutral(), 0, 250)

	if unknown.DailyTarget != moderate.DailyTarget {
		t.Fatalf("unknown %d != moderate %d", unknown.DailyTarget, moderate.DailyTarget)
	}
}
