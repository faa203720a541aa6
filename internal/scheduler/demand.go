package scheduler

import (
	"math"

	"github.com/sadopc/remindr/internal/store"
	"github.com/sadopc/remindr/internal/weather"
)

// Fallbacks for profile fields the user never filled in.
const (
	defaultWeightKg  = 93
	defaultHeightCm  = 190
	defaultAgeYears  = 30
	defaultGender    = "male"
	DefaultGlassML   = 250
	baseTargetFactor = 1.4
)

// Demand is the estimator's output for one evaluation.
type Demand struct {
	DailyTarget int // ml
	Remaining   int // ml still to drink today
	EventCount  int // reminders needed to cover Remaining
}

// BMR computes basal metabolic rate with the Mifflin-St Jeor formula.
func BMR(gender string, weightKg, heightCm float64, ageYears int) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if gender == "female" {
		return base - 161
	}
	return base + 5
}

var activityFactors = map[string]float64{
	"sedentary":   0.9,
	"light":       1.0,
	"moderate":    1.1,
	"active":      1.2,
	"very_active": 1.3,
	"athlete":     1.4,
}

func activityFactor(level string) float64 {
	if f, ok := activityFactors[level]; ok {
		return f
	}
	return 1.1
}

// environmentFactor is the product of all weather-driven multipliers.
func environmentFactor(s weather.Snapshot) float64 {
	f := 1 + (s.Temperature-20)/100
	f *= 1 + math.Abs(50-s.Humidity)/200
	f *= 1 + math.Max(0, s.WindSpeed-10)/100
	f *= 1 + math.Max(0, s.UVIndex-3)/20
	f *= 1 - s.CloudCover/200
	if s.Precipitation > 0 {
		f *= 0.9
	}
	if s.IsDay {
		f *= 1.1
	} else {
		f *= 0.9
	}
	return f
}

// Estimate derives the personalized daily target and the number of
// reminders needed to reach it. Missing profile fields fall back to the
// documented defaults; the caller supplies a neutral snapshot when no
// weather is available.
func Estimate(p store.Profile, snap weather.Snapshot, intakeML, glassML int) Demand {
	weight := p.Weight
	if weight <= 0 {
		weight = defaultWeightKg
	}
	height := p.Height
	if height <= 0 {
		height = defaultHeightCm
	}
	age := p.Age
	if age <= 0 {
		age = defaultAgeYears
	}
	gender := p.Gender
	if gender == "" {
		gender = defaultGender
	}
	if glassML <= 0 {
		glassML = DefaultGlassML
	}

	bmr := BMR(gender, weight, height, age)
	factor := baseTargetFactor * environmentFactor(snap) * activityFactor(p.ActivityLevel)
	target := int(math.Round(bmr * factor))

	remaining := target - intakeML
	if remaining < 0 {
		remaining = 0
	}

	count := int(math.Ceil(float64(remaining) / float64(glassML)))
	if count < 1 {
		count = 1
	}

	return Demand{DailyTarget: target, Remaining: remaining, EventCount: count}
}
