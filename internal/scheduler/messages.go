package scheduler

import (
	"math/rand"
	"time"

	"github.com/sadopc/remindr/internal/weather"
)

// Message pools by local hour. Each reminder picks uniformly from its
// bucket, optionally widened with weather-specific lines.
var (
	morningMessages = []string{
		"Good morning! Start the day with a glass of water.",
		"A glass of water now kickstarts your metabolism.",
		"Hydrate before your coffee catches up with you.",
		"Your body lost water overnight. Time to refill.",
		"First glass of the day is the easiest win.",
		"Morning hydration sharpens your focus.",
		"Drink up, the day is young.",
		"Water now, energy later.",
		"A fresh glass to open the morning.",
		"Start strong: one glass before breakfast.",
	}
	middayMessages = []string{
		"Midday check-in: time for a glass of water.",
		"Water keeps your concentration up through lunch.",
		"Halfway to lunch, how about a refill?",
		"Hydration beats the midday slump.",
		"A glass now keeps the headache away.",
		"Your brain runs on water. Top it up.",
		"Lunch goes down better with water.",
		"Keep the streak going, one more glass.",
		"Quick break, quick glass.",
		"Stay sharp, stay hydrated.",
	}
	afternoonMessages = []string{
		"Afternoon reminder: your glass is waiting.",
		"Beat the afternoon dip with some water.",
		"Refill time. Your focus will thank you.",
		"A glass of water beats another coffee.",
		"Keep your energy steady with a drink.",
		"Small sips, big difference.",
		"You're closer to today's goal than you think.",
		"Hydrate now, feel better by dinner.",
		"Time to stretch and take a drink.",
		"One glass closer to your target.",
	}
	eveningMessages = []string{
		"Evening glass: steady and unhurried.",
		"Wind down with some water.",
		"A calm glass before the evening rush.",
		"Keep it light, keep it regular.",
		"Almost there, one more glass tonight.",
		"Hydrate with dinner, not after it.",
		"Your last stretch of the daily goal.",
		"A glass now means a better morning.",
		"Evening hydration, gently does it.",
		"Close out the day's target.",
	}
	nightMessages = []string{
		"A small sip if you're still up.",
		"Late hours: keep it to a few sips.",
		"Just a little water before bed.",
		"Night owl? A light sip is enough.",
		"Tiny glass, better sleep.",
		"Minimal hydration for the night hours.",
		"A sip now, a full glass in the morning.",
		"Don't overdo it this late.",
		"Quiet hours, quiet sips.",
		"Rest matters too. Small sip, then sleep.",
	}
)

// Weather-conditional additions.
var (
	hotMessages = []string{
		"It's hot out there. Drink more than usual.",
		"High temperatures today, keep the water close.",
		"Heat drains you fast. Refill now.",
	}
	coldMessages = []string{
		"Cold days hide your thirst. Drink anyway.",
		"A warm drink counts too on a cold day.",
	}
	windyMessages = []string{
		"Windy weather dries you out. Have a glass.",
		"The wind is stealing your moisture. Refill.",
	}
	highUVMessages = []string{
		"Strong sun today. Hydrate and cover up.",
		"High UV index, your skin and body need water.",
	}
	cloudyMessages = []string{
		"Grey skies, same goal. Keep drinking.",
	}
	rainyMessages = []string{
		"Rainy day, but your body still needs water.",
	}
	humidMessages = []string{
		"Humid air makes you sweat more. Drink up.",
		"Sticky weather today. Replace what you lose.",
	}
	dryMessages = []string{
		"Dry air today. Your throat will thank you.",
	}
)

// Condition thresholds for widening the message pool.
const (
	hotTempC      = 30
	coldTempC     = 5
	windyKMH      = 20
	highUV        = 6
	cloudyPercent = 70
	humidPercent  = 70
	dryPercent    = 30
)

// MessageSelector picks a motivational line for a reminder. It keeps no
// state beyond its random source, which is injectable for tests.
type MessageSelector struct {
	rng *rand.Rand
}

func NewMessageSelector(rng *rand.Rand) *MessageSelector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MessageSelector{rng: rng}
}

// bucketFor maps a local hour to its message pool.
func bucketFor(hour int) []string {
	switch {
	case hour >= 6 && hour < 10:
		return morningMessages
	case hour >= 10 && hour < 14:
		return middayMessages
	case hour >= 14 && hour < 18:
		return afternoonMessages
	case hour >= 18 && hour < 22:
		return eveningMessages
	default:
		return nightMessages
	}
}

func conditionMessages(s weather.Snapshot) []string {
	var pool []string
	if s.Temperature >= hotTempC {
		pool = append(pool, hotMessages...)
	}
	if s.Temperature <= coldTempC {
		pool = append(pool, coldMessages...)
	}
	if s.WindSpeed >= windyKMH {
		pool = append(pool, windyMessages...)
	}
	if s.UVIndex >= highUV {
		pool = append(pool, highUVMessages...)
	}
	if s.CloudCover >= cloudyPercent {
		pool = append(pool, cloudyMessages...)
	}
	if s.Precipitation > 0 {
		pool = append(pool, rainyMessages...)
	}
	if s.Humidity >= humidPercent {
		pool = append(pool, humidMessages...)
	}
	if s.Humidity <= dryPercent {
		pool = append(pool, dryMessages...)
	}
	return pool
}

// Pick returns a message for a reminder firing at the given time. When a
// weather snapshot is supplied, condition-specific lines join the pool
// before the uniform pick.
func (m *MessageSelector) Pick(at time.Time, snap *weather.Snapshot) string {
	bucket := bucketFor(at.Hour())
	pool := make([]string, 0, len(bucket)+8)
	pool = append(pool, bucket...)
	if snap != nil {
		pool = append(pool, conditionMessages(*snap)...)
	}
	return pool[m.rng.Intn(len(pool))]
}
