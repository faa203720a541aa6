package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/remindr/internal/store"
	"github.com/sadopc/remindr/internal/weather"
)

const (
	// minInterval floors reminder spacing in both smart and custom mode.
	minInterval = 15 * time.Minute

	// minLead is the anti-immediate-fire guard: events closer than this
	// are dropped so a rebuild never fires a notification instantly.
	minLead = 60 * time.Second

	// depletionLead places the "about to run out" alert in the near
	// future instead of firing it through a side channel. Not truncated
	// to the minute so it always clears minLead.
	depletionLead = 90 * time.Second
)

// SmartInterval returns the spacing for demand-driven scheduling: the
// remaining window divided by the required event count, floored at
// minInterval.
func SmartInterval(now, windowStart, windowEnd time.Time, eventCount int) time.Duration {
	from := now
	if from.Before(windowStart) {
		from = windowStart
	}
	remaining := windowEnd.Sub(from)
	if remaining < 0 {
		remaining = 0
	}
	if eventCount < 1 {
		eventCount = 1
	}
	interval := time.Duration(int(remaining.Minutes())/eventCount) * time.Minute
	if interval < minInterval {
		interval = minInterval
	}
	return interval
}

// CustomInterval converts a user-chosen hour count to a spacing, clamped
// to the same floor as smart mode.
func CustomInterval(hours float64) time.Duration {
	interval := time.Duration(hours * float64(time.Hour)).Truncate(time.Minute)
	if interval < minInterval {
		interval = minInterval
	}
	return interval
}

// BuildWaterSchedule emits reminder events spaced by interval across the
// resolved window. The first event is now+interval when now is inside the
// window, otherwise windowStart. Timestamps are truncated to the minute
// and anything within minLead of now is discarded.
func BuildWaterSchedule(now, windowStart, windowEnd time.Time, interval time.Duration, snap *weather.Snapshot, pick func(time.Time, *weather.Snapshot) string) []store.ReminderEvent {
	if interval <= 0 {
		return nil
	}
	first := windowStart
	if !now.Before(windowStart) && now.Before(windowEnd) {
		first = now.Add(interval)
	}
	first = first.Truncate(time.Minute)

	var events []store.ReminderEvent
	for t := first; !t.After(windowEnd); t = t.Add(interval) {
		events = append(events, store.ReminderEvent{Time: t, Message: pick(t, snap)})
	}
	return PruneStale(events, now)
}

// BuildSupplementSchedule emits today's reminder events for one
// supplement:
//
//  1. Manual schedule times roll to their next occurrence, independent of
//     the window.
//  2. Otherwise, with a daily usage configured, the remaining supply picks
//     one of: a depletion alert moments from now, a milestone alert at
//     window end when 14/7/3/1 days remain, or the end-of-day summary one
//     minute before window end.
//
// A supplement whose daily dose was already taken today emits nothing.
func BuildSupplementSchedule(now, windowStart, windowEnd time.Time, item store.Supplement) []store.ReminderEvent {
	if item.DailyUsage > 0 && item.ConsumedToday >= item.DailyUsage {
		return nil
	}

	var events []store.ReminderEvent
	switch {
	case len(item.Schedule) > 0:
		for _, raw := range item.Schedule {
			tod, err := ParseTimeOfDay(raw)
			if err != nil {
				continue
			}
			t := tod.on(now)
			if !t.After(now) {
				t = t.AddDate(0, 0, 1)
			}
			events = append(events, store.ReminderEvent{
				Time:    t,
				Message: fmt.Sprintf("Time to take %s.", item.Name),
			})
		}

	case item.DailyUsage > 0:
		days := int(item.Quantity / item.DailyUsage)
		switch {
		case days == 0:
			events = append(events, store.ReminderEvent{
				Time:    now.Add(depletionLead),
				Message: fmt.Sprintf("%s is about to run out. Restock soon.", item.Name),
			})
		case days == 14 || days == 7 || days == 3 || days == 1:
			events = append(events, store.ReminderEvent{
				Time:    windowEnd.Truncate(time.Minute),
				Message: fmt.Sprintf("%s: about %d day(s) of supply left.", item.Name, days),
			})
		default:
			events = append(events, store.ReminderEvent{
				Time:    summaryTime(now, windowStart, windowEnd),
				Message: fmt.Sprintf("End of day check: did you take %s?", item.Name),
			})
		}
	}

	return PruneStale(sortEvents(events), now)
}

// summaryTime is one minute before window end, clamped to 23:59 local when
// the window runs past midnight.
func summaryTime(now, windowStart, windowEnd time.Time) time.Time {
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
	t := windowEnd.Add(-time.Minute)
	if windowEnd.After(endOfDay) {
		t = endOfDay
	}
	return t.Truncate(time.Minute)
}

// sortEvents orders events ascending and drops duplicate timestamps so the
// queue stays strictly increasing.
func sortEvents(events []store.ReminderEvent) []store.ReminderEvent {
	sort.Slice(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	out := events[:0]
	for _, e := range events {
		if len(out) > 0 && e.Time.Equal(out[len(out)-1].Time) {
			continue
		}
		out = append(out, e)
	}
	return out
}
