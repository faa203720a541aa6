package scheduler

import (
	"time"

	"github.com/sadopc/remindr/internal/store"
)

// PruneStale drops leading events that are no longer comfortably in the
// future. The queue is ascending, so the first surviving event ends the
// scan.
func PruneStale(queue []store.ReminderEvent, now time.Time) []store.ReminderEvent {
	cutoff := now.Add(minLead)
	i := 0
	for i < len(queue) && !queue[i].Time.After(cutoff) {
		i++
	}
	return queue[i:]
}

// Head returns the first event of the queue, or nil when it is empty.
func Head(queue []store.ReminderEvent) *store.ReminderEvent {
	if len(queue) == 0 {
		return nil
	}
	ev := queue[0]
	return &ev
}
