package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/remindr/internal/store"
)

// SupplementStatus is one evaluation of a supplement's schedule.
type SupplementStatus struct {
	Item    store.Supplement
	Window  Window
	Rebuilt bool
}

// SyncSupplement brings one supplement's queue up to date, rebuilding it
// when the recompute guard fires. Fully consumed or empty supplements end
// up with an empty queue; the persisted state is only touched when the
// rebuild actually changes something.
func (e *Engine) SyncSupplement(ctx context.Context, userID string, item store.Supplement) (*SupplementStatus, error) {
	now := e.Now()

	profile, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	win := e.userWindow(profile)
	windowStart, windowEnd := win.Resolve(now)

	status := &SupplementStatus{Item: item, Window: win}

	fp := SupplementFingerprint(item, win)
	state := State{Queue: item.Queue, Fingerprint: item.Fingerprint, ComputedAt: computedAt(item.LastComputedAt)}
	if !ShouldRebuild(state, fp, now) {
		return status, nil
	}

	queue := BuildSupplementSchedule(now, windowStart, windowEnd, item)
	if len(queue) == 0 && len(item.Queue) == 0 && fp == item.Fingerprint {
		// Nothing scheduled and nothing persisted; skip the write.
		return status, nil
	}

	e.persistSupplementQueue(userID, &status.Item, queue, fp, now)
	status.Rebuilt = true
	return status, nil
}

func (e *Engine) persistSupplementQueue(userID string, item *store.Supplement, queue []store.ReminderEvent, fp string, now time.Time) {
	fields := map[string]any{
		"queue":                  queue,
		"lastTriggerFingerprint": fp,
		"lastComputedAt":         now,
	}
	if len(queue) > 0 {
		fields["nextReminderTime"] = queue[0].Time
		fields["nextReminderMessage"] = queue[0].Message
	} else {
		fields["nextReminderTime"] = nil
		fields["nextReminderMessage"] = nil
	}
	if err := e.store.MergeSupplement(userID, item.ID, fields); err != nil {
		e.log.Warn("persist supplement schedule failed", zap.String("supplement", item.ID), zap.Error(err))
	}

	item.Queue = queue
	item.Fingerprint = fp
	item.LastComputedAt = &now
	if len(queue) > 0 {
		item.NextReminderTime = &queue[0].Time
		item.NextReminderMessage = queue[0].Message
	} else {
		item.NextReminderTime = nil
		item.NextReminderMessage = ""
	}
}

// SyncSupplements evaluates every supplement the user tracks.
func (e *Engine) SyncSupplements(ctx context.Context, userID string) ([]SupplementStatus, error) {
	items, err := e.store.ListSupplements(userID)
	if err != nil {
		return nil, err
	}
	out := make([]SupplementStatus, 0, len(items))
	for _, item := range items {
		status, err := e.SyncSupplement(ctx, userID, item)
		if err != nil {
			return nil, err
		}
		out = append(out, *status)
	}
	return out, nil
}

// PeekNextSupplement returns the upcoming reminder for one supplement
// without consuming it.
func (e *Engine) PeekNextSupplement(ctx context.Context, userID, id string) (*store.ReminderEvent, error) {
	item, err := e.store.GetSupplement(userID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	status, err := e.SyncSupplement(ctx, userID, *item)
	if err != nil {
		return nil, err
	}
	return Head(PruneStale(status.Item.Queue, e.Now())), nil
}

// PopNextSupplement removes the delivered head of a supplement's queue
// and records it on the reminder log.
func (e *Engine) PopNextSupplement(ctx context.Context, userID, id string) (*store.ReminderEvent, error) {
	now := e.Now()
	item, err := e.store.GetSupplement(userID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if len(item.Queue) == 0 {
		if _, err := e.SyncSupplement(ctx, userID, *item); err != nil {
			return nil, err
		}
		return nil, nil
	}

	delivered := item.Queue[0]
	rest := PruneStale(item.Queue[1:], now)

	fields := map[string]any{"queue": rest}
	if len(rest) > 0 {
		fields["nextReminderTime"] = rest[0].Time
		fields["nextReminderMessage"] = rest[0].Message
	} else {
		fields["nextReminderTime"] = nil
		fields["nextReminderMessage"] = nil
	}
	if err := e.store.MergeSupplement(userID, id, fields); err != nil {
		e.log.Warn("persist popped supplement queue failed", zap.String("supplement", id), zap.Error(err))
	}
	if err := e.store.LogReminder(userID, "supplement", item.Name, now, delivered.Message); err != nil {
		e.log.Warn("log delivered reminder failed", zap.Error(err))
	}

	if len(rest) == 0 {
		item.Queue = nil
		item.NextReminderTime = nil
		if _, err := e.SyncSupplement(ctx, userID, *item); err != nil {
			e.log.Warn("refill after pop failed", zap.String("supplement", id), zap.Error(err))
		}
	}
	return &delivered, nil
}

// Delivered is one reminder that has come due and been popped.
type Delivered struct {
	Kind   string // "water" or "supplement"
	Source string // supplement name, empty for water
	Event  store.ReminderEvent
}

// PopDue pops every reminder whose persisted trigger time has passed.
// The UI calls this on a timer and hands the results to the notifier.
func (e *Engine) PopDue(ctx context.Context, userID string) ([]Delivered, error) {
	now := e.Now()
	var out []Delivered

	doc, err := e.store.GetWater(userID)
	if err != nil {
		return nil, err
	}
	if doc != nil && doc.NextReminderTime != nil && !doc.NextReminderTime.After(now) {
		ev, err := e.PopNextWater(ctx, userID)
		if err != nil {
			return nil, err
		}
		if ev != nil {
			out = append(out, Delivered{Kind: "water", Event: *ev})
		}
	}

	items, err := e.store.ListSupplements(userID)
	if err != nil {
		return out, err
	}
	for _, item := range items {
		if item.NextReminderTime == nil || item.NextReminderTime.After(now) {
			continue
		}
		ev, err := e.PopNextSupplement(ctx, userID, item.ID)
		if err != nil {
			return out, err
		}
		if ev != nil {
			out = append(out, Delivered{Kind: "supplement", Source: item.Name, Event: *ev})
		}
	}
	return out, nil
}
