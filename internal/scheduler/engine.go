// Package scheduler implements the adaptive reminder engine: it turns the
// user's daily window, consumption targets and environmental conditions
// into a time-ordered queue of future reminders, reuses that queue across
// reads via a fingerprint and throttle, and hands reminders out one at a
// time.
package scheduler

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/remindr/internal/store"
	"github.com/sadopc/remindr/internal/weather"
)

// WeatherSource is the weather collaborator. Implementations should honor
// the context deadline; the engine degrades to cached or neutral values on
// failure.
type WeatherSource interface {
	Fetch(ctx context.Context, lat, lon float64) (*weather.Snapshot, error)
}

const weatherTimeout = 10 * time.Second

// Engine wires the pure scheduling functions to the store and the weather
// collaborator. All mutable schedule state lives in the store; the engine
// itself only carries configuration.
type Engine struct {
	store    *store.Store
	weather  WeatherSource
	log      *zap.Logger
	sel      *MessageSelector
	zone     *time.Location
	lat, lon float64
	fallback Window
	nowFn    func() time.Time
}

type Option func(*Engine)

// WithClock injects the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.nowFn = now }
}

// WithRand injects the random source used for message selection.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.sel = NewMessageSelector(rng) }
}

// WithLogger sets the engine logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithCoordinates sets the location passed to the weather collaborator.
func WithCoordinates(lat, lon float64) Option {
	return func(e *Engine) { e.lat, e.lon = lat, lon }
}

// WithFallbackWindow overrides the window used when the profile has none.
func WithFallbackWindow(w Window) Option {
	return func(e *Engine) { e.fallback = w }
}

func New(s *store.Store, ws WeatherSource, zone *time.Location, opts ...Option) *Engine {
	if zone == nil {
		zone = time.Local
	}
	e := &Engine{
		store:    s,
		weather:  ws,
		log:      zap.NewNop(),
		sel:      NewMessageSelector(nil),
		zone:     zone,
		fallback: DefaultWindow,
		nowFn:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the current instant in the engine's zone.
func (e *Engine) Now() time.Time {
	return e.nowFn().In(e.zone)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func computedAt(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// userWindow resolves the profile's configured window, falling back to the
// engine default when none is set or it is malformed.
func (e *Engine) userWindow(profile *store.Profile) Window {
	if profile == nil || profile.Window.Start == "" || profile.Window.End == "" {
		return e.fallback
	}
	return ParseWindow(profile.Window)
}

// WaterStatus is one evaluation of the water schedule.
type WaterStatus struct {
	Doc      store.WaterDoc
	Demand   Demand
	Window   Window
	Weather  weather.Snapshot
	Interval time.Duration
	Rebuilt  bool
}

// SyncWater brings the water schedule up to date: midnight rollover, the
// daily weather fetch, and a queue rebuild when the recompute guard says
// the persisted one is no longer valid. Reads are cheap; the guard bounds
// how often the schedule is actually recomputed.
func (e *Engine) SyncWater(ctx context.Context, userID string) (*WaterStatus, error) {
	now := e.Now()

	profile, err := e.store.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &store.Profile{}
	}

	doc, err := e.store.GetWater(userID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = &store.WaterDoc{}
	}
	if doc.Mode == "" {
		doc.Mode = store.ModeSmart
	}
	if doc.GlassSize <= 0 {
		doc.GlassSize = DefaultGlassML
	}

	e.rollover(userID, doc, now)

	win := e.userWindow(profile)
	windowStart, windowEnd := win.Resolve(now)
	snap := e.cachedWeather(ctx, userID, doc, now)
	demand := Estimate(*profile, snap, doc.Intake, doc.GlassSize)

	status := &WaterStatus{Doc: *doc, Demand: demand, Window: win, Weather: snap}

	if doc.Mode == store.ModeNone {
		if len(doc.Queue) > 0 || doc.NextReminderTime != nil {
			e.persistWaterQueue(userID, nil, "", now, demand, doc)
			status.Doc = *doc
		}
		return status, nil
	}

	var interval time.Duration
	if doc.Mode == store.ModeCustom {
		interval = CustomInterval(doc.CustomIntervalHours)
	} else {
		interval = SmartInterval(now, windowStart, windowEnd, demand.EventCount)
	}
	status.Interval = interval

	fp := WaterFingerprint(doc.Intake, doc.Mode, profile.ActivityLevel, win)
	state := State{Queue: doc.Queue, Fingerprint: doc.Fingerprint, ComputedAt: computedAt(doc.LastComputedAt)}

	if ShouldRebuild(state, fp, now) {
		queue := BuildWaterSchedule(now, windowStart, windowEnd, interval, &snap, e.sel.Pick)
		e.persistWaterQueue(userID, queue, fp, now, demand, doc)
		status.Doc = *doc
		status.Rebuilt = true
	}
	return status, nil
}

// persistWaterQueue merge-writes the rebuilt schedule and mirrors it onto
// doc. A store failure is logged and the in-memory result stands, so a
// flaky disk never blocks reminder delivery.
func (e *Engine) persistWaterQueue(userID string, queue []store.ReminderEvent, fp string, now time.Time, demand Demand, doc *store.WaterDoc) {
	fields := map[string]any{
		"mode":                   doc.Mode,
		"dailyTarget":            demand.DailyTarget,
		"glassSize":              doc.GlassSize,
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
	if err := e.store.MergeWater(userID, fields); err != nil {
		e.log.Warn("persist water schedule failed", zap.String("user", userID), zap.Error(err))
	}

	doc.DailyTarget = demand.DailyTarget
	doc.Queue = queue
	doc.Fingerprint = fp
	doc.LastComputedAt = &now
	if len(queue) > 0 {
		doc.NextReminderTime = &queue[0].Time
		doc.NextReminderMessage = queue[0].Message
	} else {
		doc.NextReminderTime = nil
		doc.NextReminderMessage = ""
	}
}

// PeekNextWater returns the upcoming water reminder without consuming it.
func (e *Engine) PeekNextWater(ctx context.Context, userID string) (*store.ReminderEvent, error) {
	status, err := e.SyncWater(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Head(PruneStale(status.Doc.Queue, e.Now())), nil
}

// PopNextWater removes the delivered head of the water queue, refilling
// the schedule for the remainder of the cycle when the queue runs dry.
// The popped event is recorded on the reminder log.
func (e *Engine) PopNextWater(ctx context.Context, userID string) (*store.ReminderEvent, error) {
	now := e.Now()
	doc, err := e.store.GetWater(userID)
	if err != nil {
		return nil, err
	}
	if doc == nil || len(doc.Queue) == 0 {
		// Nothing to deliver; make sure a schedule exists for next time.
		if _, err := e.SyncWater(ctx, userID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	delivered := doc.Queue[0]
	rest := PruneStale(doc.Queue[1:], now)

	fields := map[string]any{"queue": rest}
	if len(rest) > 0 {
		fields["nextReminderTime"] = rest[0].Time
		fields["nextReminderMessage"] = rest[0].Message
	} else {
		fields["nextReminderTime"] = nil
		fields["nextReminderMessage"] = nil
	}
	if err := e.store.MergeWater(userID, fields); err != nil {
		e.log.Warn("persist popped water queue failed", zap.String("user", userID), zap.Error(err))
	}
	if err := e.store.LogReminder(userID, "water", "", now, delivered.Message); err != nil {
		e.log.Warn("log delivered reminder failed", zap.Error(err))
	}

	if len(rest) == 0 {
		// Queue exhausted: the guard will rebuild for the rest of the day.
		if _, err := e.SyncWater(ctx, userID); err != nil {
			e.log.Warn("refill after pop failed", zap.String("user", userID), zap.Error(err))
		}
	}
	return &delivered, nil
}

// rollover archives yesterday's intake and zeroes the daily counters the
// first time the engine runs on a new calendar date. Guarded by
// lastResetDate so repeated evaluations are idempotent.
func (e *Engine) rollover(userID string, doc *store.WaterDoc, now time.Time) {
	today := dateKey(now)
	if doc.LastResetDate == today {
		return
	}

	fields := map[string]any{"waterIntake": 0, "lastResetDate": today}
	if doc.LastResetDate != "" {
		if err := e.store.ArchiveIntake(userID, doc.LastResetDate, doc.Intake, doc.DailyTarget); err != nil {
			e.log.Warn("archive intake failed", zap.String("user", userID), zap.Error(err))
		}
		fields["yesterdayWaterIntake"] = doc.Intake
		doc.YesterdayIntake = doc.Intake

		supps, err := e.store.ListSupplements(userID)
		if err != nil {
			e.log.Warn("list supplements for rollover failed", zap.Error(err))
		}
		for _, supp := range supps {
			if supp.ConsumedToday == 0 {
				continue
			}
			if err := e.store.MergeSupplement(userID, supp.ID, map[string]any{"consumedToday": 0}); err != nil {
				e.log.Warn("reset supplement consumption failed", zap.String("supplement", supp.ID), zap.Error(err))
			}
		}
	}

	if err := e.store.MergeWater(userID, fields); err != nil {
		e.log.Warn("midnight rollover write failed", zap.String("user", userID), zap.Error(err))
		return
	}
	doc.Intake = 0
	doc.LastResetDate = today
	e.log.Info("midnight rollover complete", zap.String("user", userID), zap.String("date", today))
}

// cachedWeather returns today's snapshot, fetching from the collaborator
// at most once per calendar date per user. Failures degrade to the last
// cached snapshot, then to neutral values.
func (e *Engine) cachedWeather(ctx context.Context, userID string, doc *store.WaterDoc, now time.Time) weather.Snapshot {
	today := dateKey(now)
	if doc.Weather != nil && doc.Weather.Date == today {
		return *doc.Weather
	}

	if e.weather != nil {
		fctx, cancel := context.WithTimeout(ctx, weatherTimeout)
		defer cancel()
		snap, err := e.weather.Fetch(fctx, e.lat, e.lon)
		if err == nil && snap != nil {
			snap.Date = today
			if err := e.store.MergeWater(userID, map[string]any{"dailyWeatherAverages": snap}); err != nil {
				e.log.Warn("cache weather snapshot failed", zap.Error(err))
			}
			doc.Weather = snap
			return *snap
		}
		e.log.Warn("weather fetch failed, using fallback", zap.Error(err))
	}

	if doc.Weather != nil {
		return *doc.Weather
	}
	return weather.Neutral()
}
