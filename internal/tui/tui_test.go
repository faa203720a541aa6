package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/remindr/internal/scheduler"
	"github.com/sadopc/remindr/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestEngine(t *testing.T, s *store.Store) *scheduler.Engine {
	t.Helper()
	return scheduler.New(s, nil, time.UTC)
}

// ============================================================
// Helpers
// ============================================================

func TestFormatML(t *testing.T) {
	cases := []struct {
		ml   int
		want string
	}{
		{0, "0ml"},
		{250, "250ml"},
		{999, "999ml"},
		{1000, "1.0L"},
		{2500, "2.5L"},
	}
	for _, c := range cases {
		if got := formatML(c.ml); got != c.want {
			t.Errorf("formatML(%d) = %q, want %q", c.ml, got, c.want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "now"},
		{0, "now"},
		{45 * time.Second, "45s"},
		{5*time.Minute + 30*time.Second, "5m 30s"},
		{2*time.Hour + 5*time.Minute, "2h 05m"},
	}
	for _, c := range cases {
		if got := formatCountdown(c.d); got != c.want {
			t.Errorf("formatCountdown(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("got %d view names", len(viewNames))
	}
	if viewNames[viewDashboard] != "Dashboard" || viewNames[viewSettings] != "Settings" {
		t.Fatalf("names = %v", viewNames)
	}
}

// ============================================================
// App
// ============================================================

func TestAppTabSwitching(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, newTestEngine(t, s), nil, "u1")

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	app = model.(App)
	if app.activeView != viewSupplements {
		t.Fatalf("view = %v", app.activeView)
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewHistory {
		t.Fatalf("view = %v", app.activeView)
	}
}

func TestAppExportPicker(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, newTestEngine(t, s), nil, "u1")

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("export picker not shown")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(App)
	if app.exportPicking {
		t.Fatal("escape should dismiss the picker")
	}
}

func TestAppQuit(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, newTestEngine(t, s), nil, "u1")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestAppViewBeforeSize(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, newTestEngine(t, s), nil, "u1")

	if app.View() != "Loading..." {
		t.Fatal("zero-width view should render the loading placeholder")
	}
}

func TestAppRendersAfterResize(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, newTestEngine(t, s), nil, "u1")

	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app = model.(App)
	if app.View() == "" {
		t.Fatal("empty view")
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestDashboardSyncMessage(t *testing.T) {
	s := newTestStore(t)
	engine := newTestEngine(t, s)
	d := newDashboardModel(s, engine, "u1")

	cmd := d.refresh()
	msg := cmd()
	synced, ok := msg.(waterSyncedMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	d, _ = d.update(synced)
	if d.status == nil {
		t.Fatal("status not stored")
	}
	if d.nextReminder() == nil {
		t.Fatal("no next reminder after first sync")
	}
}

func TestDashboardLogGlass(t *testing.T) {
	s := newTestStore(t)
	engine := newTestEngine(t, s)
	d := newDashboardModel(s, engine, "u1")

	msg := d.refresh()()
	d, _ = d.update(msg)

	msg = d.logGlass(1)()
	synced, ok := msg.(waterSyncedMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if synced.status.Doc.Intake != scheduler.DefaultGlassML {
		t.Fatalf("intake = %d", synced.status.Doc.Intake)
	}

	// Undo brings it back down
	msg = d.logGlass(-1)()
	synced = msg.(waterSyncedMsg)
	if synced.status.Doc.Intake != 0 {
		t.Fatalf("intake = %d", synced.status.Doc.Intake)
	}
}

// ============================================================
// Supplements view
// ============================================================

func TestSupplementsRefreshAndTake(t *testing.T) {
	s := newTestStore(t)
	engine := newTestEngine(t, s)
	m := newSupplementsModel(s, engine, "u1")

	if _, err := s.CreateSupplement("u1", "Iron", 30, 1, nil); err != nil {
		t.Fatal(err)
	}

	msg := m.refresh()()
	data, ok := msg.(supplementsDataMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	m, _ = m.update(data)
	if len(m.items) != 1 {
		t.Fatalf("items = %+v", m.items)
	}

	msg = m.takeSelected()()
	data, ok = msg.(supplementsDataMsg)
	if !ok {
		t.Fatalf("msg = %T", msg)
	}
	if data.items[0].ConsumedToday != 1 || data.items[0].Quantity != 29 {
		t.Fatalf("item = %+v", data.items[0])
	}
}

func TestDaysRemaining(t *testing.T) {
	if got := daysRemaining(store.Supplement{Quantity: 30, DailyUsage: 1}); got != "30 days" {
		t.Fatalf("got %q", got)
	}
	if got := daysRemaining(store.Supplement{Quantity: 10, DailyUsage: 0}); got != "no daily usage" {
		t.Fatalf("got %q", got)
	}
}

// ============================================================
// Settings view
// ============================================================

func TestSettingsFieldHelpers(t *testing.T) {
	if floatField(0) != "" || floatField(80.5) != "80.5" {
		t.Fatal("floatField")
	}
	if intField(0) != "" || intField(250) != "250" {
		t.Fatal("intField")
	}
	if orDefault("", "x") != "x" || orDefault("y", "x") != "y" {
		t.Fatal("orDefault")
	}
}

func TestSettingsSave(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s, "u1")

	*m.weight = "82"
	*m.age = "35"
	*m.gender = "female"
	*m.activity = "active"
	*m.mode = string(store.ModeCustom)
	*m.interval = "2"
	*m.glassSize = "300"
	*m.windowStart = "07:00"
	*m.windowEnd = "21:00"
	m.saveSettings()

	p, err := s.GetProfile("u1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Weight != 82 || p.Gender != "female" || p.ActivityLevel != "active" {
		t.Fatalf("profile = %+v", p)
	}
	if p.Window.Start != "07:00" || p.Window.End != "21:00" {
		t.Fatalf("window = %+v", p.Window)
	}

	w, err := s.GetWater("u1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Mode != store.ModeCustom || w.CustomIntervalHours != 2 || w.GlassSize != 300 {
		t.Fatalf("water = %+v", w)
	}
}
