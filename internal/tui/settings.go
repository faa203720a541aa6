package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/remindr/internal/scheduler"
	"github.com/sadopc/remindr/internal/store"
)

type settingsModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	profile *store.Profile
	water   *store.WaterDoc

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	weight      *string
	height_     *string
	age         *string
	gender      *string
	activity    *string
	mode        *string
	interval    *string
	glassSize   *string
	windowStart *string
	windowEnd   *string
}

func newSettingsModel(s *store.Store, userID string) settingsModel {
	w, h, a, g := "", "", "", "male"
	act, mode, iv, gs := "moderate", string(store.ModeSmart), "", ""
	ws, we := "", ""
	return settingsModel{
		store:       s,
		userID:      userID,
		weight:      &w,
		height_:     &h,
		age:         &a,
		gender:      &g,
		activity:    &act,
		mode:        &mode,
		interval:    &iv,
		glassSize:   &gs,
		windowStart: &ws,
		windowEnd:   &we,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	profile *store.Profile
	water   *store.WaterDoc
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		profile, _ := s.store.GetProfile(s.userID)
		water, _ := s.store.GetWater(s.userID)
		return settingsDataMsg{profile: profile, water: water}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.profile = msg.profile
		s.water = msg.water
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	profile := s.profile
	if profile == nil {
		profile = &store.Profile{}
	}
	water := s.water
	if water == nil {
		water = &store.WaterDoc{}
	}

	*s.weight = floatField(profile.Weight)
	*s.height_ = floatField(profile.Height)
	*s.age = intField(profile.Age)
	*s.gender = orDefault(profile.Gender, "male")
	*s.activity = orDefault(profile.ActivityLevel, "moderate")
	*s.mode = orDefault(string(water.Mode), string(store.ModeSmart))
	*s.interval = floatField(water.CustomIntervalHours)
	*s.glassSize = intField(water.GlassSize)
	*s.windowStart = orDefault(profile.Window.Start, "08:00")
	*s.windowEnd = orDefault(profile.Window.End, "22:00")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Weight (kg)").Value(s.weight),
			huh.NewInput().Title("Height (cm)").Value(s.height_),
			huh.NewInput().Title("Age").Value(s.age),
			huh.NewSelect[string]().Title("Gender").
				Options(
					huh.NewOption("Male", "male"),
					huh.NewOption("Female", "female"),
				).Value(s.gender),
			huh.NewSelect[string]().Title("Activity level").
				Options(
					huh.NewOption("Sedentary", "sedentary"),
					huh.NewOption("Light", "light"),
					huh.NewOption("Moderate", "moderate"),
					huh.NewOption("Active", "active"),
					huh.NewOption("Athlete", "athlete"),
				).Value(s.activity),
		).Title("Profile"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Reminder mode").
				Options(
					huh.NewOption("Smart (adaptive)", string(store.ModeSmart)),
					huh.NewOption("Custom interval", string(store.ModeCustom)),
					huh.NewOption("Off", string(store.ModeNone)),
				).Value(s.mode),
			huh.NewInput().Title("Custom interval (hours)").Value(s.interval),
			huh.NewInput().Title("Glass size (ml)").Value(s.glassSize),
		).Title("Hydration"),
		huh.NewGroup(
			huh.NewInput().Title("Window start (HH:MM)").Value(s.windowStart).
				Validate(validateClock),
			huh.NewInput().Title("Window end (HH:MM)").Value(s.windowEnd).
				Validate(validateClock),
		).Title("Reminder Window"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateClock(v string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	if _, err := scheduler.ParseTimeOfDay(v); err != nil {
		return fmt.Errorf("use HH:MM")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		return s, s.refresh()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	profileFields := map[string]any{
		"gender":        *s.gender,
		"activityLevel": *s.activity,
		"notificationWindow": store.NotificationWindow{
			Start: strings.TrimSpace(*s.windowStart),
			End:   strings.TrimSpace(*s.windowEnd),
		},
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(*s.weight), 64); err == nil && v > 0 {
		profileFields["weight"] = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(*s.height_), 64); err == nil && v > 0 {
		profileFields["height"] = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(*s.age)); err == nil && v > 0 {
		profileFields["age"] = v
	}
	s.store.MergeProfile(s.userID, profileFields)

	waterFields := map[string]any{"mode": *s.mode}
	if v, err := strconv.ParseFloat(strings.TrimSpace(*s.interval), 64); err == nil && v > 0 {
		waterFields["customIntervalHours"] = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(*s.glassSize)); err == nil && v > 0 {
		waterFields["glassSize"] = v
	}
	s.store.MergeWater(s.userID, waterFields)
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	profile := s.profile
	if profile == nil {
		profile = &store.Profile{}
	}
	water := s.water
	if water == nil {
		water = &store.WaterDoc{}
	}

	row := func(label, value string) string {
		l := lipgloss.NewStyle().Width(24).Render(label)
		return fmt.Sprintf("  %s %s", l, highlightStyle.Render(value))
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, row("Weight", orDefault(floatField(profile.Weight), "default")+" kg"))
	rows = append(rows, row("Height", orDefault(floatField(profile.Height), "default")+" cm"))
	rows = append(rows, row("Age", orDefault(intField(profile.Age), "default")))
	rows = append(rows, row("Gender", orDefault(profile.Gender, "default")))
	rows = append(rows, row("Activity level", orDefault(profile.ActivityLevel, "default")))
	rows = append(rows, row("Reminder mode", orDefault(string(water.Mode), string(store.ModeSmart))))
	if water.CustomIntervalHours > 0 {
		rows = append(rows, row("Custom interval", fmt.Sprintf("%.1f hours", water.CustomIntervalHours)))
	}
	rows = append(rows, row("Glass size", orDefault(intField(water.GlassSize), "250")+" ml"))
	rows = append(rows, row("Window", orDefault(profile.Window.Start, "08:00")+" - "+orDefault(profile.Window.End, "22:00")))
	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func floatField(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func intField(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
