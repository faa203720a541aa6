package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/remindr/internal/scheduler"
	"github.com/sadopc/remindr/internal/store"
)

type dashboardModel struct {
	store  *store.Store
	engine *scheduler.Engine
	userID string
	width  int
	height int

	status *scheduler.WaterStatus
	now    time.Time
}

func newDashboardModel(s *store.Store, engine *scheduler.Engine, userID string) dashboardModel {
	return dashboardModel{
		store:  s,
		engine: engine,
		userID: userID,
		now:    time.Now(),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.refresh()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

// nextReminder is shown in the footer regardless of the active view.
func (d dashboardModel) nextReminder() *store.ReminderEvent {
	if d.status == nil {
		return nil
	}
	if d.status.Doc.NextReminderTime == nil {
		return nil
	}
	return &store.ReminderEvent{
		Time:    *d.status.Doc.NextReminderTime,
		Message: d.status.Doc.NextReminderMessage,
	}
}

func (d dashboardModel) refresh() tea.Cmd {
	return func() tea.Msg {
		status, err := d.engine.SyncWater(context.Background(), d.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Sync error: %v", err), isError: true}
		}
		return waterSyncedMsg{status: status}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case waterSyncedMsg:
		d.status = msg.status
		return d, nil

	case tickMsg:
		d.now = time.Time(msg)
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Drink):
			return d, d.logGlass(1)
		case key.Matches(msg, keys.Undo):
			return d, d.logGlass(-1)
		}
	}
	return d, nil
}

// logGlass adds (or removes) one glass and recomputes the schedule, since
// intake is part of the recompute trigger.
func (d dashboardModel) logGlass(sign int) tea.Cmd {
	glass := scheduler.DefaultGlassML
	if d.status != nil && d.status.Doc.GlassSize > 0 {
		glass = d.status.Doc.GlassSize
	}
	return func() tea.Msg {
		if _, err := d.store.AddWater(d.userID, sign*glass); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		status, err := d.engine.SyncWater(context.Background(), d.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Sync error: %v", err), isError: true}
		}
		return waterSyncedMsg{status: status}
	}
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	if d.status == nil {
		return mutedStyle.Render("Loading...")
	}

	contentWidth := d.width - 4

	progressPanel := d.renderProgressPanel(contentWidth)
	reminderPanel := d.renderReminderPanel(contentWidth)
	weatherPanel := d.renderWeatherPanel(contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left, progressPanel, reminderPanel, weatherPanel)
}

func (d dashboardModel) renderProgressPanel(w int) string {
	doc := d.status.Doc
	target := d.status.Demand.DailyTarget
	intake := doc.Intake

	pct := 0.0
	if target > 0 {
		pct = float64(intake) / float64(target)
	}
	if pct > 1 {
		pct = 1
	}

	barWidth := w - 8
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(pct * float64(barWidth))
	bar := successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barWidth-filled))

	title := titleStyle.Render("Today's Hydration")
	amounts := fmt.Sprintf("%s / %s  (%.0f%%)", formatML(intake), formatML(target), pct*100)
	remaining := mutedStyle.Render(fmt.Sprintf("%s to go, about %d glasses",
		formatML(d.status.Demand.Remaining), d.status.Demand.EventCount))
	if d.status.Demand.Remaining <= 0 {
		remaining = successStyle.Render("Daily goal reached!")
	}

	yesterday := ""
	if doc.YesterdayIntake > 0 {
		yesterday = mutedStyle.Render("Yesterday: " + formatML(doc.YesterdayIntake))
	}

	rows := []string{title, "", bar, highlightStyle.Render(amounts), remaining}
	if yesterday != "" {
		rows = append(rows, yesterday)
	}
	rows = append(rows, "", mutedStyle.Render("g: log a glass  u: undo"))

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (d dashboardModel) renderReminderPanel(w int) string {
	doc := d.status.Doc
	title := titleStyle.Render("Next Reminder")

	if doc.Mode == store.ModeNone {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("Reminders are off. Enable them in Settings."),
		)
		return panelStyle.Width(w).Render(content)
	}

	if doc.NextReminderTime == nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("Nothing scheduled for the rest of today."),
		)
		return panelStyle.Width(w).Render(content)
	}

	until := doc.NextReminderTime.Sub(d.now)
	var countdown string
	if until <= 0 {
		countdown = countdownDueStyle.Width(w - 6).Render("due now")
	} else {
		countdown = countdownStyle.Width(w - 6).Render(formatCountdown(until))
	}

	at := mutedStyle.Render("at " + formatClock(*doc.NextReminderTime))
	message := normalItemStyle.Render(doc.NextReminderMessage)
	queueInfo := mutedStyle.Render(fmt.Sprintf("%d reminders queued  window %s  mode %s",
		len(doc.Queue), d.status.Window.String(), doc.Mode))

	content := lipgloss.JoinVertical(lipgloss.Center, countdown, at, message, "", queueInfo)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderWeatherPanel(w int) string {
	snap := d.status.Weather
	title := titleStyle.Render("Conditions")

	temp := fmt.Sprintf("%.1f°C", snap.Temperature)
	if snap.ApparentTemperature != 0 && snap.ApparentTemperature != snap.Temperature {
		temp += mutedStyle.Render(fmt.Sprintf(" (feels %.1f°C)", snap.ApparentTemperature))
	}

	row := fmt.Sprintf("  %s  humidity %.0f%%  wind %.0f km/h  UV %.1f",
		temp, snap.Humidity, snap.WindSpeed, snap.UVIndex)

	source := mutedStyle.Render("  neutral defaults (no weather data)")
	if snap.Date != "" {
		source = mutedStyle.Render("  daily averages for " + snap.Date)
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, row, source))
}
