package tui

import (
	"context"
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

type supplementsModel struct {
	store  *store.Store
	engine *scheduler.Engine
	userID string
	width  int
	height int

	items  []store.Supplement
	cursor int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formName     *string
	formQuantity *string
	formDaily    *string
	formSchedule *string
}

func newSupplementsModel(s *store.Store, engine *scheduler.Engine, userID string) supplementsModel {
	name, qty, daily, sched := "", "", "1", ""
	return supplementsModel{
		store:        s,
		engine:       engine,
		userID:       userID,
		formName:     &name,
		formQuantity: &qty,
		formDaily:    &daily,
		formSchedule: &sched,
	}
}

func (m *supplementsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m supplementsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		// Sync first so queues and next-reminder fields are current.
		if _, err := m.engine.SyncSupplements(context.Background(), m.userID); err != nil {
			return statusMsg{text: fmt.Sprintf("Sync error: %v", err), isError: true}
		}
		items, err := m.store.ListSupplements(m.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return supplementsDataMsg{items: items}
	}
}

func (m supplementsModel) update(msg tea.Msg) (supplementsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case supplementsDataMsg:
		m.items = msg.items
		if m.cursor >= len(m.items) {
			m.cursor = max(0, len(m.items)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showForm()
		case key.Matches(msg, keys.Take):
			return m, m.takeSelected()
		case key.Matches(msg, keys.Delete):
			return m, m.deleteSelected()
		}
	}
	return m, nil
}

func (m supplementsModel) takeSelected() tea.Cmd {
	if m.cursor >= len(m.items) {
		return nil
	}
	item := m.items[m.cursor]
	return func() tea.Msg {
		updated, err := m.store.TakeSupplement(m.userID, item.ID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		// Consumption changes the fingerprint; resync immediately.
		if _, err := m.engine.SyncSupplement(context.Background(), m.userID, *updated); err != nil {
			return statusMsg{text: fmt.Sprintf("Sync error: %v", err), isError: true}
		}
		items, _ := m.store.ListSupplements(m.userID)
		return supplementsDataMsg{items: items}
	}
}

func (m supplementsModel) deleteSelected() tea.Cmd {
	if m.cursor >= len(m.items) {
		return nil
	}
	item := m.items[m.cursor]
	return func() tea.Msg {
		if err := m.store.DeleteSupplement(m.userID, item.ID); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		items, _ := m.store.ListSupplements(m.userID)
		return supplementsDataMsg{items: items}
	}
}

func (m supplementsModel) showForm() (supplementsModel, tea.Cmd) {
	*m.formName = ""
	*m.formQuantity = ""
	*m.formDaily = "1"
	*m.formSchedule = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().Title("Units on hand").Value(m.formQuantity),
			huh.NewInput().Title("Units per day").Value(m.formDaily),
			huh.NewInput().Title("Reminder times (HH:MM, comma separated, optional)").Value(m.formSchedule),
		).Title("New Supplement"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m supplementsModel) updateForm(msg tea.Msg) (supplementsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.createSupplement()
	}

	return m, cmd
}

func (m supplementsModel) createSupplement() tea.Cmd {
	name := strings.TrimSpace(*m.formName)
	quantity, _ := strconv.ParseFloat(strings.TrimSpace(*m.formQuantity), 64)
	daily, _ := strconv.ParseFloat(strings.TrimSpace(*m.formDaily), 64)
	if daily <= 0 {
		daily = 1
	}

	var schedule []string
	for _, part := range strings.Split(*m.formSchedule, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := scheduler.ParseTimeOfDay(part); err != nil {
			continue
		}
		schedule = append(schedule, part)
	}

	return func() tea.Msg {
		item, err := m.store.CreateSupplement(m.userID, name, quantity, daily, schedule)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		if _, err := m.engine.SyncSupplement(context.Background(), m.userID, *item); err != nil {
			return statusMsg{text: fmt.Sprintf("Sync error: %v", err), isError: true}
		}
		items, _ := m.store.ListSupplements(m.userID)
		return supplementsDataMsg{items: items}
	}
}

func (m supplementsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Supplements")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Supplements")
	if len(m.items) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No supplements tracked. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, item := range m.items {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		days := daysRemaining(item)
		supply := fmt.Sprintf("%.0f left (%s)", item.Quantity, days)
		taken := ""
		if item.ConsumedToday >= item.DailyUsage && item.DailyUsage > 0 {
			taken = successStyle.Render("  ✓ taken")
		}
		next := ""
		if item.NextReminderTime != nil {
			next = mutedStyle.Render("  next " + formatClock(*item.NextReminderTime))
		}

		rows = append(rows, style.Render(fmt.Sprintf("%s%-20s %s", cursor, item.Name, supply))+taken+next)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  t: take dose  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func daysRemaining(item store.Supplement) string {
	if item.DailyUsage <= 0 {
		return "no daily usage"
	}
	days := int(item.Quantity / item.DailyUsage)
	switch {
	case days <= 0:
		return errorStyle.Render("out")
	case days <= 3:
		return warningStyle.Render(fmt.Sprintf("%d days", days))
	default:
		return fmt.Sprintf("%d days", days)
	}
}
