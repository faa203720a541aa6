package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/remindr/internal/export"
	"github.com/sadopc/remindr/internal/notify"
	"github.com/sadopc/remindr/internal/scheduler"
	"github.com/sadopc/remindr/internal/store"
)

const reminderPollInterval = 30 * time.Second

// App is the root Bubble Tea model.
type App struct {
	store    *store.Store
	engine   *scheduler.Engine
	notifier notify.Notifier
	userID   string
	width    int
	height   int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard   dashboardModel
	supplements supplementsModel
	history     historyModel
	reminders   remindersModel
	settings    settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, engine *scheduler.Engine, notifier notify.Notifier, userID string) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:       s,
		engine:      engine,
		notifier:    notifier,
		userID:      userID,
		activeView:  viewDashboard,
		dashboard:   newDashboardModel(s, engine, userID),
		supplements: newSupplementsModel(s, engine, userID),
		history:     newHistoryModel(s, userID),
		reminders:   newRemindersModel(s, engine, userID),
		settings:    newSettingsModel(s, userID),
		help:        h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		tickCmd(),
		reminderTickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func reminderTickCmd() tea.Cmd {
	return tea.Tick(reminderPollInterval, func(t time.Time) tea.Msg {
		return reminderTickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.supplements.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.reminders.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewSupplements
			return a, a.supplements.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewHistory
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewReminders
			return a, a.reminders.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 5
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Route ticks to the dashboard countdown
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case reminderTickMsg:
		return a, tea.Batch(reminderTickCmd(), a.popDue())

	case deliveredMsg:
		for _, d := range msg.reminders {
			title := "Time to hydrate"
			if d.Kind == "supplement" {
				title = d.Source
			}
			if a.notifier != nil {
				a.notifier.Deliver(title, d.Event.Message, d.Event.Time)
			}
		}
		if len(msg.reminders) > 0 {
			a.status = msg.reminders[len(msg.reminders)-1].Event.Message
			return a, tea.Batch(a.dashboard.refresh(), a.reminders.refresh())
		}
		return a, nil

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// popDue drains every reminder whose trigger time has passed.
func (a App) popDue() tea.Cmd {
	return func() tea.Msg {
		delivered, err := a.engine.PopDue(context.Background(), a.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Reminder error: %v", err), isError: true}
		}
		return deliveredMsg{reminders: delivered}
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewSupplements:
		a.supplements, cmd = a.supplements.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewReminders:
		a.reminders, cmd = a.reminders.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewSupplements:
		return a.supplements.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.refresh()
	case viewSupplements:
		return a.supplements.refresh()
	case viewHistory:
		return a.history.refresh()
	case viewReminders:
		return a.reminders.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewSupplements:
		content = a.supplements.view()
	case viewHistory:
		content = a.history.view()
	case viewReminders:
		content = a.reminders.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker(contentHeight)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("remindr")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Next reminder indicator in footer
	nextInfo := ""
	if next := a.dashboard.nextReminder(); next != nil {
		until := time.Until(next.Time)
		if until <= 0 {
			nextInfo = successStyle.Render(" ● due now")
		} else {
			nextInfo = highlightStyle.Render(" ● " + formatCountdown(until))
		}
	}

	left := footerStyle.Render(helpView)
	right := nextInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker(_ int) string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		history, err := a.store.ListHistory(a.userID, 0)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("remindr-export-%s.csv", dateStr))
			if err := export.ToCSV(history, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			reminders, _ := a.store.ListReminderLog(a.userID, 0)
			path = filepath.Join(home, fmt.Sprintf("remindr-export-%s.json", dateStr))
			if err := export.ToJSON(history, reminders, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
