package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/remindr/internal/scheduler"
	"github.com/sadopc/remindr/internal/store"
)

const deliveredLogLimit = 10

type remindersModel struct {
	store  *store.Store
	engine *scheduler.Engine
	userID string
	width  int
	height int

	water       []store.ReminderEvent
	supplements []supplementQueue
	delivered   []store.ReminderRecord
}

func newRemindersModel(s *store.Store, engine *scheduler.Engine, userID string) remindersModel {
	return remindersModel{
		store:  s,
		engine: engine,
		userID: userID,
	}
}

func (r *remindersModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r remindersModel) refresh() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		status, err := r.engine.SyncWater(ctx, r.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Sync error: %v", err), isError: true}
		}

		statuses, err := r.engine.SyncSupplements(ctx, r.userID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Sync error: %v", err), isError: true}
		}
		var supps []supplementQueue
		for _, s := range statuses {
			if len(s.Item.Queue) == 0 {
				continue
			}
			supps = append(supps, supplementQueue{name: s.Item.Name, queue: s.Item.Queue})
		}

		delivered, _ := r.store.ListReminderLog(r.userID, deliveredLogLimit)

		return remindersDataMsg{
			water:       status.Doc.Queue,
			supplements: supps,
			delivered:   delivered,
		}
	}
}

func (r remindersModel) update(msg tea.Msg) (remindersModel, tea.Cmd) {
	if msg, ok := msg.(remindersDataMsg); ok {
		r.water = msg.water
		r.supplements = msg.supplements
		r.delivered = msg.delivered
	}
	return r, nil
}

func (r remindersModel) view() string {
	w := r.width - 4

	upcoming := r.renderUpcoming(w)
	log := r.renderDelivered(w)

	return lipgloss.JoinVertical(lipgloss.Left, upcoming, log)
}

func (r remindersModel) renderUpcoming(w int) string {
	title := titleStyle.Render("Upcoming")

	var rows []string
	rows = append(rows, title)

	if len(r.water) == 0 && len(r.supplements) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing scheduled."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	if len(r.water) > 0 {
		rows = append(rows, highlightStyle.Render("  Water"))
		for _, ev := range r.water {
			rows = append(rows, fmt.Sprintf("    %s  %s", formatClock(ev.Time), ev.Message))
		}
	}

	for _, s := range r.supplements {
		rows = append(rows, highlightStyle.Render("  "+s.name))
		for _, ev := range s.queue {
			rows = append(rows, fmt.Sprintf("    %s  %s", formatClock(ev.Time), ev.Message))
		}
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (r remindersModel) renderDelivered(w int) string {
	title := titleStyle.Render("Recently Delivered")

	var rows []string
	rows = append(rows, title)

	if len(r.delivered) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing delivered yet."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	for _, rec := range r.delivered {
		label := "water"
		if rec.Kind == "supplement" {
			label = rec.Source
		}
		rows = append(rows, fmt.Sprintf("  %s  %-14s %s",
			mutedStyle.Render(rec.FiredAt.Local().Format("Jan 02 15:04")),
			accentStyle.Render(label),
			rec.Message,
		))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
