package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/remindr/internal/store"
)

const historyDays = 14

type historyModel struct {
	store  *store.Store
	userID string
	width  int
	height int

	records []store.IntakeRecord
	offset  int // 14-day blocks back from today (0 = current)

	chart barchart.Model
}

func newHistoryModel(s *store.Store, userID string) historyModel {
	return historyModel{
		store:  s,
		userID: userID,
		chart:  barchart.New(60, 12),
	}
}

func (h *historyModel) setSize(w, height int) {
	h.width = w
	h.height = height
}

func (h historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		records, _ := h.store.ListHistory(h.userID, 0)
		return historyDataMsg{records: records}
	}
}

func (h historyModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	end := today.AddDate(0, 0, 1-historyDays*h.offset)
	start := end.AddDate(0, 0, -historyDays)
	return start, end
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.records = msg.records
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			h.buildChart()
			return h, nil
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			h.buildChart()
			return h, nil
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if h.height > 30 {
		chartHeight = 16
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	byDate := make(map[string]store.IntakeRecord, len(h.records))
	for _, rec := range h.records {
		byDate[rec.Date] = rec
	}

	from, to := h.dateRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		label := d.Format("02")

		value := barchart.BarValue{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}
		if rec, ok := byDate[dateStr]; ok {
			liters := float64(rec.IntakeML) / 1000
			style := lipgloss.NewStyle().Foreground(colorPrimary)
			if rec.TargetML > 0 && rec.IntakeML >= rec.TargetML {
				style = lipgloss.NewStyle().Foreground(colorSuccess)
			}
			value = barchart.BarValue{Name: rec.Date, Value: liters, Style: style}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{value},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4

	from, to := h.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s",
		from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Intake History"), "  ", dateLabel,
	)

	chartView := h.chart.View()
	tableView := h.renderTable(w)
	nav := mutedStyle.Render("  ←/→: navigate  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", tableView, "", nav,
		),
	)
}

func (h historyModel) renderTable(w int) string {
	from, to := h.dateRange()

	var inRange []store.IntakeRecord
	for _, rec := range h.records {
		if rec.Date >= from.Format("2006-01-02") && rec.Date < to.Format("2006-01-02") {
			inRange = append(inRange, rec)
		}
	}
	if len(inRange) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s %8s", "Date", "Intake", "Target", "Done"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))

	for _, rec := range inRange {
		done := ""
		if rec.TargetML > 0 {
			pct := float64(rec.IntakeML) / float64(rec.TargetML) * 100
			done = fmt.Sprintf("%.0f%%", pct)
			if rec.IntakeML >= rec.TargetML {
				done = successStyle.Render(done)
			}
		}
		rows = append(rows, fmt.Sprintf("  %-12s %10s %10s %8s",
			rec.Date, formatML(rec.IntakeML), formatML(rec.TargetML), done,
		))
	}

	return strings.Join(rows, "\n")
}
