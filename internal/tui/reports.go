package tui

import (
	"fmt"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hyunsol/croquis/internal/store"
)

type reportMode int

const (
	reportWeek reportMode = iota
	reportMonth
)

type reportsModel struct {
	store  *store.Store
	width  int
	height int

	mode    reportMode
	heatmap map[string]int
	offset  int // windows back from today (0 = current)

	chart barchart.Model
}

func newReportsModel(s *store.Store) reportsModel {
	return reportsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	heatmap map[string]int
}

func (r reportsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return reportsDataMsg{heatmap: r.store.Heatmap()}
	}
}

func (r reportsModel) windowDays() int {
	if r.mode == reportMonth {
		return 30
	}
	return 7
}

func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	days := r.windowDays()
	end := today.AddDate(0, 0, 1-days*r.offset)
	return end.AddDate(0, 0, -days), end
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.heatmap = msg.heatmap
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			r.buildChart()
			return r, nil
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			r.buildChart()
			return r, nil
		case msg.String() == "t":
			if r.mode == reportWeek {
				r.mode = reportMonth
			} else {
				r.mode = reportWeek
			}
			r.offset = 0
			r.buildChart()
			return r, nil
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()
	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	emptyStyle := lipgloss.NewStyle().Foreground(colorSubtle)

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		count := r.heatmap[d.Format("2006-01-02")]
		label := d.Format("02")
		if r.mode == reportWeek {
			label = d.Format("Mon 02")
		}

		style := barStyle
		if count == 0 {
			style = emptyStyle
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: "croquis", Value: float64(count), Style: style},
			},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	weekTab := inactiveTabStyle.Render("Week")
	monthTab := inactiveTabStyle.Render("Month")
	if r.mode == reportWeek {
		weekTab = activeTabStyle.Render("Week")
	} else {
		monthTab = activeTabStyle.Render("Month")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, weekTab, monthTab)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	total := 0
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		total += r.heatmap[d.Format("2006-01-02")]
	}
	summary := fmt.Sprintf("%s %s in this window",
		highlightStyle.Render(fmt.Sprintf("%d", total)), mutedStyle.Render("croquis"))

	nav := mutedStyle.Render("  ←/→: navigate  t: week/month")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", summary, "", nav,
		),
	)
}
