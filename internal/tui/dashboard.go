package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hyunsol/croquis/internal/session"
	"github.com/hyunsol/croquis/internal/store"
)

const heatmapWeeks = 12

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	today   int
	total   int
	heatmap map[string]int
	recent  []string

	cursor int

	// Tag picker shown between choosing a deck and starting the session.
	picking     bool
	pickerDeck  *store.Deck
	pickerPath  string
	pickerTags  []string
	pickerOn    map[string]bool
	pickerIndex int
}

func newDashboardModel(s *store.Store) dashboardModel {
	return dashboardModel{store: s}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	today   int
	total   int
	heatmap map[string]int
	recent  []string
}

type deckLoadedMsg struct {
	path string
	deck *store.Deck
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		return dashboardDataMsg{
			today:   d.store.TodayCount(),
			total:   d.store.TotalCount(),
			heatmap: d.store.Heatmap(),
			recent:  d.store.RecentFiles(),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.today = msg.today
		d.total = msg.total
		d.heatmap = msg.heatmap
		d.recent = msg.recent
		if d.cursor >= len(d.recent) {
			d.cursor = max(0, len(d.recent)-1)
		}
		return d, nil

	case deckLoadedMsg:
		d.picking = true
		d.pickerDeck = msg.deck
		d.pickerPath = msg.path
		d.pickerTags = msg.deck.Tags()
		d.pickerOn = make(map[string]bool)
		d.pickerIndex = 0
		return d, nil

	case tea.KeyMsg:
		if d.picking {
			return d.updatePicker(msg)
		}
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.recent)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Start):
			if len(d.recent) > 0 {
				return d, d.openDeck(d.recent[d.cursor])
			}
			return d, status("No recent decks. Open one from the Decks view first.", true)
		case key.Matches(msg, keys.Delete):
			if len(d.recent) > 0 {
				d.store.RemoveRecentFile(d.recent[d.cursor])
				return d, d.loadData()
			}
		case msg.String() == "c":
			if len(d.recent) > 0 {
				d.store.ClearRecentFiles()
				return d, d.loadData()
			}
		}
	}
	return d, nil
}

func (d dashboardModel) openDeck(path string) tea.Cmd {
	return func() tea.Msg {
		deck, err := d.store.LoadDeck(path)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Cannot open %s: %v", filepath.Base(path), err), isError: true}
		}
		d.store.AddRecentFile(path)
		return deckLoadedMsg{path: path, deck: deck}
	}
}

func (d dashboardModel) updatePicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.pickerIndex > 0 {
			d.pickerIndex--
		}
	case key.Matches(msg, keys.Down):
		if d.pickerIndex < len(d.pickerTags)-1 {
			d.pickerIndex++
		}
	case msg.String() == " ":
		if len(d.pickerTags) > 0 {
			t := d.pickerTags[d.pickerIndex]
			d.pickerOn[t] = !d.pickerOn[t]
			if !d.pickerOn[t] {
				delete(d.pickerOn, t)
			}
		}
	case key.Matches(msg, keys.Enter):
		d.picking = false
		return d, d.startSession()
	case key.Matches(msg, keys.Back):
		d.picking = false
		d.pickerDeck = nil
	}
	return d, nil
}

func (d dashboardModel) startSession() tea.Cmd {
	deck, path, enabled := d.pickerDeck, d.pickerPath, d.pickerOn
	cfg := d.store.Settings()
	return func() tea.Msg {
		images := store.FilterByTags(deck.Images, enabled)
		sess, err := session.New(images, session.Config{
			DurationSeconds: cfg.TimeSeconds,
			StudyMode:       cfg.StudyMode,
		})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Cannot start: %v", err), isError: true}
		}
		return sessionStartedMsg{sess: sess, deckPath: path}
	}
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	contentWidth := d.width - 4

	countsPanel := d.renderCountsPanel(contentWidth)
	heatPanel := d.renderHeatmapPanel(contentWidth)

	var bottom string
	if d.picking {
		bottom = d.renderTagPicker(contentWidth)
	} else {
		bottom = d.renderRecentPanel(contentWidth)
	}

	return lipgloss.JoinVertical(lipgloss.Left, countsPanel, heatPanel, bottom)
}

func (d dashboardModel) renderCountsPanel(w int) string {
	today := fmt.Sprintf("%s %s", titleStyle.Render("Today"), highlightStyle.Render(fmt.Sprintf("%d", d.today)))
	total := fmt.Sprintf("%s %s", titleStyle.Render("All time"), highlightStyle.Render(fmt.Sprintf("%d", d.total)))
	hint := mutedStyle.Render("enter: start a session from a recent deck")
	return panelStyle.Width(w).Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, today, "    ", total, "    ", hint),
	)
}

// renderHeatmapPanel draws the last weeks as a weekday-by-week grid, one
// shaded cell per day.
func (d dashboardModel) renderHeatmapPanel(w int) string {
	now := time.Now()
	// Back up to the Monday starting the first rendered week.
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	start := now.AddDate(0, 0, -daysSinceMonday-(heatmapWeeks-1)*7)

	dayNames := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	var rows []string
	rows = append(rows, titleStyle.Render("Practice heatmap"))
	rows = append(rows, "")
	for day := 0; day < 7; day++ {
		var cells []string
		cells = append(cells, mutedStyle.Render(fmt.Sprintf("%-4s", dayNames[day])))
		for week := 0; week < heatmapWeeks; week++ {
			date := start.AddDate(0, 0, week*7+day)
			if date.After(now) {
				cells = append(cells, " ")
				continue
			}
			cells = append(cells, heatCell(d.heatmap[date.Format("2006-01-02")]))
		}
		rows = append(rows, strings.Join(cells, " "))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Decks")
	if len(d.recent) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No decks opened yet"),
		))
	}

	var rows []string
	rows = append(rows, title)
	for i, path := range d.recent {
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+filepath.Base(path))+mutedStyle.Render("  "+filepath.Dir(path)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: start  d: remove from list  c: clear list"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderTagPicker(w int) string {
	title := titleStyle.Render("Filter by tags — " + filepath.Base(d.pickerPath))

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	if len(d.pickerTags) == 0 {
		rows = append(rows, mutedStyle.Render("  No tags in this deck — all images included"))
	}
	for i, t := range d.pickerTags {
		mark := "○"
		if d.pickerOn[t] {
			mark = "●"
		}
		cursor := "  "
		style := normalItemStyle
		if i == d.pickerIndex {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, mark, t)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space: toggle  enter: start  esc: cancel"))
	rows = append(rows, mutedStyle.Render("  no tags selected = every image; untagged images always included"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func status(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}
