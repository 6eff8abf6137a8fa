package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hyunsol/croquis/internal/export"
	"github.com/hyunsol/croquis/internal/store"
)

type historyModel struct {
	store  *store.Store
	width  int
	height int

	entries []store.HistoryEntry
	dates   []string
	dateIdx int // -1 = all dates
	cursor  int

	memoEditing bool
	memoInput   textinput.Model
}

func newHistoryModel(s *store.Store) historyModel {
	ti := textinput.New()
	ti.Placeholder = "memo"
	ti.CharLimit = 200
	return historyModel{store: s, dateIdx: -1, memoInput: ti}
}

func (m *historyModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.store.ListHistory()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("History error: %v", err), isError: true}
		}
		return historyDataMsg{entries: entries}
	}
}

// visible applies the current date filter.
func (m historyModel) visible() []store.HistoryEntry {
	if m.dateIdx < 0 || m.dateIdx >= len(m.dates) {
		return m.entries
	}
	return store.FilterHistoryByDate(m.entries, m.dates[m.dateIdx])
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	if m.memoEditing {
		return m.updateMemo(msg)
	}

	switch msg := msg.(type) {
	case historyDataMsg:
		m.entries = msg.entries
		m.dates = store.HistoryDates(msg.entries)
		if m.dateIdx >= len(m.dates) {
			m.dateIdx = -1
		}
		m.cursor = 0
		return m, nil

	case tea.KeyMsg:
		vis := m.visible()
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(vis)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Left):
			if m.dateIdx > -1 {
				m.dateIdx--
				m.cursor = 0
			}
		case key.Matches(msg, keys.Right):
			if m.dateIdx < len(m.dates)-1 {
				m.dateIdx++
				m.cursor = 0
			}
		case msg.String() == "m", key.Matches(msg, keys.Enter):
			if m.cursor < len(vis) {
				m.memoEditing = true
				m.memoInput.SetValue(vis[m.cursor].Pair.Memo)
				return m, m.memoInput.Focus()
			}
		case msg.String() == "x":
			if m.cursor < len(vis) {
				return m, m.exportPair(vis[m.cursor])
			}
		}
	}
	return m, nil
}

func (m historyModel) updateMemo(msg tea.Msg) (historyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			m.memoEditing = false
			m.memoInput.Blur()
			vis := m.visible()
			if m.cursor < len(vis) {
				file, memo := vis[m.cursor].File, m.memoInput.Value()
				st := m.store
				return m, tea.Batch(
					func() tea.Msg {
						if err := st.SetMemo(file, memo); err != nil {
							return statusMsg{text: fmt.Sprintf("Memo failed: %v", err), isError: true}
						}
						return statusMsg{text: "Memo saved"}
					},
					m.refresh(),
				)
			}
			return m, nil
		case "esc":
			m.memoEditing = false
			m.memoInput.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.memoInput, cmd = m.memoInput.Update(msg)
	return m, cmd
}

func (m historyModel) exportPair(entry store.HistoryEntry) tea.Cmd {
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		if err := export.Pair(entry, home); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: home}
	}
}

func (m historyModel) view() string {
	w := m.width - 4

	dateLabel := "all dates"
	if m.dateIdx >= 0 && m.dateIdx < len(m.dates) {
		dateLabel = m.dates[m.dateIdx]
	}
	title := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", mutedStyle.Render("◂ "+dateLabel+" ▸"),
	)

	vis := m.visible()
	if len(vis) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No recorded croquis yet"),
		))
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, e := range vis {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		memo := ""
		if e.Pair.Memo != "" {
			memo = mutedStyle.Render("  " + e.Pair.Memo)
		}
		row := style.Render(fmt.Sprintf("%s%s  %-28s %s",
			cursor, store.PairDate(e.Pair), e.Pair.Metadata.Filename, formatClock(e.Pair.CroquisTime)))
		rows = append(rows, row+memo)
	}

	rows = append(rows, "")
	if m.memoEditing {
		rows = append(rows, m.memoInput.View())
		rows = append(rows, mutedStyle.Render("  enter: save memo  esc: cancel"))
	} else {
		rows = append(rows, mutedStyle.Render("  ←/→: date filter  m: memo  x: export pair"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
