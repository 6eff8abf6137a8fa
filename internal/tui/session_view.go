package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hyunsol/croquis/internal/session"
	"github.com/hyunsol/croquis/internal/store"
)

// sessionViewModel drives one practice session: countdown, image metadata,
// and the capture step that records a history pair.
type sessionViewModel struct {
	store  *store.Store
	width  int
	height int

	sess      *session.Session
	deckPath  string
	keymap    sessionKeyMap
	studyMode bool

	completed int

	// Capture step: the user points at the file holding their drawing.
	captureInput textinput.Model
}

func newSessionViewModel(s *store.Store) sessionViewModel {
	ti := textinput.New()
	ti.Placeholder = "path to your drawing (empty = save without one)"
	ti.CharLimit = 512
	return sessionViewModel{store: s, captureInput: ti}
}

func (m *sessionViewModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// start swaps in a new session, rebinding shortcuts from current settings.
func (m *sessionViewModel) start(sess *session.Session, deckPath string) {
	cfg := m.store.Settings()
	m.sess = sess
	m.deckPath = deckPath
	m.keymap = newSessionKeyMap(cfg)
	m.studyMode = cfg.StudyMode
	m.completed = 0
	m.captureInput.SetValue("")
	m.captureInput.Blur()
}

func (m sessionViewModel) active() bool {
	return m.sess != nil && m.sess.State() != session.StateCompleted
}

func (m sessionViewModel) capturing() bool {
	return m.sess != nil && m.sess.State() == session.StateCapturing
}

func (m sessionViewModel) update(msg tea.Msg) (sessionViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.sess == nil {
			return m, nil
		}
		wasCapturing := m.capturing()
		m.sess.Tick()
		if !wasCapturing && m.capturing() {
			m.captureInput.SetValue("")
			return m, m.captureInput.Focus()
		}
		return m, nil

	case pairSavedMsg:
		m.completed++
		return m, status("Recorded "+msg.file, false)

	case tea.KeyMsg:
		if m.sess == nil {
			return m, nil
		}
		if m.capturing() {
			return m.updateCapture(msg)
		}

		switch {
		case key.Matches(msg, m.keymap.Stop):
			return m.stop()
		case key.Matches(msg, m.keymap.Pause):
			m.sess.TogglePause()
			return m, nil
		case key.Matches(msg, m.keymap.Next):
			m.sess.Advance()
			if m.capturing() {
				m.captureInput.SetValue("")
				return m, m.captureInput.Focus()
			}
			return m, nil
		case key.Matches(msg, m.keymap.Previous):
			m.sess.Previous()
			if m.capturing() {
				m.captureInput.SetValue("")
				return m, m.captureInput.Focus()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m sessionViewModel) updateCapture(msg tea.KeyMsg) (sessionViewModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		path := m.captureInput.Value()
		var drawing []byte
		if path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				// Stays in the capture step so the path can be fixed.
				m.sess.DeclineCapture()
				return m, status(fmt.Sprintf("Cannot read drawing: %v", err), true)
			}
			drawing = data
		}

		res, ok := m.sess.AcceptCapture(drawing)
		if !ok {
			return m, nil
		}
		m.captureInput.Blur()
		return m, m.savePair(res)

	case "esc":
		m.sess.DeclineCapture()
		m.captureInput.SetValue("")
		return m, nil
	}

	if key.Matches(msg, m.keymap.Stop) && m.captureInput.Value() == "" {
		return m.stop()
	}

	var cmd tea.Cmd
	m.captureInput, cmd = m.captureInput.Update(msg)
	return m, cmd
}

func (m sessionViewModel) savePair(res session.Result) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		pair := store.HistoryPair{
			Original:    res.Original,
			Screenshot:  res.Drawing,
			Timestamp:   time.Now().Format(store.TimestampLayout),
			CroquisTime: res.Seconds,
			Metadata:    res.Metadata,
		}
		file, err := st.AppendHistoryPair(pair)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Saving pair failed: %v", err), isError: true}
		}
		st.IncrementHeatmap(time.Now().Format("2006-01-02"), 1)
		return pairSavedMsg{file: file}
	}
}

func (m sessionViewModel) stop() (sessionViewModel, tea.Cmd) {
	m.sess.Stop()
	completed := m.completed
	m.sess = nil
	return m, func() tea.Msg { return sessionEndedMsg{completed: completed} }
}

func (m sessionViewModel) view() string {
	w := m.width - 4

	if m.sess == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Session"),
			"",
			mutedStyle.Render("No session running. Start one from the Dashboard."),
		))
	}

	if m.capturing() {
		return m.renderCapture(w)
	}

	img := m.sess.Current()

	clockText := formatClock(m.sess.Remaining())
	indicator := successStyle.Render("●  DRAWING")
	if m.studyMode {
		clockText = formatClock(m.sess.Elapsed())
		indicator = successStyle.Render("●  STUDY — press next to finish this drawing")
	}
	clock := countdownStyle.Width(w - 6).Render(clockText)
	if m.sess.State() == session.StatePaused {
		clock = countdownPausedStyle.Width(w - 6).Render(clockText)
		indicator = warningStyle.Render("⏸  PAUSED")
	}

	position := fmt.Sprintf("%d / %d", m.sess.Index()+1, m.sess.Len())
	meta := fmt.Sprintf("%s  %dx%d  %s",
		highlightStyle.Render(img.Filename),
		img.Width, img.Height,
		warningStyle.Render(difficultyDots(img.Difficulty)),
	)
	controls := mutedStyle.Render(fmt.Sprintf("%s: next  %s: previous  %s: pause  %s: stop",
		m.keymap.Next.Help().Key, m.keymap.Previous.Help().Key,
		m.keymap.Pause.Help().Key, m.keymap.Stop.Help().Key))

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Session — "+filepath.Base(m.deckPath)),
		"",
		clock,
		indicator,
		"",
		mutedStyle.Render(position),
		meta,
		"",
		controls,
	)
	return activePanelStyle.Width(w).Render(content)
}

func (m sessionViewModel) renderCapture(w int) string {
	img := m.sess.Current()
	title := countdownDoneStyle.Width(w - 6).Render("Time!")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		titleStyle.Render("Record this croquis — "+img.Filename),
		"",
		m.captureInput.View(),
		"",
		mutedStyle.Render("enter: save pair  esc: retake"),
	)
	return activePanelStyle.Width(w).Render(content)
}
