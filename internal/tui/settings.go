package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hyunsol/croquis/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	current    store.Settings
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	imageFolder   *string
	imageWidth    *string
	imageHeight   *string
	grayscale     *bool
	flip          *bool
	timerPos      *string
	timerFont     *string
	timeSeconds   *string
	language      *string
	darkMode      *bool
	studyMode     *bool
	countPos      *string
	countFont     *string
	scNext        *string
	scPrevious    *string
	scTogglePause *string
	scStop        *string
}

func newSettingsModel(s *store.Store) settingsModel {
	strs := make([]string, 12)
	bools := make([]bool, 4)
	return settingsModel{
		store:         s,
		imageFolder:   &strs[0],
		imageWidth:    &strs[1],
		imageHeight:   &strs[2],
		timerPos:      &strs[3],
		timerFont:     &strs[4],
		timeSeconds:   &strs[5],
		language:      &strs[6],
		countPos:      &strs[7],
		countFont:     &strs[8],
		scNext:        &strs[9],
		scPrevious:    &strs[10],
		scTogglePause: &strs[11],
		grayscale:     &bools[0],
		flip:          &bools[1],
		darkMode:      &bools[2],
		studyMode:     &bools[3],
		scStop:        new(string),
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type settingsDataMsg struct {
	settings store.Settings
}

func (m settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return settingsDataMsg{settings: m.store.Settings()}
	}
}

func positionOptions() []huh.Option[string] {
	positions := []string{
		store.PosBottomRight, store.PosBottomCenter, store.PosBottomLeft,
		store.PosTopRight, store.PosTopCenter, store.PosTopLeft,
	}
	out := make([]huh.Option[string], len(positions))
	for i, p := range positions {
		out[i] = huh.NewOption(p, p)
	}
	return out
}

func fontSizeOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("small", "small"),
		huh.NewOption("medium", "medium"),
		huh.NewOption("large", "large"),
	}
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		m.current = msg.settings
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return m.showForm()
		}
	}
	return m, nil
}

func (m settingsModel) showForm() (settingsModel, tea.Cmd) {
	cfg := m.store.Settings()
	*m.imageFolder = cfg.ImageFolder
	*m.imageWidth = strconv.Itoa(cfg.ImageWidth)
	*m.imageHeight = strconv.Itoa(cfg.ImageHeight)
	*m.grayscale = cfg.Grayscale
	*m.flip = cfg.FlipHorizontal
	*m.timerPos = cfg.TimerPosition
	*m.timerFont = cfg.TimerFontSize
	*m.timeSeconds = strconv.Itoa(cfg.TimeSeconds)
	*m.language = cfg.Language
	*m.darkMode = cfg.DarkMode
	*m.studyMode = cfg.StudyMode
	*m.countPos = cfg.TodayCountPosition
	*m.countFont = cfg.TodayCountFontSize
	*m.scNext = cfg.Shortcuts[store.ActionNextImage]
	*m.scPrevious = cfg.Shortcuts[store.ActionPreviousImage]
	*m.scTogglePause = cfg.Shortcuts[store.ActionTogglePause]
	*m.scStop = cfg.Shortcuts[store.ActionStopCroquis]

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Image folder").Value(m.imageFolder),
			huh.NewInput().Title("Image width").Value(m.imageWidth),
			huh.NewInput().Title("Image height").Value(m.imageHeight),
			huh.NewConfirm().Title("Grayscale").Value(m.grayscale),
			huh.NewConfirm().Title("Flip horizontally").Value(m.flip),
		).Title("Display"),
		huh.NewGroup(
			huh.NewInput().Title("Seconds per image").Value(m.timeSeconds),
			huh.NewConfirm().Title("Study mode (count up, no limit)").Value(m.studyMode),
			huh.NewSelect[string]().Title("Timer position").Options(positionOptions()...).Value(m.timerPos),
			huh.NewSelect[string]().Title("Timer size").Options(fontSizeOptions()...).Value(m.timerFont),
			huh.NewSelect[string]().Title("Today count position").Options(positionOptions()...).Value(m.countPos),
			huh.NewSelect[string]().Title("Today count size").Options(fontSizeOptions()...).Value(m.countFont),
		).Title("Session"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Language").
				Options(huh.NewOption("한국어", "ko"), huh.NewOption("English", "en")).Value(m.language),
			huh.NewConfirm().Title("Dark mode").Value(m.darkMode),
			huh.NewInput().Title("Shortcut: next image").Value(m.scNext),
			huh.NewInput().Title("Shortcut: previous image").Value(m.scPrevious),
			huh.NewInput().Title("Shortcut: pause").Value(m.scTogglePause),
			huh.NewInput().Title("Shortcut: stop").Value(m.scStop),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
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
		m.saveSettings()
		return m, m.refresh()
	}

	return m, cmd
}

func (m settingsModel) saveSettings() {
	next := m.store.Settings()
	next.ImageFolder = *m.imageFolder
	next.ImageWidth = atoiOr(*m.imageWidth, next.ImageWidth)
	next.ImageHeight = atoiOr(*m.imageHeight, next.ImageHeight)
	next.Grayscale = *m.grayscale
	next.FlipHorizontal = *m.flip
	next.TimerPosition = *m.timerPos
	next.TimerFontSize = *m.timerFont
	next.TimeSeconds = atoiOr(*m.timeSeconds, next.TimeSeconds)
	next.Language = *m.language
	next.DarkMode = *m.darkMode
	next.StudyMode = *m.studyMode
	next.TodayCountPosition = *m.countPos
	next.TodayCountFontSize = *m.countFont
	next.Shortcuts[store.ActionNextImage] = *m.scNext
	next.Shortcuts[store.ActionPreviousImage] = *m.scPrevious
	next.Shortcuts[store.ActionTogglePause] = *m.scTogglePause
	next.Shortcuts[store.ActionStopCroquis] = *m.scStop
	m.store.UpdateSettings(next)
}

func atoiOr(s string, fallback int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return fallback
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	cfg := m.current
	mode := "timed"
	if cfg.StudyMode {
		mode = "study"
	}

	rows := []string{
		titleStyle.Render("Settings"),
		"",
		settingRow("Image folder", cfg.ImageFolder),
		settingRow("Image size", fmt.Sprintf("%dx%d", cfg.ImageWidth, cfg.ImageHeight)),
		settingRow("Seconds per image", fmt.Sprintf("%d", cfg.TimeSeconds)),
		settingRow("Mode", mode),
		settingRow("Timer", fmt.Sprintf("%s, %s", cfg.TimerPosition, cfg.TimerFontSize)),
		settingRow("Today count", fmt.Sprintf("%s, %s", cfg.TodayCountPosition, cfg.TodayCountFontSize)),
		settingRow("Language", cfg.Language),
		settingRow("Shortcuts", fmt.Sprintf("next=%s prev=%s pause=%s stop=%s",
			cfg.Shortcuts[store.ActionNextImage], cfg.Shortcuts[store.ActionPreviousImage],
			cfg.Shortcuts[store.ActionTogglePause], cfg.Shortcuts[store.ActionStopCroquis])),
		"",
		mutedStyle.Render("Press enter to edit settings"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s",
		lipgloss.NewStyle().Width(24).Render(label),
		highlightStyle.Render(value))
}
