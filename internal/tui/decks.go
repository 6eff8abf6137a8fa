package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hyunsol/croquis/internal/export"
	"github.com/hyunsol/croquis/internal/store"
)

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

type decksModel struct {
	store  *store.Store
	width  int
	height int

	draft  *store.Draft
	deck   store.Deck
	cursor int

	formActive bool
	form       *huh.Form
	formType   string // "open", "add", "tags", "rename", "save"

	// Form field pointers (survive value copies)
	formPath *string
	formText *string
}

func newDecksModel(s *store.Store) decksModel {
	path, text := "", ""
	return decksModel{
		store:    s,
		formPath: &path,
		formText: &text,
	}
}

func (m *decksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type draftOpenedMsg struct {
	draft *store.Draft
}

func (m decksModel) refresh() tea.Cmd { return nil }

func (m decksModel) update(msg tea.Msg) (decksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case draftOpenedMsg:
		// A replaced draft is closed; its file must not outlive it.
		if m.draft != nil {
			m.draft.Discard()
		}
		m.draft = msg.draft
		m.deck = msg.draft.Deck()
		m.cursor = 0
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.deck.Images)-1 {
				m.cursor++
			}
		case msg.String() == "o":
			return m.showPathForm("open", "Deck file (.crdk)", "")
		case key.Matches(msg, keys.New):
			if m.draft == nil {
				return m, m.openDraft("")
			}
			return m.showPathForm("add", "Image file or folder", "")
		case key.Matches(msg, keys.Delete):
			if img, ok := m.selected(); ok {
				m.edit(func(d *store.Deck) { d.Remove(img.Filename) })
				if m.cursor >= len(m.deck.Images) {
					m.cursor = max(0, len(m.deck.Images)-1)
				}
			}
		case msg.String() == "c":
			if img, ok := m.selected(); ok {
				m.edit(func(d *store.Deck) { d.CycleDifficulty(img.Filename) })
			}
		case msg.String() == "t":
			if img, ok := m.selected(); ok {
				return m.showTextForm("tags", "Tags (comma-separated)", strings.Join(img.Tags, ", "))
			}
		case msg.String() == "r":
			if img, ok := m.selected(); ok {
				return m.showTextForm("rename", "New filename", img.Filename)
			}
		case msg.String() == "y":
			if img, ok := m.selected(); ok {
				return m, exportImage(img)
			}
		case msg.String() == "w":
			if m.draft != nil {
				return m.showPathForm("save", "Save deck as", m.draft.Origin())
			}
		case msg.String() == "x":
			if m.draft != nil {
				m.draft.Discard()
				m.draft = nil
				m.deck = store.Deck{}
				return m, status("Draft discarded", false)
			}
		}
	}
	return m, nil
}

func (m decksModel) openDraft(origin string) tea.Cmd {
	return func() tea.Msg {
		draft, err := m.store.OpenDraft(origin)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Cannot open deck: %v", err), isError: true}
		}
		if origin != "" {
			m.store.AddRecentFile(origin)
		}
		return draftOpenedMsg{draft: draft}
	}
}

// edit mutates through the draft and refreshes the local snapshot.
func (m *decksModel) edit(fn func(*store.Deck)) {
	if m.draft == nil {
		return
	}
	m.draft.Edit(fn)
	m.deck = m.draft.Deck()
}

func (m decksModel) selected() (store.Image, bool) {
	if m.draft == nil || m.cursor >= len(m.deck.Images) {
		return store.Image{}, false
	}
	return m.deck.Images[m.cursor], true
}

func (m decksModel) showPathForm(formType, title, initial string) (decksModel, tea.Cmd) {
	*m.formPath = initial
	m.formType = formType
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(title).Value(m.formPath),
		),
	).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m decksModel) showTextForm(formType, title, initial string) (decksModel, tea.Cmd) {
	*m.formText = initial
	m.formType = formType
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(title).Value(m.formText),
		),
	).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m decksModel) updateForm(msg tea.Msg) (decksModel, tea.Cmd) {
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
		return m.applyForm()
	}
	return m, cmd
}

func (m decksModel) applyForm() (decksModel, tea.Cmd) {
	switch m.formType {
	case "open":
		if *m.formPath != "" {
			return m, m.openDraft(*m.formPath)
		}
	case "add":
		if *m.formPath != "" {
			return m.addImages(*m.formPath)
		}
	case "tags":
		if img, ok := m.selected(); ok {
			tags := splitTags(*m.formText)
			m.edit(func(d *store.Deck) { d.SetTags(img.Filename, tags) })
		}
	case "rename":
		if img, ok := m.selected(); ok {
			name := strings.TrimSpace(*m.formText)
			m.edit(func(d *store.Deck) { d.Rename(img.Filename, name) })
		}
	case "save":
		if m.draft != nil && *m.formPath != "" {
			path := *m.formPath
			if err := m.draft.Save(path); err != nil {
				return m, status(fmt.Sprintf("Save failed: %v", err), true)
			}
			m.deck = m.draft.Deck()
			m.store.AddRecentFile(path)
			return m, status("Saved "+filepath.Base(path), false)
		}
	}
	return m, nil
}

// addImages loads one file, or every image directly inside a folder.
func (m decksModel) addImages(path string) (decksModel, tea.Cmd) {
	var paths []string
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return m, status(fmt.Sprintf("Cannot read folder: %v", err), true)
		}
		for _, e := range entries {
			if !e.IsDir() && imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
				paths = append(paths, filepath.Join(path, e.Name()))
			}
		}
	} else {
		paths = []string{path}
	}

	added, failed := 0, 0
	for _, p := range paths {
		img, err := store.ImageFromFile(p)
		if err != nil {
			failed++
			continue
		}
		m.edit(func(d *store.Deck) { d.AddImage(img) })
		added++
	}
	if failed > 0 {
		return m, status(fmt.Sprintf("Added %d images, %d unreadable", added, failed), true)
	}
	return m, status(fmt.Sprintf("Added %d images", added), false)
}

// exportImage writes the selected reference image back out as a plain
// file in the user's home directory.
func exportImage(img store.Image) tea.Cmd {
	return func() tea.Msg {
		home, err := os.UserHomeDir()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		path := filepath.Join(home, img.Filename)
		if err := export.Image(img.Data, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func splitTags(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (m decksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Deck")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	if m.draft == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Decks"),
			"",
			mutedStyle.Render("o: open a deck file   n: start a new deck"),
		))
	}

	name := "new deck"
	if m.draft.Origin() != "" {
		name = filepath.Base(m.draft.Origin())
	}
	title := titleStyle.Render(fmt.Sprintf("Deck — %s (%d images)", name, len(m.deck.Images)))

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if len(m.deck.Images) == 0 {
		rows = append(rows, mutedStyle.Render("  Empty deck. Press n to add images."))
	}
	for i, img := range m.deck.Images {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		tags := ""
		if len(img.Tags) > 0 {
			tags = mutedStyle.Render(" [" + strings.Join(img.Tags, ", ") + "]")
		}
		dots := warningStyle.Render(difficultyDots(img.Difficulty))
		rows = append(rows, style.Render(fmt.Sprintf("%s%-32s", cursor, img.Filename))+" "+dots+tags)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: add  d: remove  c: difficulty  t: tags  r: rename  y: export image  w: save  x: discard"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
