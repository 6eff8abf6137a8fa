package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hyunsol/croquis/internal/store"
)

var weekdayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type alarmsModel struct {
	store  *store.Store
	width  int
	height int

	alarms []store.Alarm
	cursor int

	formActive bool
	form       *huh.Form
	editing    int // index being edited, -1 for new

	// Form field pointers (survive value copies)
	formTitle    *string
	formMessage  *string
	formTime     *string
	formType     *string
	formWeekdays *[]int
	formDate     *string
	formEnabled  *bool
}

func newAlarmsModel(s *store.Store) alarmsModel {
	title, message, at, typ, date := "", "", "", store.AlarmWeekly, ""
	weekdays := []int{}
	enabled := true
	return alarmsModel{
		store:        s,
		editing:      -1,
		formTitle:    &title,
		formMessage:  &message,
		formTime:     &at,
		formType:     &typ,
		formWeekdays: &weekdays,
		formDate:     &date,
		formEnabled:  &enabled,
	}
}

func (m *alarmsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type alarmsDataMsg struct {
	alarms []store.Alarm
}

func (m alarmsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return alarmsDataMsg{alarms: m.store.Alarms()}
	}
}

func (m alarmsModel) update(msg tea.Msg) (alarmsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case alarmsDataMsg:
		m.alarms = msg.alarms
		if m.cursor >= len(m.alarms) {
			m.cursor = max(0, len(m.alarms)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.alarms)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showForm(-1)
		case key.Matches(msg, keys.Enter):
			if len(m.alarms) > 0 {
				return m.showForm(m.cursor)
			}
		case key.Matches(msg, keys.Delete):
			if len(m.alarms) > 0 {
				m.alarms = append(m.alarms[:m.cursor], m.alarms[m.cursor+1:]...)
				m.store.SaveAlarms(m.alarms)
				return m, m.refresh()
			}
		case msg.String() == " ":
			if len(m.alarms) > 0 {
				m.alarms[m.cursor].Enabled = !m.alarms[m.cursor].Enabled
				m.store.SaveAlarms(m.alarms)
			}
		}
	}
	return m, nil
}

func (m alarmsModel) showForm(editing int) (alarmsModel, tea.Cmd) {
	m.editing = editing
	*m.formTitle = ""
	*m.formMessage = ""
	*m.formTime = "09:00"
	*m.formType = store.AlarmWeekly
	*m.formWeekdays = []int{}
	*m.formDate = ""
	*m.formEnabled = true
	if editing >= 0 {
		a := m.alarms[editing]
		*m.formTitle = a.Title
		*m.formMessage = a.Message
		*m.formTime = a.Time
		*m.formType = a.Type
		*m.formWeekdays = append([]int{}, a.Weekdays...)
		*m.formDate = a.Date
		*m.formEnabled = a.Enabled
	}

	weekdayOptions := make([]huh.Option[int], len(weekdayNames))
	for i, n := range weekdayNames {
		weekdayOptions[i] = huh.NewOption(n, i)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle),
			huh.NewInput().Title("Message").Value(m.formMessage),
			huh.NewInput().Title("Time (HH:MM)").Value(m.formTime),
			huh.NewSelect[string]().Title("Repeat").
				Options(
					huh.NewOption("Weekly", store.AlarmWeekly),
					huh.NewOption("Once on a date", store.AlarmOnce),
				).Value(m.formType),
			huh.NewMultiSelect[int]().Title("Weekdays").Options(weekdayOptions...).Value(m.formWeekdays),
			huh.NewInput().Title("Date (YYYY-MM-DD, for one-shot)").Value(m.formDate),
			huh.NewConfirm().Title("Enabled").Value(m.formEnabled),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m alarmsModel) updateForm(msg tea.Msg) (alarmsModel, tea.Cmd) {
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
		if *m.formTitle != "" && *m.formTime != "" {
			a := store.Alarm{
				Title:    *m.formTitle,
				Message:  *m.formMessage,
				Time:     *m.formTime,
				Type:     *m.formType,
				Weekdays: append([]int{}, *m.formWeekdays...),
				Date:     *m.formDate,
				Enabled:  *m.formEnabled,
			}
			if m.editing >= 0 {
				m.alarms[m.editing] = a
			} else {
				m.alarms = append(m.alarms, a)
			}
			m.store.SaveAlarms(m.alarms)
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m alarmsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Alarm")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("Alarms")
	if len(m.alarms) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No alarms. Press n to add one."),
		))
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, a := range m.alarms {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		state := successStyle.Render("on ")
		if !a.Enabled {
			state = mutedStyle.Render("off")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-20s %s", cursor, a.Title, a.Time))+
			"  "+state+"  "+mutedStyle.Render(alarmSchedule(a)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  space: on/off  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func alarmSchedule(a store.Alarm) string {
	if a.Type == store.AlarmOnce {
		return a.Date
	}
	var days []string
	for _, d := range a.Weekdays {
		if d >= 0 && d < len(weekdayNames) {
			days = append(days, weekdayNames[d])
		}
	}
	if len(days) == 0 {
		return "no days"
	}
	return strings.Join(days, " ")
}
