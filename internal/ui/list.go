package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/roster/internal/detail"
	"github.com/five82/roster/internal/student"
)

const msgFieldsMissing = "All fields are required!"

// handleListKey processes keyboard input for the list view.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	students := m.roster.Students()
	count := len(students)

	switch {
	case key.Matches(msg, m.keys.Add):
		m.form = newForm(formAdd, "Add New Student", student.LocalFields, student.Student{})
		return m, nil
	}

	if count == 0 {
		return m, nil
	}
	m.selectedRow = clamp(m.selectedRow, 0, count-1)
	selected := students[m.selectedRow]

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.Edit):
		var notice tea.Cmd
		if discarded := m.roster.BeginEdit(selected); discarded != nil && discarded.ID != selected.ID {
			notice = m.pushToast(detail.LevelInfo, fmt.Sprintf("Discarded unsaved edit of %s.", discarded.Name))
		}
		m.form = newForm(formListEdit, "Edit Student", student.LocalFields, selected)
		return m, tea.Batch(notice, m.checkSave())
	case key.Matches(msg, m.keys.Remove):
		m.roster.Remove(selected.ID)
		m.selectedRow = clamp(m.selectedRow, 0, max(count-2, 0))
		return m, m.checkSave()
	case key.Matches(msg, m.keys.Open):
		m.currentView = ViewDetail
		cmd := m.detail.Mount(m.ctx, selected.ID)
		return m, cmd
	}
	return m, nil
}

func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	added, err := m.roster.Add(m.form.apply(student.Student{}))
	if err != nil {
		return m, m.pushToast(detail.LevelError, msgFieldsMissing)
	}
	m.form = nil
	m.selectedRow = m.roster.Len() - 1
	return m, tea.Batch(
		m.pushToast(detail.LevelSuccess, fmt.Sprintf("Added %s.", added.Name)),
		m.checkSave(),
	)
}

func (m Model) submitListEdit() (tea.Model, tea.Cmd) {
	if _, err := m.roster.CommitEdit(); err != nil {
		return m, m.pushToast(detail.LevelError, msgFieldsMissing)
	}
	m.form = nil
	return m, m.checkSave()
}

// checkSave surfaces a failed write-through once per operation.
func (m *Model) checkSave() tea.Cmd {
	if err := m.roster.LastSaveError(); err != nil {
		return m.pushToast(detail.LevelError, "Could not save students: "+err.Error())
	}
	return nil
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Roster")
	var sub string
	switch m.currentView {
	case ViewDetail:
		sub = styles.MutedText.Render("  Student details")
	default:
		sub = styles.MutedText.Render(fmt.Sprintf("  Manage students · %d", m.roster.Len()))
	}
	return styles.Header.Render(lipgloss.JoinHorizontal(lipgloss.Top, title, sub))
}

func (m Model) renderList() string {
	styles := m.theme.Styles()
	if m.form != nil {
		return m.form.view(styles, m.width)
	}

	students := m.roster.Students()
	if len(students) == 0 {
		return styles.MutedText.Render("No students yet. Press a to add one.")
	}
	selected := clamp(m.selectedRow, 0, len(students)-1)

	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{strconv.FormatInt(s.ID, 10), s.Name, s.Email, s.Grade})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Border))).
		Headers("ID", "NAME", "EMAIL", "GRADE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Inherit(styles.AccentText).Bold(true)
			case row == selected:
				return base.Inherit(styles.Selected)
			default:
				return base.Inherit(styles.Text)
			}
		})
	return t.Render()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
