package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roster/internal/detail"
	"github.com/five82/roster/internal/student"
)

// handleDetailKey processes keyboard input for the detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.detail.State()

	if st.ConfirmingDelete {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			cmd, err := m.detail.ConfirmDelete(true)
			return m, tea.Batch(cmd, m.reportErr(err))
		case key.Matches(msg, m.keys.Decline):
			_, err := m.detail.ConfirmDelete(false)
			return m, m.reportErr(err)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.leaveDetail()
		return m, m.drainNotices()
	case key.Matches(msg, m.keys.Edit):
		if err := m.detail.BeginEdit(); err != nil {
			return m, m.reportErr(err)
		}
		m.form = newForm(formRemoteEdit, "Edit Student", student.RemoteFields, m.detail.State().Draft)
	case key.Matches(msg, m.keys.Delete):
		return m, m.reportErr(m.detail.RequestDelete())
	case key.Matches(msg, m.keys.Reload):
		if st.Pending {
			return m, m.reportErr(detail.ErrBusy)
		}
		return m, m.detail.Mount(m.ctx, st.ID)
	}
	return m, nil
}

func (m Model) submitRemoteEdit() (tea.Model, tea.Cmd) {
	cmd, err := m.detail.SubmitUpdate()
	if err != nil {
		// Validation failures already queued their notice.
		return m, tea.Batch(m.drainNotices(), m.reportErr(err))
	}
	return m, tea.Batch(cmd, m.drainNotices())
}

// reportErr surfaces controller refusals other than validation, which the
// controller reports itself.
func (m *Model) reportErr(err error) tea.Cmd {
	switch {
	case err == nil, student.IsValidation(err):
		return nil
	case errors.Is(err, detail.ErrBusy):
		return m.pushToast(detail.LevelInfo, "Please wait for the current change to finish.")
	default:
		m.log.WithError(err).Debug("detail action refused")
		return nil
	}
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	st := m.detail.State()

	if m.form != nil {
		out := m.form.view(styles, m.width)
		if st.Pending {
			out += "\n" + styles.InfoText.Render("Saving...")
		}
		return out
	}

	switch st.Phase {
	case detail.PhaseLoading, detail.PhaseIdle:
		return styles.MutedText.Render("Loading...")
	case detail.PhaseLoadError:
		msg := "Failed to fetch student details."
		if st.LoadErr != nil {
			msg = st.LoadErr.Error()
		}
		return styles.DangerText.Render(msg)
	case detail.PhaseDeleted:
		return styles.MutedText.Render("Student deleted.")
	}

	s := st.Confirmed
	var b strings.Builder
	name := s.Name
	if name == "" {
		name = "Student Details"
	}
	b.WriteString(styles.AccentText.Bold(true).Render(name))
	b.WriteString("\n\n")
	for _, row := range [][2]string{
		{"Email", s.Email},
		{"Grade", s.Grade},
		{"Course", string(s.Course)},
		{"Current Phase", s.CurrentPhase},
	} {
		value := row[1]
		if value == "" {
			value = "N/A"
		}
		b.WriteString(styles.MutedText.Width(15).Render(row[0]))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}

	if st.ConfirmingDelete {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render(fmt.Sprintf("Delete %s? (y/n)", name)))
	} else if st.Pending {
		b.WriteString("\n")
		b.WriteString(styles.InfoText.Render("Working..."))
	}

	panel := styles.Panel
	if m.width > 0 {
		panel = panel.Width(min(m.width-4, 60))
	}
	return panel.Render(strings.TrimRight(b.String(), "\n"))
}
