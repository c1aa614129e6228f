package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/roster/internal/detail"
)

type dismissToastMsg int

// pushToast queues a notice and returns the command that expires it.
func (m *Model) pushToast(level detail.Level, text string) tea.Cmd {
	m.nextToast++
	id := m.nextToast
	m.toasts = append(m.toasts, toast{id: id, notice: detail.Notice{Level: level, Text: text}})
	if m.toastTTL < 0 {
		return nil
	}
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
		return dismissToastMsg(id)
	})
}

// drainNotices moves the detail controller's notices onto the toast stack.
func (m *Model) drainNotices() tea.Cmd {
	notices := m.detail.Notices()
	if len(notices) == 0 {
		return nil
	}
	m.detail.DismissAll()
	cmds := make([]tea.Cmd, 0, len(notices))
	for _, n := range notices {
		cmds = append(cmds, m.pushToast(n.Level, n.Text))
	}
	return tea.Batch(cmds...)
}

func (m *Model) dropToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	styles := m.theme.Styles()
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		badge := styles.NoticeStyle(t.notice.Level).Render(strings.ToUpper(t.notice.Level.String()))
		lines = append(lines, badge+" "+styles.Text.Render(t.notice.Text))
	}
	return strings.Join(lines, "\n")
}
