package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/roster/internal/student"
)

// formKind says what submitting a form does.
type formKind int

const (
	formAdd formKind = iota
	formListEdit
	formRemoteEdit
)

type formField struct {
	field student.Field
	label string
	input textinput.Model
}

// form is a column of text inputs, one per student field.
type form struct {
	kind   formKind
	title  string
	fields []formField
	focus  int
}

var fieldLabels = map[student.Field]string{
	student.FieldName:         "Name",
	student.FieldEmail:        "Email",
	student.FieldGrade:        "Grade",
	student.FieldCurrentPhase: "Current Phase",
	student.FieldCourse:       "Course",
}

func newForm(kind formKind, title string, fields []student.Field, seed student.Student) *form {
	f := &form{kind: kind, title: title}
	for i, field := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldLabels[field]
		ti.CharLimit = 120
		ti.Width = 40
		// Blink messages are not routed to forms.
		ti.Cursor.SetMode(cursor.CursorStatic)
		ti.SetValue(seed.Get(field))
		if field == student.FieldCourse {
			names := make([]string, 0, len(student.Courses()))
			for _, c := range student.Courses() {
				names = append(names, string(c))
			}
			ti.ShowSuggestions = true
			ti.SetSuggestions(names)
		}
		if i == 0 {
			ti.Focus()
		}
		f.fields = append(f.fields, formField{field: field, label: fieldLabels[field], input: ti})
	}
	return f
}

// update handles navigation between fields and forwards everything else to
// the focused input. It reports the field whose value changed, if any.
func (f *form) update(msg tea.KeyMsg, keys keyMap) (tea.Cmd, student.Field, bool) {
	cur := &f.fields[f.focus]
	before := cur.input.Value()

	// Tab completes a pending suggestion before it moves focus.
	suggestion := cur.input.CurrentSuggestion()
	completing := msg.Type == tea.KeyTab && cur.input.ShowSuggestions && suggestion != "" && suggestion != before
	if !completing {
		switch {
		case key.Matches(msg, keys.NextField):
			f.setFocus(f.focus + 1)
			return nil, "", false
		case key.Matches(msg, keys.PrevField):
			f.setFocus(f.focus - 1)
			return nil, "", false
		}
	}

	var cmd tea.Cmd
	cur.input, cmd = cur.input.Update(msg)
	return cmd, cur.field, cur.input.Value() != before
}

func (f *form) setFocus(i int) {
	n := len(f.fields)
	if n == 0 {
		return
	}
	i = ((i % n) + n) % n
	f.fields[f.focus].input.Blur()
	f.focus = i
	f.fields[f.focus].input.Focus()
}

func (f *form) value(field student.Field) string {
	for _, ff := range f.fields {
		if ff.field == field {
			return ff.input.Value()
		}
	}
	return ""
}

// apply copies the form values onto base.
func (f *form) apply(base student.Student) student.Student {
	for _, ff := range f.fields {
		base.Set(ff.field, ff.input.Value())
	}
	return base
}

func (f *form) view(styles Styles, width int) string {
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(f.title))
	b.WriteString("\n\n")
	labelStyle := styles.MutedText.Width(15)
	for i, ff := range f.fields {
		label := labelStyle.Render(ff.label)
		if i == f.focus {
			label = styles.AccentText.Width(15).Render(ff.label)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, ff.input.View()))
		b.WriteString("\n")
	}
	panelWidth := 60
	if width > 0 && width-4 < panelWidth {
		panelWidth = max(width-4, 20)
	}
	return styles.FocusPanel.Width(panelWidth).Render(strings.TrimRight(b.String(), "\n"))
}
