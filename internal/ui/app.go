package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/detail"
	"github.com/five82/roster/internal/remote"
	"github.com/five82/roster/internal/roster"
	"github.com/five82/roster/internal/student"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDetail
)

const defaultToastTTL = 3 * time.Second

// Options configures the UI.
type Options struct {
	Context   context.Context
	Roster    *roster.Collection
	API       remote.StudentAPI
	Logger    logrus.FieldLogger
	ThemeName string
	PrefsPath string
	// ToastTTL is how long a notice stays on screen. Zero uses three
	// seconds; negative keeps notices until dismissed.
	ToastTTL time.Duration
}

type toast struct {
	id     int
	notice detail.Notice
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	roster    *roster.Collection
	detail    *detail.Controller
	log       logrus.FieldLogger
	prefsPath string
	toastTTL  time.Duration

	theme       Theme
	keys        keyMap
	help        help.Model
	currentView View
	width       int
	height      int
	showHelp    bool

	selectedRow int
	form        *form

	toasts    []toast
	nextToast int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	ttl := opts.ToastTTL
	if ttl == 0 {
		ttl = defaultToastTTL
	}
	coll := opts.Roster
	if coll == nil {
		coll = roster.New(nil, log)
	}

	return Model{
		ctx:         ctx,
		roster:      coll,
		detail:      detail.New(opts.API, log),
		log:         log.WithField("component", "ui"),
		prefsPath:   opts.PrefsPath,
		toastTTL:    ttl,
		theme:       GetTheme(opts.ThemeName),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		currentView: ViewList,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case dismissToastMsg:
		m.dropToast(int(msg))
		return m, nil

	case detail.NavigateMsg:
		m.leaveDetail()
		return m, m.drainNotices()
	}

	cmd := m.detail.Update(msg)
	if m.form != nil && m.form.kind == formRemoteEdit && m.detail.Phase() != detail.PhaseEditing {
		m.form = nil
	}
	return m, tea.Batch(cmd, m.drainNotices())
}

// View implements tea.Model.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	switch m.currentView {
	case ViewDetail:
		b.WriteString(m.renderDetail())
	default:
		b.WriteString(m.renderList())
	}
	if toasts := m.renderToasts(); toasts != "" {
		b.WriteString("\n\n")
		b.WriteString(toasts)
	}
	b.WriteString("\n\n")
	b.WriteString(m.theme.Styles().Footer.Render(m.help.View(m.footerKeys())))
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// Open forms take every key except ctrl+c.
	if m.form != nil {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if err := config.SavePrefs(m.prefsPath, config.Prefs{Theme: m.theme.Name}); err != nil {
			m.log.WithError(err).Warn("save prefs")
		}
		return m, nil
	}

	switch m.currentView {
	case ViewDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.kind == formRemoteEdit && m.detail.State().Pending {
		return m, m.reportErr(detail.ErrBusy)
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.cancelForm()
	case key.Matches(msg, m.keys.Submit):
		return m.submitForm()
	}
	cmd, field, changed := m.form.update(msg, m.keys)
	if changed {
		m.syncField(field)
	}
	return m, cmd
}

func (m Model) cancelForm() (tea.Model, tea.Cmd) {
	f := m.form
	m.form = nil
	switch f.kind {
	case formListEdit:
		m.roster.CancelEdit()
		m.checkSave()
	case formRemoteEdit:
		_ = m.detail.CancelEdit()
	}
	return m, m.drainNotices()
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	switch m.form.kind {
	case formAdd:
		return m.submitAdd()
	case formListEdit:
		return m.submitListEdit()
	case formRemoteEdit:
		return m.submitRemoteEdit()
	}
	return m, nil
}

// syncField mirrors an edited value into whichever draft backs the form.
func (m *Model) syncField(field student.Field) {
	value := m.form.value(field)
	switch m.form.kind {
	case formListEdit:
		m.roster.EditDraft(func(s *student.Student) { s.Set(field, value) })
	case formRemoteEdit:
		if err := m.detail.SetField(field, value); err != nil {
			m.log.WithError(err).Debug("set field")
		}
	}
}

// leaveDetail returns to the list and forgets the mounted student.
func (m *Model) leaveDetail() {
	m.form = nil
	m.detail.Unmount()
	m.currentView = ViewList
}

func (m Model) footerKeys() help.KeyMap {
	k := m.keys
	if m.form != nil {
		return contextHelp{k.Submit, k.NextField, k.PrevField, k.Back}
	}
	switch m.currentView {
	case ViewDetail:
		st := m.detail.State()
		if st.ConfirmingDelete {
			return contextHelp{k.Confirm, k.Decline}
		}
		return contextHelp{k.Edit, k.Delete, k.Reload, k.Back, k.Help}
	default:
		return contextHelp{k.Open, k.Add, k.Edit, k.Remove, k.Help, k.Quit}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
