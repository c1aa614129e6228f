package detail

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/remote"
	"github.com/five82/roster/internal/student"
)

// Phase is the coarse state of the detail view.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseViewing
	PhaseEditing
	PhaseLoadError
	PhaseDeleted
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseViewing:
		return "viewing"
	case PhaseEditing:
		return "editing"
	case PhaseLoadError:
		return "load error"
	case PhaseDeleted:
		return "deleted"
	default:
		return "idle"
	}
}

var (
	// ErrBusy is returned when a mutation is requested while another is in
	// flight.
	ErrBusy = errors.New("a change is already in progress")
	// ErrWrongPhase is returned when an operation does not apply to the
	// current phase.
	ErrWrongPhase = errors.New("operation not available")
)

// Route names a navigation target outside the detail view.
type Route int

const (
	RouteList Route = iota
)

// NavigateMsg asks the owner to leave the detail view.
type NavigateMsg struct {
	Route Route
}

type fetchedMsg struct {
	gen     uint64
	student student.Student
	err     error
}

type patchedMsg struct {
	gen     uint64
	id      int64
	sent    student.Student
	student student.Student
	err     error
}

type deletedMsg struct {
	gen uint64
	id  int64
	err error
}

// State is a snapshot of the controller for rendering.
type State struct {
	ID               int64
	Phase            Phase
	Pending          bool
	ConfirmingDelete bool
	Confirmed        student.Student
	Draft            student.Student
	LoadErr          error
}

// Controller owns the confirmed record, the draft and the request state of
// one mounted student.
type Controller struct {
	api remote.StudentAPI
	log logrus.FieldLogger

	ctx        context.Context
	gen        uint64
	id         int64
	phase      Phase
	confirming bool
	// inflight outlives a mount so a remounted student stays busy.
	inflight   map[int64]bool
	confirmed  student.Student
	draft      student.Student
	loadErr    error
	notices    []Notice
}

// New returns an unmounted controller.
func New(api remote.StudentAPI, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		api:      api,
		log:      log.WithField("component", "detail"),
		ctx:      context.Background(),
		inflight: make(map[int64]bool),
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	return State{
		ID:               c.id,
		Phase:            c.phase,
		Pending:          c.inflight[c.id],
		ConfirmingDelete: c.confirming,
		Confirmed:        c.confirmed,
		Draft:            c.draft,
		LoadErr:          c.loadErr,
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Mount shows student id. Any previous mount is abandoned, but a mutation
// still in flight for id keeps the new mount busy until its result arrives.
func (c *Controller) Mount(ctx context.Context, id int64) tea.Cmd {
	if ctx == nil {
		ctx = context.Background()
	}
	c.gen++
	c.ctx = ctx
	c.id = id
	c.phase = PhaseLoading
	c.confirming = false
	c.confirmed = student.Student{}
	c.draft = student.Student{}
	c.loadErr = nil
	c.log.WithField("student_id", id).Debug("mount")

	gen, api := c.gen, c.api
	return func() tea.Msg {
		s, err := api.FetchByID(ctx, id)
		return fetchedMsg{gen: gen, student: s, err: err}
	}
}

// Unmount abandons the current student. Outstanding fetches are ignored;
// outstanding mutations only release the busy guard when they finish.
func (c *Controller) Unmount() {
	c.gen++
	c.phase = PhaseIdle
	c.confirming = false
}

func (c *Controller) busy() bool {
	return c.inflight[c.id]
}

// BeginEdit switches from viewing to editing with a fresh draft.
func (c *Controller) BeginEdit() error {
	if c.busy() {
		return ErrBusy
	}
	if c.phase != PhaseViewing || c.confirming {
		return c.wrongPhase("edit")
	}
	c.draft = c.confirmed
	c.phase = PhaseEditing
	return nil
}

// SetField changes one draft field. No request is made.
func (c *Controller) SetField(f student.Field, value string) error {
	if c.phase != PhaseEditing {
		return c.wrongPhase("set field")
	}
	if c.busy() {
		return ErrBusy
	}
	c.draft.Set(f, value)
	return nil
}

// CancelEdit drops the draft and returns to viewing.
func (c *Controller) CancelEdit() error {
	if c.phase != PhaseEditing {
		return c.wrongPhase("cancel edit")
	}
	if c.busy() {
		return ErrBusy
	}
	c.draft = c.confirmed
	c.phase = PhaseViewing
	return nil
}

// SubmitUpdate validates the draft and sends it. A draft with a missing
// field is rejected with a *student.ValidationError before any request.
func (c *Controller) SubmitUpdate() (tea.Cmd, error) {
	if c.phase != PhaseEditing {
		return nil, c.wrongPhase("update")
	}
	if c.busy() {
		return nil, ErrBusy
	}
	if err := c.draft.ValidateRemote(); err != nil {
		c.notify(LevelError, msgFieldsMissing)
		return nil, err
	}

	patch := student.Diff(c.confirmed, c.draft)
	if patch.Empty() {
		patch = student.FullPatch(c.draft)
	}
	c.inflight[c.id] = true
	c.notify(LevelInfo, msgUpdating)
	c.log.WithField("student_id", c.id).Info("updating student")

	ctx, gen, id, api, sent := c.ctx, c.gen, c.id, c.api, c.draft
	return func() tea.Msg {
		s, err := api.PatchByID(ctx, id, patch)
		return patchedMsg{gen: gen, id: id, sent: sent, student: s, err: err}
	}, nil
}

// RequestDelete asks for confirmation before deleting.
func (c *Controller) RequestDelete() error {
	if c.busy() {
		return ErrBusy
	}
	if c.phase != PhaseViewing {
		return c.wrongPhase("delete")
	}
	c.confirming = true
	return nil
}

// ConfirmDelete answers the confirmation. A no returns to viewing; a yes
// sends the delete.
func (c *Controller) ConfirmDelete(yes bool) (tea.Cmd, error) {
	if c.busy() {
		return nil, ErrBusy
	}
	if !c.confirming {
		return nil, c.wrongPhase("confirm delete")
	}
	c.confirming = false
	if !yes {
		return nil, nil
	}
	c.inflight[c.id] = true
	c.notify(LevelInfo, msgDeleting)
	c.log.WithField("student_id", c.id).Info("deleting student")

	ctx, gen, id, api := c.ctx, c.gen, c.id, c.api
	return func() tea.Msg {
		return deletedMsg{gen: gen, id: id, err: api.DeleteByID(ctx, id)}
	}, nil
}

// Update applies a command result. Fetches from an earlier mount and
// unrelated messages are ignored. A mutation result always clears the busy
// guard for its student and is applied when that student is still mounted.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case fetchedMsg:
		if msg.gen != c.gen || c.phase == PhaseDeleted {
			return nil
		}
		return c.applyFetch(msg)
	case patchedMsg:
		delete(c.inflight, msg.id)
		if !c.showing(msg.gen, msg.id) {
			return nil
		}
		c.applyPatch(msg)
	case deletedMsg:
		delete(c.inflight, msg.id)
		if !c.showing(msg.gen, msg.id) {
			return nil
		}
		return c.applyDelete(msg)
	}
	return nil
}

// showing reports whether a result sent under gen for id belongs to the
// current mount or to an earlier mount of the same student.
func (c *Controller) showing(gen uint64, id int64) bool {
	if gen == c.gen {
		return true
	}
	return c.phase != PhaseIdle && c.phase != PhaseDeleted && id == c.id
}

func (c *Controller) applyFetch(msg fetchedMsg) tea.Cmd {
	log := c.log.WithField("student_id", c.id)
	if msg.err != nil {
		c.phase = PhaseLoadError
		c.loadErr = msg.err
		c.notify(LevelError, remote.Message(msg.err, msgFetchFailed))
		log.WithError(msg.err).WithField("kind", remote.Classify(msg.err).String()).Warn("fetch failed")
		return navigate(RouteList)
	}
	c.confirmed = msg.student
	c.draft = msg.student
	c.phase = PhaseViewing
	log.Debug("fetched student")
	return nil
}

func (c *Controller) applyPatch(msg patchedMsg) {
	log := c.log.WithField("student_id", c.id)
	if msg.err != nil {
		c.notify(LevelError, remote.Message(msg.err, msgUpdateFailed))
		log.WithError(msg.err).WithField("kind", remote.Classify(msg.err).String()).Warn("update failed")
		return
	}
	confirmed := msg.student
	if confirmed.ID == 0 {
		confirmed = msg.sent
	}
	c.confirmed = confirmed
	c.draft = confirmed
	if c.phase == PhaseEditing {
		c.phase = PhaseViewing
	}
	c.notify(LevelSuccess, msgUpdated)
	log.Info("student updated")
}

func (c *Controller) applyDelete(msg deletedMsg) tea.Cmd {
	log := c.log.WithField("student_id", c.id)
	switch {
	case msg.err == nil:
		c.notify(LevelSuccess, msgDeleted)
		log.Info("student deleted")
	case errors.Is(msg.err, remote.ErrNotFound):
		c.notify(LevelInfo, msgAlreadyGone)
		log.Info("student already deleted")
	default:
		c.notify(LevelError, remote.Message(msg.err, msgDeleteFailed))
		log.WithError(msg.err).WithField("kind", remote.Classify(msg.err).String()).Warn("delete failed")
		return nil
	}
	c.phase = PhaseDeleted
	return navigate(RouteList)
}

func (c *Controller) wrongPhase(op string) error {
	return fmt.Errorf("%w: %s while %s", ErrWrongPhase, op, c.phase)
}

func navigate(r Route) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: r} }
}
