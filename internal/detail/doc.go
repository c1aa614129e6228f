// Package detail drives the single-student view backed by the remote API.
//
// A Controller is a Bubble Tea style sub-model. Methods that need the network
// return a tea.Cmd; the command's result comes back as a message that the
// owner passes to Update. The controller never blocks and is only touched
// from the program's update loop.
//
// # Lifecycle
//
// Mount starts a fetch and puts the view in PhaseLoading. A successful fetch
// moves to PhaseViewing with the confirmed record and the draft identical. A
// failed fetch moves to PhaseLoadError, queues an error notice and emits a
// NavigateMsg back to the list.
//
// BeginEdit, SetField and CancelEdit touch only the draft. SubmitUpdate
// validates the draft and issues a PATCH; on success the server's record
// becomes the confirmed record, on failure the view stays in PhaseEditing with
// the draft as the user left it.
//
// Deletion is two steps: RequestDelete asks for confirmation and
// ConfirmDelete(true) issues the DELETE. A successful delete moves to
// PhaseDeleted and navigates back to the list.
//
// Only one mutation may be in flight per student. Calls made while one is
// pending return ErrBusy, including after the student is unmounted and
// mounted again.
//
// Unmount invalidates outstanding fetches. A mutation result that arrives
// after Unmount only releases the busy guard; if the same student has been
// mounted again it is applied to that mount as well.
//
// The detail view does not write to the local list and the local list does
// not read from here; the two hold independent copies of a student.
package detail
