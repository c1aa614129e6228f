// Package roster holds the local student list shown by the list view.
//
// # Persistence
//
// The list is read from a localstore.Store once, in New, and written back in
// full after every operation: Add, Remove, Update, BeginEdit, CommitEdit and
// CancelEdit. Writes are synchronous and never batched. A rejected Add is the
// one exception; nothing changed, so nothing is written.
//
// # Identifiers
//
// New students get NextID: the largest id in the list plus one, or 1 when the
// list is empty. The collection also remembers the largest id it has handed
// out, so removing the newest student and adding another never reissues the
// removed id within a session. Only the list itself is persisted; after a
// restart the rule falls back to the largest surviving id.
//
// # Edit slot
//
// At most one student is edited at a time. BeginEdit replaces the slot and
// returns whatever unsaved draft it held, so a discard is visible to the
// caller rather than silent. CommitEdit validates the draft before writing it.
//
// # Relation to the detail view
//
// The list never talks to the remote API. Edits made through the detail view
// are not copied here and edits made here are not sent to the server; the two
// views keep independent copies of a student.
package roster
