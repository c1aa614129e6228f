// Package ui provides the Bubble Tea TUI for roster.
//
// # Views
//
// The list view shows the local student collection as a table. From there a
// student can be added, edited in place or removed; every change is written
// through to the local store by the roster package. Enter opens the detail
// view for the selected id.
//
// The detail view is driven by a detail.Controller. It fetches the student
// from the remote API, offers an edit form covering every remote field, and
// a two-step delete. When the controller emits detail.NavigateMsg the model
// returns to the list view.
//
// # Notices
//
// Controller notices and list-view messages are shown as toasts under the
// main content. Each toast expires after Options.ToastTTL.
//
// # Forms
//
// Forms are columns of bubbles textinput fields. Every keystroke that changes
// a value is mirrored into the backing draft at once, so the draft, not the
// form, is the source of truth on submit.
//
// # Key Bindings
//
// Global: q quit, ? help, T cycle theme (saved to the prefs file).
// List: j/k move, enter details, a add, e edit, x remove.
// Detail: e edit, d delete (y/n to confirm), r reload, esc back.
// Forms: tab/shift+tab move between fields, enter save, esc cancel.
package ui
