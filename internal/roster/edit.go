package roster

import "github.com/five82/roster/internal/student"

// BeginEdit puts s in the edit slot. If another edit was in progress it is
// discarded and returned so callers can tell the user.
func (c *Collection) BeginEdit(s student.Student) (discarded *student.Student) {
	c.mu.Lock()
	defer c.mu.Unlock()

	discarded = c.editing
	draft := s
	c.editing = &draft
	c.persistLocked()
	if discarded != nil && discarded.ID != s.ID {
		c.log.WithField("student_id", discarded.ID).Info("discarded unsaved edit")
	}
	return discarded
}

// Editing returns a copy of the student in the edit slot.
func (c *Collection) Editing() (student.Student, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.editing == nil {
		return student.Student{}, false
	}
	return *c.editing, true
}

// EditDraft mutates the edit slot in memory. It reports false when nothing
// is being edited. The id cannot be changed.
func (c *Collection) EditDraft(mutate func(*student.Student)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing == nil {
		return false
	}
	id := c.editing.ID
	mutate(c.editing)
	c.editing.ID = id
	return true
}

// CommitEdit writes the edit slot back into the list and clears the slot.
// A draft with an empty required field is rejected and stays in the slot.
func (c *Collection) CommitEdit() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing == nil {
		return false, nil
	}
	if err := c.editing.ValidateLocal(); err != nil {
		return false, err
	}
	updated := c.updateLocked(*c.editing)
	c.editing = nil
	c.persistLocked()
	return updated, nil
}

// CancelEdit clears the edit slot and returns what it held.
func (c *Collection) CancelEdit() (discarded *student.Student) {
	c.mu.Lock()
	defer c.mu.Unlock()
	discarded = c.editing
	c.editing = nil
	c.persistLocked()
	return discarded
}
