package roster

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/localstore"
	"github.com/five82/roster/internal/student"
)

// Collection is the ordered student list behind the list view. Every
// operation writes the whole list through to the store once the in-memory
// step is done.
type Collection struct {
	mu       sync.RWMutex
	students []student.Student
	editing  *student.Student
	highID   int64
	store    localstore.Store
	log      logrus.FieldLogger
	saveErr  error
}

// New loads the collection from store. Load failures surface as an empty
// list, never as an error.
func New(store localstore.Store, log logrus.FieldLogger) *Collection {
	if store == nil {
		store = localstore.NewMemoryStore()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := &Collection{
		store: store,
		log:   log.WithField("component", "roster"),
	}
	c.students = dedupe(store.Load())
	c.highID = NextID(c.students) - 1
	if m, ok := store.(localstore.IDMarker); ok {
		c.highID = max(c.highID, m.LoadHighID())
	}
	c.log.WithField("count", len(c.students)).Debug("loaded students")
	return c
}

// NextID returns max(ids)+1, or 1 for an empty list.
func NextID(list []student.Student) int64 {
	var maxID int64
	for _, s := range list {
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	return maxID + 1
}

// Add validates candidate and appends it with a fresh id. A rejected
// candidate leaves both the list and the store untouched.
func (c *Collection) Add(candidate student.Student) (student.Student, error) {
	if err := candidate.ValidateLocal(); err != nil {
		c.log.WithError(err).Debug("rejected new student")
		return student.Student{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := NextID(c.students)
	if id <= c.highID {
		id = c.highID + 1
	}
	c.highID = id
	added := student.Student{
		ID:    id,
		Name:  candidate.Name,
		Email: candidate.Email,
		Grade: candidate.Grade,
	}
	c.students = append(c.students, added)
	c.persistLocked()
	c.markLocked()
	c.log.WithField("student_id", added.ID).Info("student added")
	return added, nil
}

// Remove deletes the student with id. It reports whether one was removed.
func (c *Collection) Remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := false
	kept := c.students[:0]
	for _, s := range c.students {
		if s.ID == id {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	c.students = kept
	if removed && c.editing != nil && c.editing.ID == id {
		c.editing = nil
	}
	c.persistLocked()
	if removed {
		c.log.WithField("student_id", id).Info("student removed")
	}
	return removed
}

// Update replaces the student whose id matches s.ID. A record missing a
// required field is rejected with a *student.ValidationError; unknown ids
// are a no-op and report false.
func (c *Collection) Update(s student.Student) (bool, error) {
	if err := s.ValidateLocal(); err != nil {
		c.log.WithField("student_id", s.ID).WithError(err).Debug("rejected update")
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	updated := c.updateLocked(s)
	c.persistLocked()
	return updated, nil
}

func (c *Collection) updateLocked(s student.Student) bool {
	for i := range c.students {
		if c.students[i].ID == s.ID {
			c.students[i] = s
			c.log.WithField("student_id", s.ID).Info("student updated")
			return true
		}
	}
	return false
}

// Students returns a copy of the list in display order.
func (c *Collection) Students() []student.Student {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return student.Clone(c.students)
}

// Len returns the number of students.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.students)
}

// Find returns the student with id.
func (c *Collection) Find(id int64) (student.Student, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.students {
		if s.ID == id {
			return s, true
		}
	}
	return student.Student{}, false
}

// LastSaveError returns the error from the most recent write-through, or
// nil if it succeeded. Failed saves never roll back the in-memory list.
func (c *Collection) LastSaveError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.saveErr
}

func (c *Collection) persistLocked() {
	if err := c.store.Save(student.Clone(c.students)); err != nil {
		c.saveErr = err
		c.log.WithError(err).Error("persist students")
		return
	}
	c.saveErr = nil
}

// markLocked records the highest assigned id when the store supports it.
func (c *Collection) markLocked() {
	m, ok := c.store.(localstore.IDMarker)
	if !ok {
		return
	}
	if err := m.SaveHighID(c.highID); err != nil {
		c.saveErr = err
		c.log.WithError(err).Error("persist id mark")
	}
}

func dedupe(list []student.Student) []student.Student {
	seen := make(map[int64]struct{}, len(list))
	out := make([]student.Student, 0, len(list))
	for _, s := range list {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}
