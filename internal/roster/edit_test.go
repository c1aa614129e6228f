package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/roster/internal/student"
)

func TestBeginEdit_ReplacesSlotAndReturnsDiscarded(t *testing.T) {
	a := student.Student{ID: 1, Name: "Ann", Email: "a@x.com", Grade: "A"}
	b := student.Student{ID: 2, Name: "Bo", Email: "b@x.com", Grade: "B"}
	c, store := newCollection(t, a, b)
	saves := store.Saves()

	assert.Nil(t, c.BeginEdit(a))
	c.EditDraft(func(s *student.Student) { s.Name = "Anna" })

	discarded := c.BeginEdit(b)
	require.NotNil(t, discarded)
	assert.Equal(t, "Anna", discarded.Name)

	editing, ok := c.Editing()
	require.True(t, ok)
	assert.Equal(t, b, editing)

	// The discarded draft never reached the list.
	got, _ := c.Find(1)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, saves+2, store.Saves())
}

func TestEditDraft_CannotChangeID(t *testing.T) {
	a := student.Student{ID: 1, Name: "Ann", Email: "a@x.com", Grade: "A"}
	c, _ := newCollection(t, a)

	assert.False(t, c.EditDraft(func(s *student.Student) { s.Name = "x" }))
	c.BeginEdit(a)
	assert.True(t, c.EditDraft(func(s *student.Student) { s.ID = 99; s.Grade = "B" }))

	editing, _ := c.Editing()
	assert.Equal(t, int64(1), editing.ID)
	assert.Equal(t, "B", editing.Grade)
}

func TestCommitEdit_WritesDraftAndClearsSlot(t *testing.T) {
	a := student.Student{ID: 1, Name: "Ann", Email: "a@x.com", Grade: "A"}
	c, store := newCollection(t, a)

	c.BeginEdit(a)
	c.EditDraft(func(s *student.Student) { s.Grade = "A+" })
	ok, err := c.CommitEdit()
	require.NoError(t, err)
	assert.True(t, ok)

	_, editing := c.Editing()
	assert.False(t, editing)
	assert.Equal(t, "A+", store.Load()[0].Grade)
}

func TestCommitEdit_RejectsEmptyFieldAndKeepsDraft(t *testing.T) {
	a := student.Student{ID: 1, Name: "Ann", Email: "a@x.com", Grade: "A"}
	c, store := newCollection(t, a)

	c.BeginEdit(a)
	c.EditDraft(func(s *student.Student) { s.Email = "" })
	ok, err := c.CommitEdit()
	assert.False(t, ok)
	assert.True(t, student.IsValidation(err))

	editing, stillEditing := c.Editing()
	assert.True(t, stillEditing)
	assert.Empty(t, editing.Email)
	assert.Equal(t, "a@x.com", store.Load()[0].Email)
}

func TestCommitEdit_ForRemovedStudentIsNoop(t *testing.T) {
	a := student.Student{ID: 1, Name: "Ann", Email: "a@x.com", Grade: "A"}
	b := student.Student{ID: 2, Name: "Bo", Email: "b@x.com", Grade: "B"}
	c, _ := newCollection(t, a, b)

	c.BeginEdit(b)
	c.Remove(2)
	ok, err := c.CommitEdit()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []student.Student{a}, c.Students())
}

func TestCancelEdit_ReturnsDraft(t *testing.T) {
	a := student.Student{ID: 1, Name: "Ann", Email: "a@x.com", Grade: "A"}
	c, _ := newCollection(t, a)

	assert.Nil(t, c.CancelEdit())
	c.BeginEdit(a)
	discarded := c.CancelEdit()
	require.NotNil(t, discarded)
	assert.Equal(t, a, *discarded)
	_, editing := c.Editing()
	assert.False(t, editing)
}
