package student

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLocal(t *testing.T) {
	tests := []struct {
		name    string
		in      Student
		missing []Field
	}{
		{"complete", Student{Name: "Ann", Email: "a@x.com", Grade: "A"}, nil},
		{"missing name", Student{Email: "a@x.com", Grade: "A"}, []Field{FieldName}},
		{"whitespace email", Student{Name: "Ann", Email: "  ", Grade: "A"}, []Field{FieldEmail}},
		{"all empty", Student{}, []Field{FieldName, FieldEmail, FieldGrade}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.ValidateLocal()
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.missing, ve.Missing)
		})
	}
}

func TestValidateRemote(t *testing.T) {
	full := Student{
		Name: "Ann", Email: "a@x.com", Grade: "A",
		CurrentPhase: "Phase 2", Course: CourseDataScience,
	}
	assert.NoError(t, full.ValidateRemote())

	noPhase := full
	noPhase.CurrentPhase = ""
	err := noPhase.ValidateRemote()
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "currentPhase")

	badCourse := full
	badCourse.Course = "Basket Weaving"
	err = badCourse.ValidateRemote()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []Field{FieldCourse}, ve.Invalid)
}

func TestParseCourse(t *testing.T) {
	c, err := ParseCourse("  devops ")
	require.NoError(t, err)
	assert.Equal(t, CourseDevOps, c)

	_, err = ParseCourse("Underwater Welding")
	assert.Error(t, err)
}

func TestDiffOnlyCarriesChangedFields(t *testing.T) {
	confirmed := Student{ID: 5, Name: "Ann", Email: "a@x.com", Grade: "A", CurrentPhase: "1", Course: CourseDevOps}
	draft := confirmed
	draft.Grade = "B"

	p := Diff(confirmed, draft)
	require.NotNil(t, p.Grade)
	assert.Equal(t, "B", *p.Grade)
	assert.Nil(t, p.Name)
	assert.Nil(t, p.Course)

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"grade":"B"}`, string(body))

	assert.Equal(t, draft, p.Apply(confirmed))
	assert.True(t, Diff(confirmed, confirmed).Empty())
}

func TestParseField(t *testing.T) {
	f, err := ParseField("current_phase")
	require.NoError(t, err)
	assert.Equal(t, FieldCurrentPhase, f)

	_, err = ParseField("age")
	assert.Error(t, err)
}
