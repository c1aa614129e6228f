// Package student defines the student record shared by the list and detail views.
package student

import (
	"fmt"
	"strings"
)

// Student is a single student record. CurrentPhase and Course are only
// populated by the remote API; the local list keeps them empty.
type Student struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Grade        string `json:"grade"`
	CurrentPhase string `json:"currentPhase,omitempty"`
	Course       Course `json:"course,omitempty"`
}

// Field names an editable attribute.
type Field string

const (
	FieldName         Field = "name"
	FieldEmail        Field = "email"
	FieldGrade        Field = "grade"
	FieldCurrentPhase Field = "currentPhase"
	FieldCourse       Field = "course"
)

// LocalFields are required for records kept in the local list.
var LocalFields = []Field{FieldName, FieldEmail, FieldGrade}

// RemoteFields are required before a remote update is issued.
var RemoteFields = []Field{FieldName, FieldEmail, FieldGrade, FieldCurrentPhase, FieldCourse}

// ParseField resolves a field name, accepting the json spelling or a
// case-insensitive variant ("current_phase", "phase" included).
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "name":
		return FieldName, nil
	case "email":
		return FieldEmail, nil
	case "grade":
		return FieldGrade, nil
	case "currentphase", "current_phase", "current-phase", "phase":
		return FieldCurrentPhase, nil
	case "course":
		return FieldCourse, nil
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// Get returns the value of f.
func (s Student) Get(f Field) string {
	switch f {
	case FieldName:
		return s.Name
	case FieldEmail:
		return s.Email
	case FieldGrade:
		return s.Grade
	case FieldCurrentPhase:
		return s.CurrentPhase
	case FieldCourse:
		return string(s.Course)
	}
	return ""
}

// Set assigns value to f. Unknown fields are ignored.
func (s *Student) Set(f Field, value string) {
	switch f {
	case FieldName:
		s.Name = value
	case FieldEmail:
		s.Email = value
	case FieldGrade:
		s.Grade = value
	case FieldCurrentPhase:
		s.CurrentPhase = value
	case FieldCourse:
		s.Course = Course(value)
	}
}

// ValidateLocal checks the fields required by the local list.
func (s Student) ValidateLocal() error {
	return s.validate(LocalFields, false)
}

// ValidateRemote checks every field required by a remote update, including
// that Course is one of the known courses.
func (s Student) ValidateRemote() error {
	return s.validate(RemoteFields, true)
}

func (s Student) validate(fields []Field, checkCourse bool) error {
	var missing []Field
	for _, f := range fields {
		if strings.TrimSpace(s.Get(f)) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	if checkCourse && !s.Course.Valid() {
		return &ValidationError{Invalid: []Field{FieldCourse}}
	}
	return nil
}

// Clone returns a copy of the slice.
func Clone(list []Student) []Student {
	if len(list) == 0 {
		return nil
	}
	dup := make([]Student, len(list))
	copy(dup, list)
	return dup
}
