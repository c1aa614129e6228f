package student

// Patch is a partial update body for the remote API. Nil fields are left
// untouched by the server.
type Patch struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Grade        *string `json:"grade,omitempty"`
	CurrentPhase *string `json:"currentPhase,omitempty"`
	Course       *Course `json:"course,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Grade == nil &&
		p.CurrentPhase == nil && p.Course == nil
}

// Apply returns s with the patch applied.
func (p Patch) Apply(s Student) Student {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Grade != nil {
		s.Grade = *p.Grade
	}
	if p.CurrentPhase != nil {
		s.CurrentPhase = *p.CurrentPhase
	}
	if p.Course != nil {
		s.Course = *p.Course
	}
	return s
}

// FullPatch carries every editable field of s.
func FullPatch(s Student) Patch {
	name, email, grade, phase, course := s.Name, s.Email, s.Grade, s.CurrentPhase, s.Course
	return Patch{Name: &name, Email: &email, Grade: &grade, CurrentPhase: &phase, Course: &course}
}

// Diff returns a patch holding only the editable fields of draft that differ
// from confirmed.
func Diff(confirmed, draft Student) Patch {
	var p Patch
	if draft.Name != confirmed.Name {
		v := draft.Name
		p.Name = &v
	}
	if draft.Email != confirmed.Email {
		v := draft.Email
		p.Email = &v
	}
	if draft.Grade != confirmed.Grade {
		v := draft.Grade
		p.Grade = &v
	}
	if draft.CurrentPhase != confirmed.CurrentPhase {
		v := draft.CurrentPhase
		p.CurrentPhase = &v
	}
	if draft.Course != confirmed.Course {
		v := draft.Course
		p.Course = &v
	}
	return p
}
