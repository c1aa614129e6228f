package student

import (
	"fmt"
	"strings"
)

// Course is one of the programmes a student can be enrolled in.
type Course string

const (
	CourseSoftwareEngineering Course = "Software Engineering"
	CourseCyberSecurity       Course = "Cyber Security"
	CourseDataScience         Course = "Data Science"
	CourseProductDesign       Course = "Product Design"
	CourseDevOps              Course = "DevOps"
)

var courses = []Course{
	CourseSoftwareEngineering,
	CourseCyberSecurity,
	CourseDataScience,
	CourseProductDesign,
	CourseDevOps,
}

// Courses returns the known courses in display order.
func Courses() []Course {
	dup := make([]Course, len(courses))
	copy(dup, courses)
	return dup
}

// Valid reports whether c is a known course.
func (c Course) Valid() bool {
	for _, known := range courses {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCourse matches value against the known courses ignoring case and
// surrounding whitespace.
func ParseCourse(value string) (Course, error) {
	trimmed := strings.TrimSpace(value)
	for _, known := range courses {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown course %q", value)
}
