package memory

import (
	"context"

	"lms-quiz-service/internal/domain"
)

// CourseDirectory is a static implementation of app.CourseDirectory backed
// by an in-memory map (useful for dev mode and tests).
type CourseDirectory struct {
	courses map[string]domain.Course
}

func NewCourseDirectory(courses map[string]domain.Course) *CourseDirectory {
	return &CourseDirectory{courses: courses}
}

func (d *CourseDirectory) GetCourse(_ context.Context, courseID string) (domain.Course, error) {
	if course, ok := d.courses[courseID]; ok {
		return course, nil
	}
	return domain.Course{}, domain.ErrCourseNotFound
}
