package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"lms-quiz-service/internal/domain"
)

// CourseDirectory resolves course references against the courses table
// owned by the wider LMS.
type CourseDirectory struct {
	pool *pgxpool.Pool
}

func NewCourseDirectory(pool *pgxpool.Pool) *CourseDirectory {
	return &CourseDirectory{pool: pool}
}

func (d *CourseDirectory) GetCourse(ctx context.Context, courseID string) (domain.Course, error) {
	var course domain.Course
	err := d.pool.QueryRow(ctx,
		`SELECT id, title FROM courses WHERE id = $1`, courseID).Scan(&course.ID, &course.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Course{}, domain.ErrCourseNotFound
	}
	if err != nil {
		return domain.Course{}, fmt.Errorf("load course: %w", err)
	}
	return course, nil
}
