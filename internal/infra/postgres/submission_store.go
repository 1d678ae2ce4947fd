package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"lms-quiz-service/internal/domain"
)

// SubmissionStore persists submissions as JSONB documents. A submission is
// one INSERT and is never updated afterwards; there is no UPDATE statement
// in this file on purpose.
type SubmissionStore struct {
	pool *pgxpool.Pool
}

func NewSubmissionStore(pool *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{pool: pool}
}

func (s *SubmissionStore) InsertSubmission(ctx context.Context, submission domain.Submission) error {
	raw, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO submissions (id, user_id, quiz_id, course_id, data, attempted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		submission.ID, submission.UserID, submission.QuizID, submission.CourseID, raw, submission.AttemptedAt)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *SubmissionStore) SubmissionsByUser(ctx context.Context, userID string) ([]domain.Submission, error) {
	return s.query(ctx, `SELECT data FROM submissions WHERE user_id = $1`, userID)
}

func (s *SubmissionStore) SubmissionsByQuiz(ctx context.Context, quizID string) ([]domain.Submission, error) {
	return s.query(ctx, `SELECT data FROM submissions WHERE quiz_id = $1`, quizID)
}

func (s *SubmissionStore) GetSubmission(ctx context.Context, submissionID string) (domain.Submission, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM submissions WHERE id = $1`, submissionID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return domain.Submission{}, fmt.Errorf("load submission: %w", err)
	}
	var submission domain.Submission
	if err := json.Unmarshal(raw, &submission); err != nil {
		return domain.Submission{}, fmt.Errorf("unmarshal submission: %w", err)
	}
	return submission, nil
}

func (s *SubmissionStore) query(ctx context.Context, sql, arg string) ([]domain.Submission, error) {
	rows, err := s.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []domain.Submission
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		var submission domain.Submission
		if err := json.Unmarshal(raw, &submission); err != nil {
			return nil, fmt.Errorf("unmarshal submission: %w", err)
		}
		submissions = append(submissions, submission)
	}
	return submissions, rows.Err()
}
