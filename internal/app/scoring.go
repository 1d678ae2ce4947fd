package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"lms-quiz-service/internal/domain"
)

// QuizReader is the read-only quiz access scoring needs. The cached
// repository satisfies it in production.
type QuizReader interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// SubmissionStore persists scored submissions. InsertSubmission must be a
// single atomic write; partial submissions are never visible.
type SubmissionStore interface {
	InsertSubmission(ctx context.Context, submission domain.Submission) error
	SubmissionsByUser(ctx context.Context, userID string) ([]domain.Submission, error)
	SubmissionsByQuiz(ctx context.Context, quizID string) ([]domain.Submission, error)
	GetSubmission(ctx context.Context, submissionID string) (domain.Submission, error)
}

// StreakRecorder marks a user active today. It is a best-effort
// collaborator: failures are logged by the caller and never propagated.
type StreakRecorder interface {
	RecordActivity(ctx context.Context, userID string) error
}

// SubmissionService wraps the scoring engine with persistence, the streak
// side effect, and the reporting read paths.
type SubmissionService struct {
	quizzes     QuizReader
	submissions SubmissionStore
	streaks     StreakRecorder
	now         func() time.Time
	newID       func() string
}

func NewSubmissionService(quizzes QuizReader, submissions SubmissionStore, streaks StreakRecorder) *SubmissionService {
	return &SubmissionService{
		quizzes:     quizzes,
		submissions: submissions,
		streaks:     streaks,
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
}

// Submit scores the answer set against the quiz, persists the submission,
// and fires the streak side effect. The submission snapshot is immutable
// from here on.
func (s *SubmissionService) Submit(ctx context.Context, quizID, userID string, answers []domain.AnswerInput) (domain.Submission, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Submission{}, err
	}

	submission, err := Score(quiz, userID, answers)
	if err != nil {
		return domain.Submission{}, err
	}
	submission.ID = s.newID()
	submission.AttemptedAt = s.now()

	if err := s.submissions.InsertSubmission(ctx, submission); err != nil {
		return domain.Submission{}, fmt.Errorf("persist submission: %w", err)
	}

	// A failed streak update must not invalidate the submission.
	if err := s.streaks.RecordActivity(ctx, userID); err != nil {
		log.Printf("streak update for user %s failed: %v", userID, err)
	}
	return submission, nil
}

// Score evaluates an answer set against a quiz. An answer referencing an
// unknown question id fails the whole submission; a selected option outside
// the question's option range is simply incorrect and the remaining answers
// are still scored.
func Score(quiz domain.Quiz, userID string, answers []domain.AnswerInput) (domain.Submission, error) {
	scored := make([]domain.Answer, 0, len(answers))
	correct := 0
	for _, input := range answers {
		question, ok := quiz.QuestionByID(input.QuestionID)
		if !ok {
			return domain.Submission{}, &domain.InvalidQuestionError{QuestionID: input.QuestionID}
		}
		isCorrect := input.SelectedOption >= 0 &&
			input.SelectedOption < len(question.Options) &&
			input.SelectedOption == question.CorrectOption
		if isCorrect {
			correct++
		}
		timeTaken := input.TimeTaken
		if timeTaken < 0 {
			timeTaken = 0
		}
		scored = append(scored, domain.Answer{
			QuestionID:     input.QuestionID,
			SelectedOption: input.SelectedOption,
			IsCorrect:      isCorrect,
			TimeTaken:      timeTaken,
		})
	}

	return domain.Submission{
		UserID:         userID,
		QuizID:         quiz.ID,
		CourseID:       quiz.CourseID,
		Answers:        scored,
		Score:          correct,
		TotalQuestions: len(scored),
		CorrectAnswers: correct,
	}, nil
}

// UserSubmissions returns all submissions for a user. The store does not
// order them; display ordering belongs to the caller.
func (s *SubmissionService) UserSubmissions(ctx context.Context, userID string) ([]domain.Submission, error) {
	return s.submissions.SubmissionsByUser(ctx, userID)
}

// QuizSubmissions returns every submission against a quiz (instructor view).
func (s *SubmissionService) QuizSubmissions(ctx context.Context, quizID string) ([]domain.Submission, error) {
	return s.submissions.SubmissionsByQuiz(ctx, quizID)
}

// SubmissionByID fetches one submission, restricted to its owner or a
// privileged role.
func (s *SubmissionService) SubmissionByID(ctx context.Context, principal domain.Principal, submissionID string) (domain.Submission, error) {
	submission, err := s.submissions.GetSubmission(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, err
	}
	if submission.UserID != principal.UserID && principal.Role == domain.RoleUser {
		return domain.Submission{}, domain.ErrForbidden
	}
	return submission, nil
}

// QuizStatistics computes read-time aggregates over a quiz's submissions.
// Nothing is precomputed or stored.
func (s *SubmissionService) QuizStatistics(ctx context.Context, quizID string) (domain.QuizStats, error) {
	submissions, err := s.submissions.SubmissionsByQuiz(ctx, quizID)
	if err != nil {
		return domain.QuizStats{}, err
	}
	stats := domain.QuizStats{QuizID: quizID, Attempts: len(submissions)}
	if len(submissions) == 0 {
		return stats, nil
	}
	total := 0
	for _, sub := range submissions {
		total += sub.Score
		if sub.Score > stats.HighScore {
			stats.HighScore = sub.Score
		}
	}
	stats.AverageScore = float64(total) / float64(len(submissions))
	return stats, nil
}
