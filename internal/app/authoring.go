package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lms-quiz-service/internal/domain"
)

// QuizStore abstracts quiz persistence (in-memory, Postgres, etc).
type QuizStore interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	// ReplaceQuiz overwrites the stored document. Last write wins; quiz
	// edits carry no concurrency control.
	ReplaceQuiz(ctx context.Context, quiz domain.Quiz) error
	DeleteQuiz(ctx context.Context, quizID string) error
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	QuizzesByCourse(ctx context.Context, courseID string) ([]domain.Quiz, error)
}

// CourseDirectory resolves course references owned by the wider LMS.
type CourseDirectory interface {
	GetCourse(ctx context.Context, courseID string) (domain.Course, error)
}

// QuizCacheInvalidator drops a cached quiz after an edit so scoring never
// sees stale correct answers. Implementations are best-effort.
type QuizCacheInvalidator interface {
	InvalidateQuiz(ctx context.Context, quizID string)
}

// AuthoringService owns the quiz catalog: create, update, delete, and the
// read paths used by course pages.
type AuthoringService struct {
	quizzes QuizStore
	courses CourseDirectory
	cache   QuizCacheInvalidator // may be nil
	now     func() time.Time
	newID   func() string
}

func NewAuthoringService(quizzes QuizStore, courses CourseDirectory, cache QuizCacheInvalidator) *AuthoringService {
	return &AuthoringService{
		quizzes: quizzes,
		courses: courses,
		cache:   cache,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// QuizDraft is the authoring input for create and for question replacement
// on update.
type QuizDraft struct {
	Title       string
	Description string
	Questions   []domain.Question
}

// CreateQuiz validates the draft, checks the course reference, and persists
// a new quiz. Question sub-ids are assigned here when absent.
func (s *AuthoringService) CreateQuiz(ctx context.Context, courseID, createdBy string, draft QuizDraft) (domain.Quiz, error) {
	if err := validateDraft(draft); err != nil {
		return domain.Quiz{}, err
	}
	if _, err := s.courses.GetCourse(ctx, courseID); err != nil {
		return domain.Quiz{}, err
	}

	now := s.now()
	quiz := domain.Quiz{
		ID:          s.newID(),
		CourseID:    courseID,
		Title:       draft.Title,
		Description: draft.Description,
		Questions:   s.normalizeQuestions(draft.Questions),
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.quizzes.CreateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

// QuizUpdate carries full-replacement values; nil fields are left alone.
type QuizUpdate struct {
	Title       *string
	Description *string
	Questions   []domain.Question
}

// UpdateQuiz replaces any supplied field wholesale, re-validating a replaced
// question list with the same rules as create.
func (s *AuthoringService) UpdateQuiz(ctx context.Context, quizID string, update QuizUpdate) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return domain.Quiz{}, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
		}
		quiz.Title = *update.Title
	}
	if update.Description != nil {
		if strings.TrimSpace(*update.Description) == "" {
			return domain.Quiz{}, &domain.ValidationError{Field: "description", Reason: "must not be empty"}
		}
		quiz.Description = *update.Description
	}
	if update.Questions != nil {
		if err := validateQuestions(update.Questions); err != nil {
			return domain.Quiz{}, err
		}
		quiz.Questions = s.normalizeQuestions(update.Questions)
	}
	quiz.UpdatedAt = s.now()

	if err := s.quizzes.ReplaceQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, err
	}
	if s.cache != nil {
		s.cache.InvalidateQuiz(ctx, quizID)
	}
	return quiz, nil
}

// DeleteQuiz removes the quiz. A second delete fails with not-found; there
// is nothing left to delete. Submissions referencing the quiz survive as
// historical records.
func (s *AuthoringService) DeleteQuiz(ctx context.Context, quizID string) error {
	if err := s.quizzes.DeleteQuiz(ctx, quizID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.InvalidateQuiz(ctx, quizID)
	}
	return nil
}

// QuizzesByCourse lists a course's quizzes as summaries, ordered by
// creation time. A course with no quizzes yields an empty list, not an
// error; the course reference itself is still checked.
func (s *AuthoringService) QuizzesByCourse(ctx context.Context, courseID string) ([]domain.QuizSummary, error) {
	if _, err := s.courses.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	quizzes, err := s.quizzes.QuizzesByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, quiz.Summary())
	}
	return summaries, nil
}

// QuizByID returns the full quiz, correct answers included. Redaction for
// quiz-taking roles happens at the transport boundary.
func (s *AuthoringService) QuizByID(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

func (s *AuthoringService) normalizeQuestions(questions []domain.Question) []domain.Question {
	out := make([]domain.Question, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			q.ID = s.newID()
		}
		if q.Timeout <= 0 {
			q.Timeout = domain.DefaultQuestionTimeout
		}
		out[i] = q
	}
	return out
}

func validateDraft(draft QuizDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(draft.Description) == "" {
		return &domain.ValidationError{Field: "description", Reason: "must not be empty"}
	}
	return validateQuestions(draft.Questions)
}

// optionCount is fixed by every authoring path in this system; the scoring
// engine still validates indices per answer instead of assuming it.
const optionCount = 4

func validateQuestions(questions []domain.Question) error {
	if len(questions) == 0 {
		return &domain.ValidationError{Field: "questions", Reason: "must contain at least one question"}
	}
	for i, q := range questions {
		field := fmt.Sprintf("questions[%d]", i)
		if strings.TrimSpace(q.Prompt) == "" {
			return &domain.ValidationError{Field: field + ".question", Reason: "must not be empty"}
		}
		if len(q.Options) != optionCount {
			return &domain.ValidationError{
				Field:  field + ".options",
				Reason: fmt.Sprintf("must contain exactly %d options", optionCount),
			}
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return &domain.ValidationError{
					Field:  fmt.Sprintf("%s.options[%d]", field, j),
					Reason: "must not be empty",
				}
			}
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return &domain.ValidationError{Field: field + ".correctOption", Reason: "out of range"}
		}
		if q.Timeout < 0 {
			return &domain.ValidationError{Field: field + ".timeout", Reason: "must be positive"}
		}
	}
	return nil
}
