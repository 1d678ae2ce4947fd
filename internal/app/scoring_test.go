package app_test

import (
	"context"
	"errors"
	"testing"

	"lms-quiz-service/internal/app"
	"lms-quiz-service/internal/domain"
	"lms-quiz-service/internal/infra/memory"
)

type failingStreak struct{ calls int }

func (s *failingStreak) RecordActivity(context.Context, string) error {
	s.calls++
	return errors.New("streak store unreachable")
}

func newSubmissionService(t *testing.T, streaks app.StreakRecorder) (*app.SubmissionService, *memory.SubmissionStore) {
	t.Helper()
	store := memory.NewSubmissionStore()
	quizzes := memory.NewSeededQuizStore(twoQuestionQuiz())
	if streaks == nil {
		streaks = memory.NewStreakLog()
	}
	return app.NewSubmissionService(quizzes, store, streaks), store
}

func TestSubmitScoresAllCorrect(t *testing.T) {
	service, _ := newSubmissionService(t, nil)

	submission, err := service.Submit(context.Background(), "quiz-1", "u1", []domain.AnswerInput{
		{QuestionID: "q1", SelectedOption: 1, TimeTaken: 10},
		{QuestionID: "q2", SelectedOption: 3, TimeTaken: 5},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submission.Score != 2 || submission.CorrectAnswers != 2 || submission.TotalQuestions != 2 {
		t.Fatalf("expected perfect score snapshot, got %+v", submission)
	}
	if submission.CourseID != "course-1" {
		t.Fatalf("expected courseId denormalized from quiz, got %q", submission.CourseID)
	}
	if !submission.Answers[0].IsCorrect || !submission.Answers[1].IsCorrect {
		t.Fatalf("expected both answers correct, got %+v", submission.Answers)
	}
}

func TestSubmitScoresPartiallyCorrect(t *testing.T) {
	service, _ := newSubmissionService(t, nil)

	submission, err := service.Submit(context.Background(), "quiz-1", "u1", []domain.AnswerInput{
		{QuestionID: "q1", SelectedOption: 0, TimeTaken: 10},
		{QuestionID: "q2", SelectedOption: 3, TimeTaken: 5},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submission.Score != 1 {
		t.Fatalf("expected score 1, got %d", submission.Score)
	}
	if submission.Score != submission.CorrectAnswers {
		t.Fatalf("score and correctAnswers disagree: %d vs %d", submission.Score, submission.CorrectAnswers)
	}
}

func TestOutOfRangeSelectionIsIncorrectNotRejected(t *testing.T) {
	service, _ := newSubmissionService(t, nil)

	submission, err := service.Submit(context.Background(), "quiz-1", "u1", []domain.AnswerInput{
		{QuestionID: "q1", SelectedOption: 9},
		{QuestionID: "q2", SelectedOption: 3},
	})
	if err != nil {
		t.Fatalf("expected scoring to proceed, got %v", err)
	}
	if submission.Answers[0].IsCorrect {
		t.Fatalf("expected out-of-range selection scored incorrect")
	}
	if !submission.Answers[1].IsCorrect || submission.Score != 1 {
		t.Fatalf("expected remaining answer scored normally, got %+v", submission)
	}
}

func TestUnknownQuestionFailsWholeSubmission(t *testing.T) {
	service, store := newSubmissionService(t, nil)

	_, err := service.Submit(context.Background(), "quiz-1", "u1", []domain.AnswerInput{
		{QuestionID: "q1", SelectedOption: 1},
		{QuestionID: "ghost", SelectedOption: 0},
	})
	var invalid *domain.InvalidQuestionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidQuestionError, got %v", err)
	}
	if invalid.QuestionID != "ghost" {
		t.Fatalf("expected offending id reported, got %q", invalid.QuestionID)
	}

	persisted, err := store.SubmissionsByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(persisted) != 0 {
		t.Fatalf("expected nothing persisted, got %d submissions", len(persisted))
	}
}

func TestStreakFailureDoesNotFailSubmission(t *testing.T) {
	streak := &failingStreak{}
	service, _ := newSubmissionService(t, streak)

	if _, err := service.Submit(context.Background(), "quiz-1", "u1", []domain.AnswerInput{
		{QuestionID: "q1", SelectedOption: 1},
		{QuestionID: "q2", SelectedOption: 3},
	}); err != nil {
		t.Fatalf("expected submission to succeed despite streak failure, got %v", err)
	}
	if streak.calls != 1 {
		t.Fatalf("expected streak recorder invoked once, got %d", streak.calls)
	}
}

func TestNegativeTimeTakenClamped(t *testing.T) {
	service, _ := newSubmissionService(t, nil)

	submission, err := service.Submit(context.Background(), "quiz-1", "u1", []domain.AnswerInput{
		{QuestionID: "q1", SelectedOption: 1, TimeTaken: -7},
		{QuestionID: "q2", SelectedOption: 3, TimeTaken: 4},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submission.Answers[0].TimeTaken != 0 {
		t.Fatalf("expected negative timeTaken clamped to 0, got %d", submission.Answers[0].TimeTaken)
	}
}

func TestSubmissionReadsAreStable(t *testing.T) {
	service, _ := newSubmissionService(t, nil)

	submission, err := service.Submit(context.Background(), "quiz-1", "u1", []domain.AnswerInput{
		{QuestionID: "q1", SelectedOption: 1},
		{QuestionID: "q2", SelectedOption: 0},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	principal := domain.Principal{UserID: "u1", Role: domain.RoleUser}
	first, err := service.SubmissionByID(context.Background(), principal, submission.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// mutate the returned copy; a re-read must be unaffected
	first.Answers[0].IsCorrect = false
	first.Score = 99

	second, err := service.SubmissionByID(context.Background(), principal, submission.ID)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if second.Score != submission.Score || !second.Answers[0].IsCorrect {
		t.Fatalf("stored submission was mutated through a read: %+v", second)
	}
}

func TestSubmissionOwnershipEnforced(t *testing.T) {
	service, _ := newSubmissionService(t, nil)

	submission, err := service.Submit(context.Background(), "quiz-1", "owner", []domain.AnswerInput{
		{QuestionID: "q1", SelectedOption: 1},
		{QuestionID: "q2", SelectedOption: 3},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	stranger := domain.Principal{UserID: "other", Role: domain.RoleUser}
	if _, err := service.SubmissionByID(context.Background(), stranger, submission.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	instructor := domain.Principal{UserID: "other", Role: domain.RoleInstructor}
	if _, err := service.SubmissionByID(context.Background(), instructor, submission.ID); err != nil {
		t.Fatalf("expected instructor access, got %v", err)
	}
}

func TestQuizStatistics(t *testing.T) {
	service, _ := newSubmissionService(t, nil)

	scores := [][]domain.AnswerInput{
		{{QuestionID: "q1", SelectedOption: 1}, {QuestionID: "q2", SelectedOption: 3}}, // 2
		{{QuestionID: "q1", SelectedOption: 0}, {QuestionID: "q2", SelectedOption: 3}}, // 1
		{{QuestionID: "q1", SelectedOption: 0}, {QuestionID: "q2", SelectedOption: 0}}, // 0
	}
	for i, answers := range scores {
		if _, err := service.Submit(context.Background(), "quiz-1", "u1", answers); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	stats, err := service.QuizStatistics(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Attempts != 3 || stats.HighScore != 2 || stats.AverageScore != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
