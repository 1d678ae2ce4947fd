package app_test

import (
	"context"
	"errors"
	"testing"

	"lms-quiz-service/internal/app"
	"lms-quiz-service/internal/domain"
	"lms-quiz-service/internal/infra/memory"
)

func newAuthoringService() (*app.AuthoringService, *memory.QuizStore) {
	store := memory.NewQuizStore()
	courses := memory.NewCourseDirectory(map[string]domain.Course{
		"course-1": {ID: "course-1", Title: "Go"},
	})
	return app.NewAuthoringService(store, courses, nil), store
}

func validDraft() app.QuizDraft {
	return app.QuizDraft{
		Title:       "Basics",
		Description: "Warm-up",
		Questions: []domain.Question{
			{Prompt: "pick one", Options: []string{"a", "b", "c", "d"}, CorrectOption: 2},
		},
	}
}

func TestCreateQuizAssignsIDsAndDefaults(t *testing.T) {
	service, _ := newAuthoringService()

	quiz, err := service.CreateQuiz(context.Background(), "course-1", "instructor-1", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if quiz.ID == "" || quiz.Questions[0].ID == "" {
		t.Fatalf("expected ids assigned, got %+v", quiz)
	}
	if quiz.Questions[0].Timeout != domain.DefaultQuestionTimeout {
		t.Fatalf("expected default timeout, got %d", quiz.Questions[0].Timeout)
	}
	if quiz.CreatedBy != "instructor-1" {
		t.Fatalf("expected author recorded, got %q", quiz.CreatedBy)
	}
}

func TestCreateQuizRejectsBadQuestionBeforePersisting(t *testing.T) {
	service, store := newAuthoringService()

	draft := validDraft()
	draft.Questions = []domain.Question{
		{Prompt: "short one", Options: []string{"a", "b", "c"}, CorrectOption: 3},
	}
	_, err := service.CreateQuiz(context.Background(), "course-1", "instructor-1", draft)
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	quizzes, err := store.QuizzesByCourse(context.Background(), "course-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quizzes) != 0 {
		t.Fatalf("expected nothing persisted, got %d", len(quizzes))
	}
}

func TestCreateQuizValidation(t *testing.T) {
	service, _ := newAuthoringService()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*app.QuizDraft)
	}{
		{"empty title", func(d *app.QuizDraft) { d.Title = "  " }},
		{"empty description", func(d *app.QuizDraft) { d.Description = "" }},
		{"no questions", func(d *app.QuizDraft) { d.Questions = nil }},
		{"empty prompt", func(d *app.QuizDraft) { d.Questions[0].Prompt = "" }},
		{"blank option", func(d *app.QuizDraft) { d.Questions[0].Options[2] = " " }},
		{"correct option out of range", func(d *app.QuizDraft) { d.Questions[0].CorrectOption = 4 }},
		{"negative correct option", func(d *app.QuizDraft) { d.Questions[0].CorrectOption = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := validDraft()
			tc.mutate(&draft)
			_, err := service.CreateQuiz(ctx, "course-1", "instructor-1", draft)
			var validation *domain.ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCreateQuizUnknownCourse(t *testing.T) {
	service, _ := newAuthoringService()
	_, err := service.CreateQuiz(context.Background(), "no-such-course", "instructor-1", validDraft())
	if !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected course not found, got %v", err)
	}
}

func TestUpdateQuizReplacesSuppliedFields(t *testing.T) {
	service, _ := newAuthoringService()
	ctx := context.Background()

	quiz, err := service.CreateQuiz(ctx, "course-1", "instructor-1", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Renamed"
	updated, err := service.UpdateQuiz(ctx, quiz.ID, app.QuizUpdate{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Renamed" || updated.Description != quiz.Description {
		t.Fatalf("expected only title replaced, got %+v", updated)
	}

	// replaced question lists are re-validated with create's rules
	_, err = service.UpdateQuiz(ctx, quiz.ID, app.QuizUpdate{
		Questions: []domain.Question{{Prompt: "bad", Options: []string{"a", "b"}, CorrectOption: 0}},
	})
	var validation *domain.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError on invalid replacement, got %v", err)
	}
}

func TestUpdateUnknownQuiz(t *testing.T) {
	service, _ := newAuthoringService()
	title := "x"
	_, err := service.UpdateQuiz(context.Background(), "missing", app.QuizUpdate{Title: &title})
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

func TestDeleteQuizSecondDeleteFails(t *testing.T) {
	service, _ := newAuthoringService()
	ctx := context.Background()

	quiz, err := service.CreateQuiz(ctx, "course-1", "instructor-1", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := service.DeleteQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := service.DeleteQuiz(ctx, quiz.ID); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected second delete to fail with not found, got %v", err)
	}
}

func TestQuizzesByCourseEmptyIsNotAnError(t *testing.T) {
	service, _ := newAuthoringService()

	summaries, err := service.QuizzesByCourse(context.Background(), "course-1")
	if err != nil {
		t.Fatalf("expected empty list, got error %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected no summaries, got %d", len(summaries))
	}

	if _, err := service.QuizzesByCourse(context.Background(), "missing"); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected course not found, got %v", err)
	}
}

func TestQuizzesByCourseOmitsQuestions(t *testing.T) {
	service, _ := newAuthoringService()
	ctx := context.Background()

	if _, err := service.CreateQuiz(ctx, "course-1", "instructor-1", validDraft()); err != nil {
		t.Fatalf("create: %v", err)
	}
	summaries, err := service.QuizzesByCourse(ctx, "course-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(summaries))
	}
	if summaries[0].QuestionCount != 1 {
		t.Fatalf("expected question count projection, got %+v", summaries[0])
	}
}
