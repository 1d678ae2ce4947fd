package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"lms-quiz-service/internal/domain"
)

func TestQuizStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStore()

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	first := domain.Quiz{ID: "a", CourseID: "c1", Title: "first", CreatedAt: base.Add(time.Hour)}
	second := domain.Quiz{ID: "b", CourseID: "c1", Title: "second", CreatedAt: base}

	if err := store.CreateQuiz(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreateQuiz(ctx, second); err != nil {
		t.Fatalf("create: %v", err)
	}

	quizzes, err := store.QuizzesByCourse(ctx, "c1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quizzes) != 2 || quizzes[0].ID != "b" {
		t.Fatalf("expected creation-time order, got %+v", quizzes)
	}

	if err := store.DeleteQuiz(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetQuiz(ctx, "a"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.ReplaceQuiz(ctx, first); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected replace of deleted quiz to fail, got %v", err)
	}
}
