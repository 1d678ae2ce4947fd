package app_test

import (
	"testing"

	"lms-quiz-service/internal/app"
	"lms-quiz-service/internal/domain"
)

func TestPolicyMatrix(t *testing.T) {
	policy := app.NewPolicy()

	cases := []struct {
		role    domain.Role
		action  app.Action
		allowed bool
	}{
		{domain.RoleUser, app.ActionCreateQuiz, false},
		{domain.RoleUser, app.ActionDeleteQuiz, false},
		{domain.RoleUser, app.ActionGenerateQuestions, false},
		{domain.RoleUser, app.ActionReadQuizResults, false},
		{domain.RoleUser, app.ActionReadQuiz, true},
		{domain.RoleUser, app.ActionSubmitQuiz, true},
		{domain.RoleUser, app.ActionReadOwnResults, true},
		{domain.RoleInstructor, app.ActionCreateQuiz, true},
		{domain.RoleInstructor, app.ActionReadQuizResults, true},
		{domain.RoleAdmin, app.ActionDeleteQuiz, true},
	}
	for _, tc := range cases {
		decision := policy.Authorize(domain.Principal{UserID: "u", Role: tc.role}, tc.action)
		if decision.Allowed != tc.allowed {
			t.Errorf("%s %s: expected allowed=%v, got %+v", tc.role, tc.action, tc.allowed, decision)
		}
		if !decision.Allowed && decision.Reason == "" {
			t.Errorf("%s %s: denial carries no reason", tc.role, tc.action)
		}
	}
}

func TestPolicyAnswerVisibility(t *testing.T) {
	policy := app.NewPolicy()
	if policy.CanSeeAnswers(domain.Principal{Role: domain.RoleUser}) {
		t.Fatalf("quiz-taking role must not see answers")
	}
	if !policy.CanSeeAnswers(domain.Principal{Role: domain.RoleInstructor}) {
		t.Fatalf("instructor should see answers")
	}
}
