package app

import "lms-quiz-service/internal/domain"

// Action names an operation gated by the policy engine.
type Action string

const (
	ActionCreateQuiz        Action = "quiz:create"
	ActionUpdateQuiz        Action = "quiz:update"
	ActionDeleteQuiz        Action = "quiz:delete"
	ActionReadQuiz          Action = "quiz:read"
	ActionListQuizzes       Action = "quiz:list"
	ActionGenerateQuestions Action = "quiz:generate"
	ActionSubmitQuiz        Action = "submission:create"
	ActionReadOwnResults    Action = "submission:readOwn"
	ActionReadQuizResults   Action = "submission:readByQuiz"
	ActionReadSubmission    Action = "submission:read"
)

// Decision is the outcome of a policy check. Reason is human-readable and
// safe to surface to the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

// Policy is the single authorization capability consulted before every
// operation, replacing per-handler role conditionals.
type Policy struct {
	rules map[Action][]domain.Role
}

func NewPolicy() *Policy {
	authoring := []domain.Role{domain.RoleAdmin, domain.RoleInstructor}
	everyone := []domain.Role{domain.RoleAdmin, domain.RoleInstructor, domain.RoleUser}
	return &Policy{rules: map[Action][]domain.Role{
		ActionCreateQuiz:        authoring,
		ActionUpdateQuiz:        authoring,
		ActionDeleteQuiz:        authoring,
		ActionGenerateQuestions: authoring,
		ActionReadQuizResults:   authoring,
		ActionReadQuiz:          everyone,
		ActionListQuizzes:       everyone,
		ActionSubmitQuiz:        everyone,
		ActionReadOwnResults:    everyone,
		ActionReadSubmission:    everyone, // ownership enforced by the service
	}}
}

// Authorize answers whether the principal may perform the action.
func (p *Policy) Authorize(principal domain.Principal, action Action) Decision {
	roles, ok := p.rules[action]
	if !ok {
		return Decision{Allowed: false, Reason: "unknown action " + string(action)}
	}
	for _, role := range roles {
		if principal.Role == role {
			return Decision{Allowed: true}
		}
	}
	return Decision{Allowed: false, Reason: string(principal.Role) + " may not " + string(action)}
}

// CanSeeAnswers reports whether the role may read correct-option indices.
// Quiz-taking roles get redacted quizzes.
func (p *Policy) CanSeeAnswers(principal domain.Principal) bool {
	return principal.Role == domain.RoleAdmin || principal.Role == domain.RoleInstructor
}
