package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound indicates the referenced quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrCourseNotFound indicates the referenced course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrSubmissionNotFound indicates the referenced submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrForbidden is returned when the policy engine denies an operation.
	ErrForbidden = errors.New("operation not permitted")
)

// ValidationError reports malformed input to an authoring operation. It
// names the offending field so callers can correct the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidQuestionError reports a submitted answer referencing a question id
// absent from the quiz. Scoring treats this as a whole-submission failure.
type InvalidQuestionError struct {
	QuestionID string
}

func (e *InvalidQuestionError) Error() string {
	return fmt.Sprintf("invalid question id: %s", e.QuestionID)
}

// IncompleteAnswersError rejects a strict-mode submit with unanswered
// questions, carrying the first unanswered index (0-based) so the caller
// can navigate there.
type IncompleteAnswersError struct {
	FirstUnanswered int
}

func (e *IncompleteAnswersError) Error() string {
	return fmt.Sprintf("question %d is unanswered", e.FirstUnanswered+1)
}

// GenerationError reports an unparseable or structurally invalid payload
// from the text-generation collaborator. Retry is up to the caller.
type GenerationError struct {
	Reason string
}

func (e *GenerationError) Error() string {
	return "question generation failed: " + e.Reason
}
