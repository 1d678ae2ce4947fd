package domain

import "time"

// Role classifies the caller of a user-scoped operation. Authentication
// itself happens upstream; this core only consumes the result.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleUser       Role = "USER"
)

// Principal is the already-authenticated identity attached to a request.
type Principal struct {
	UserID string
	Role   Role
}

// DefaultQuestionTimeout is applied when an authored question carries no
// explicit time budget.
const DefaultQuestionTimeout = 30

// Question is an MCQ embedded in a Quiz, addressed by a sub-id that is
// stable across quiz updates which keep the question.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
	Timeout       int      `json:"timeout"` // seconds, defaults to 30
}

// Quiz is an ordered set of questions tied to a course. Question order is
// the presentation order.
type Quiz struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"courseId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// QuestionByID looks up an embedded question. The quiz is the only path to
// its questions; there is no global question table.
func (q Quiz) QuestionByID(questionID string) (Question, bool) {
	for i := range q.Questions {
		if q.Questions[i].ID == questionID {
			return q.Questions[i], true
		}
	}
	return Question{}, false
}

// Redacted returns a copy of the quiz safe to hand to a quiz-taking role:
// correct-option indices are blanked so the payload does not leak answers.
func (q Quiz) Redacted() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		question.CorrectOption = -1
		out.Questions[i] = question
	}
	return out
}

// QuizSummary is the questions-omitted projection used by course listings.
type QuizSummary struct {
	ID            string    `json:"id"`
	CourseID      string    `json:"courseId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	QuestionCount int       `json:"questionCount"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Summary projects the quiz into its listing form.
func (q Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		CourseID:      q.CourseID,
		Title:         q.Title,
		Description:   q.Description,
		QuestionCount: len(q.Questions),
		CreatedBy:     q.CreatedBy,
		CreatedAt:     q.CreatedAt,
	}
}

// AnswerInput is the client-supplied portion of an answer, before scoring.
type AnswerInput struct {
	QuestionID     string `json:"questionId"`
	SelectedOption int    `json:"selectedOption"`
	TimeTaken      int    `json:"timeTaken"` // seconds
}

// Answer is a scored answer embedded in a Submission.
type Answer struct {
	QuestionID     string `json:"questionId"`
	SelectedOption int    `json:"selectedOption"`
	IsCorrect      bool   `json:"isCorrect"`
	TimeTaken      int    `json:"timeTaken"`
}

// Submission is the immutable, scored record of one quiz attempt. Nothing
// in this core mutates a submission after it is written.
type Submission struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	QuizID         string    `json:"quizId"`
	CourseID       string    `json:"courseId"`
	Answers        []Answer  `json:"answers"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	AttemptedAt    time.Time `json:"attemptedAt"`
}

// QuizStats are read-time aggregates over a quiz's submissions.
type QuizStats struct {
	QuizID       string  `json:"quizId"`
	Attempts     int     `json:"attempts"`
	HighScore    int     `json:"highScore"`
	AverageScore float64 `json:"averageScore"`
}

// Course is the narrow view of the external course collaborator this core
// needs: enough to validate references and denormalize onto submissions.
type Course struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
