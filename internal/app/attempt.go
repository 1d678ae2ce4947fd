package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"lms-quiz-service/internal/domain"
)

// AttemptState tags the lifecycle of a quiz attempt.
type AttemptState int

const (
	AttemptIdle AttemptState = iota
	AttemptInProgress
	AttemptSubmitting
	AttemptCompleted
	AttemptFailed
)

func (s AttemptState) String() string {
	switch s {
	case AttemptIdle:
		return "idle"
	case AttemptInProgress:
		return "inProgress"
	case AttemptSubmitting:
		return "submitting"
	case AttemptCompleted:
		return "completed"
	case AttemptFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SubmitMode selects the completeness obligation of a submit.
type SubmitMode int

const (
	// SubmitStrict rejects when any question is unanswered.
	SubmitStrict SubmitMode = iota
	// SubmitAuto fills unanswered slots with option 0; used when a session
	// deadline fires rather than the user pressing submit.
	SubmitAuto
)

// Submitter is the scoring boundary an attempt hands its answers to.
type Submitter interface {
	Submit(ctx context.Context, quizID, userID string, answers []domain.AnswerInput) (domain.Submission, error)
}

const unanswered = -1

// ErrAttemptNotActive is returned by operations that require a running
// attempt.
var ErrAttemptNotActive = errors.New("attempt is not in progress")

// AttemptSession drives one user through one quiz, a question at a time.
// It keeps two independent clocks per question: an advisory countdown that
// pauses across navigation, and an elapsed accumulator that only grows.
// The session owns no timer; its owner calls Tick once per second while the
// attempt is in progress and must stop ticking on teardown.
type AttemptSession struct {
	mu        sync.Mutex
	state     AttemptState
	quiz      domain.Quiz
	userID    string
	current   int
	selection []int
	remaining []int
	elapsed   []int
	expired   []bool
	enteredAt time.Time
	now       func() time.Time
	submitter Submitter
}

func NewAttemptSession(userID string, submitter Submitter) *AttemptSession {
	return NewAttemptSessionWithClock(userID, submitter, time.Now)
}

// NewAttemptSessionWithClock allows deterministic time in tests.
func NewAttemptSessionWithClock(userID string, submitter Submitter, now func() time.Time) *AttemptSession {
	return &AttemptSession{state: AttemptIdle, userID: userID, now: now, submitter: submitter}
}

// Start enters InProgress on the first question with every countdown at its
// full budget and nothing selected.
func (a *AttemptSession) Start(quiz domain.Quiz) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != AttemptIdle {
		return errors.New("attempt already started")
	}
	if len(quiz.Questions) == 0 {
		return &domain.ValidationError{Field: "questions", Reason: "quiz has no questions"}
	}

	n := len(quiz.Questions)
	a.quiz = quiz
	a.selection = make([]int, n)
	a.remaining = make([]int, n)
	a.elapsed = make([]int, n)
	a.expired = make([]bool, n)
	for i, q := range quiz.Questions {
		a.selection[i] = unanswered
		timeout := q.Timeout
		if timeout <= 0 {
			timeout = domain.DefaultQuestionTimeout
		}
		a.remaining[i] = timeout
	}
	a.current = 0
	a.enteredAt = a.now()
	a.state = AttemptInProgress
	return nil
}

// SelectOption records a choice for the current question. Once the
// question's countdown has expired the call is a no-op and any earlier
// choice stands.
func (a *AttemptSession) SelectOption(option int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != AttemptInProgress || a.expired[a.current] {
		return false
	}
	if option < 0 || option >= len(a.quiz.Questions[a.current].Options) {
		return false
	}
	a.selection[a.current] = option
	return true
}

// Next advances to the following question.
func (a *AttemptSession) Next() error { return a.navigate(+1) }

// Prev moves back to the preceding question.
func (a *AttemptSession) Prev() error { return a.navigate(-1) }

func (a *AttemptSession) navigate(delta int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.jumpLocked(a.current + delta)
}

// JumpTo moves directly to question index i.
func (a *AttemptSession) JumpTo(i int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.jumpLocked(i)
}

// jumpLocked banks wall-clock time for the question being left and restarts
// the accumulator on the question being entered. The entered question's
// countdown resumes from wherever it was paused.
func (a *AttemptSession) jumpLocked(target int) error {
	if a.state != AttemptInProgress {
		return ErrAttemptNotActive
	}
	if target < 0 || target >= len(a.quiz.Questions) {
		return errors.New("question index out of range")
	}
	a.flushElapsedLocked()
	a.current = target
	return nil
}

func (a *AttemptSession) flushElapsedLocked() {
	now := a.now()
	a.elapsed[a.current] += int(now.Sub(a.enteredAt).Round(time.Second) / time.Second)
	a.enteredAt = now
}

// Tick counts down one second on the current question. On reaching zero the
// question expires: further option changes are locked, navigation and
// submission are not. There is no auto-advance.
func (a *AttemptSession) Tick() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != AttemptInProgress || a.expired[a.current] {
		return
	}
	a.remaining[a.current]--
	if a.remaining[a.current] <= 0 {
		a.remaining[a.current] = 0
		a.expired[a.current] = true
	}
}

// Submit finalizes timing, enforces the mode's completeness rule, and hands
// the answers to the scoring boundary. A scoring failure preserves the full
// session so the user can retry without re-answering.
func (a *AttemptSession) Submit(ctx context.Context, mode SubmitMode) (domain.Submission, error) {
	a.mu.Lock()
	if a.state != AttemptInProgress && a.state != AttemptFailed {
		a.mu.Unlock()
		return domain.Submission{}, ErrAttemptNotActive
	}
	if a.state == AttemptInProgress {
		a.flushElapsedLocked()
	}

	answers := make([]domain.AnswerInput, len(a.selection))
	for i, selected := range a.selection {
		if selected == unanswered {
			if mode == SubmitStrict {
				a.mu.Unlock()
				return domain.Submission{}, &domain.IncompleteAnswersError{FirstUnanswered: i}
			}
			selected = 0
		}
		answers[i] = domain.AnswerInput{
			QuestionID:     a.quiz.Questions[i].ID,
			SelectedOption: selected,
			TimeTaken:      a.elapsed[i],
		}
	}
	quizID := a.quiz.ID
	userID := a.userID
	a.state = AttemptSubmitting
	a.mu.Unlock()

	submission, err := a.submitter.Submit(ctx, quizID, userID, answers)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.state = AttemptFailed
		return domain.Submission{}, err
	}
	a.state = AttemptCompleted
	a.quiz = domain.Quiz{}
	a.selection, a.remaining, a.elapsed, a.expired = nil, nil, nil, nil
	return submission, nil
}

// SessionBudget is the whole-attempt deadline implied by the per-question
// budgets, plus a grace allowance for navigation.
func (a *AttemptSession) SessionBudget(grace time.Duration) time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0
	for _, q := range a.quiz.Questions {
		timeout := q.Timeout
		if timeout <= 0 {
			timeout = domain.DefaultQuestionTimeout
		}
		total += timeout
	}
	return time.Duration(total)*time.Second + grace
}

// AttemptView is a rendering-free snapshot of the session.
type AttemptView struct {
	State         string `json:"state"`
	QuizID        string `json:"quizId"`
	CurrentIndex  int    `json:"currentIndex"`
	TotalQuestion int    `json:"totalQuestions"`
	Selected      int    `json:"selectedOption"` // -1 when unanswered
	Remaining     int    `json:"timeRemaining"`
	Expired       bool   `json:"expired"`
	Answered      int    `json:"answeredCount"`
}

// View snapshots the session for transports.
func (a *AttemptSession) View() AttemptView {
	a.mu.Lock()
	defer a.mu.Unlock()

	view := AttemptView{State: a.state.String(), QuizID: a.quiz.ID}
	if a.selection == nil {
		return view
	}
	view.CurrentIndex = a.current
	view.TotalQuestion = len(a.quiz.Questions)
	view.Selected = a.selection[a.current]
	view.Remaining = a.remaining[a.current]
	view.Expired = a.expired[a.current]
	for _, s := range a.selection {
		if s != unanswered {
			view.Answered++
		}
	}
	return view
}

// CurrentQuestion returns the question under the cursor, answer redacted.
func (a *AttemptSession) CurrentQuestion() (domain.Question, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != AttemptInProgress {
		return domain.Question{}, false
	}
	question := a.quiz.Questions[a.current]
	question.CorrectOption = -1
	return question, true
}

// State reports the current lifecycle tag.
func (a *AttemptSession) State() AttemptState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// TimeRemaining reports the paused-or-running countdown for question i.
func (a *AttemptSession) TimeRemaining(i int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.remaining == nil || i < 0 || i >= len(a.remaining) {
		return 0
	}
	return a.remaining[i]
}

// ElapsedTime reports the accumulated seconds actually spent on question i.
func (a *AttemptSession) ElapsedTime(i int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.elapsed == nil || i < 0 || i >= len(a.elapsed) {
		return 0
	}
	return a.elapsed[i]
}
