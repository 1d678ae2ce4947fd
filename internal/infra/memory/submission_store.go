package memory

import (
	"context"
	"sync"

	"lms-quiz-service/internal/domain"
)

// SubmissionStore is an in-memory implementation of app.SubmissionStore.
// Submissions are write-once; reads return copies so callers cannot reach
// into stored state.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions map[string]domain.Submission
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{submissions: make(map[string]domain.Submission)}
}

func (s *SubmissionStore) InsertSubmission(_ context.Context, submission domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[submission.ID] = cloneSubmission(submission)
	return nil
}

func (s *SubmissionStore) SubmissionsByUser(_ context.Context, userID string) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Submission, 0)
	for _, submission := range s.submissions {
		if submission.UserID == userID {
			out = append(out, cloneSubmission(submission))
		}
	}
	return out, nil
}

func (s *SubmissionStore) SubmissionsByQuiz(_ context.Context, quizID string) ([]domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Submission, 0)
	for _, submission := range s.submissions {
		if submission.QuizID == quizID {
			out = append(out, cloneSubmission(submission))
		}
	}
	return out, nil
}

func (s *SubmissionStore) GetSubmission(_ context.Context, submissionID string) (domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	submission, ok := s.submissions[submissionID]
	if !ok {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	return cloneSubmission(submission), nil
}

func cloneSubmission(submission domain.Submission) domain.Submission {
	out := submission
	out.Answers = make([]domain.Answer, len(submission.Answers))
	copy(out.Answers, submission.Answers)
	return out
}
