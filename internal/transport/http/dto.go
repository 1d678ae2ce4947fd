package http

import "lms-quiz-service/internal/domain"

type questionPayload struct {
	ID            string   `json:"id"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,len=4,dive,required"`
	CorrectOption *int     `json:"correctOption" validate:"required"`
	Timeout       int      `json:"timeout" validate:"gte=0"`
}

type createQuizRequest struct {
	CourseID    string            `json:"courseId" validate:"required"`
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description" validate:"required"`
	Questions   []questionPayload `json:"questions" validate:"required,min=1,dive"`
}

type updateQuizRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Questions   []questionPayload `json:"questions" validate:"omitempty,min=1,dive"`
}

type generateQuestionsRequest struct {
	TopicDescription string `json:"topicDescription" validate:"required"`
}

type submitQuizRequest struct {
	Answers []answerPayload `json:"answers" validate:"required,min=1,dive"`
}

type answerPayload struct {
	QuestionID     string `json:"questionId" validate:"required"`
	SelectedOption int    `json:"selectedOption"`
	TimeTaken      int    `json:"timeTaken" validate:"gte=0"`
}

func toDomainQuestions(payloads []questionPayload) []domain.Question {
	questions := make([]domain.Question, len(payloads))
	for i, p := range payloads {
		correct := -1
		if p.CorrectOption != nil {
			correct = *p.CorrectOption
		}
		questions[i] = domain.Question{
			ID:            p.ID,
			Prompt:        p.Question,
			Options:       p.Options,
			CorrectOption: correct,
			Timeout:       p.Timeout,
		}
	}
	return questions
}

func toDomainAnswers(payloads []answerPayload) []domain.AnswerInput {
	answers := make([]domain.AnswerInput, len(payloads))
	for i, p := range payloads {
		answers[i] = domain.AnswerInput{
			QuestionID:     p.QuestionID,
			SelectedOption: p.SelectedOption,
			TimeTaken:      p.TimeTaken,
		}
	}
	return answers
}
