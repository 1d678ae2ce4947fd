package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lms-quiz-service/internal/domain"
)

// TextGenerator is the external text-generation collaborator. This core
// owns the prompt template and the response contract; the generation itself
// happens elsewhere.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// quizPromptTemplate pins the structured format the parser expects. The
// model is told to emit JSON only; fenced output is tolerated anyway.
const quizPromptTemplate = `You are a quiz author for a learning management system.
Generate between 5 and 10 multiple-choice questions about the following topic:

%s

Respond with JSON only, no prose, in exactly this shape:
{"questions":[{"question":"...","options":["...","...","...","..."],"correctOption":0,"timeout":30}]}

Rules: every question has exactly 4 options, correctOption is the 0-based
index of the right option, timeout is the answering budget in seconds.`

// QuestionGenerator turns a topic description into a draft question list.
// Nothing is persisted; the caller reviews the draft before CreateQuiz.
type QuestionGenerator struct {
	generator TextGenerator
}

func NewQuestionGenerator(generator TextGenerator) *QuestionGenerator {
	return &QuestionGenerator{generator: generator}
}

type generatedPayload struct {
	Questions []struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectOption int      `json:"correctOption"`
		Timeout       int      `json:"timeout"`
	} `json:"questions"`
}

// GenerateQuestions asks the collaborator for a question set and validates
// it against the authoring rules before returning the draft.
func (g *QuestionGenerator) GenerateQuestions(ctx context.Context, topicDescription string) ([]domain.Question, error) {
	if strings.TrimSpace(topicDescription) == "" {
		return nil, &domain.ValidationError{Field: "topicDescription", Reason: "must not be empty"}
	}

	raw, err := g.generator.Generate(ctx, fmt.Sprintf(quizPromptTemplate, topicDescription))
	if err != nil {
		return nil, &domain.GenerationError{Reason: err.Error()}
	}

	var payload generatedPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return nil, &domain.GenerationError{Reason: "response is not valid JSON"}
	}
	if len(payload.Questions) == 0 {
		return nil, &domain.GenerationError{Reason: "response contains no questions"}
	}

	questions := make([]domain.Question, 0, len(payload.Questions))
	for i, q := range payload.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, &domain.GenerationError{Reason: fmt.Sprintf("question %d has an empty prompt", i)}
		}
		if len(q.Options) != optionCount {
			return nil, &domain.GenerationError{Reason: fmt.Sprintf("question %d does not have %d options", i, optionCount)}
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return nil, &domain.GenerationError{Reason: fmt.Sprintf("question %d has an out-of-range correctOption", i)}
		}
		timeout := q.Timeout
		if timeout <= 0 {
			timeout = domain.DefaultQuestionTimeout
		}
		questions = append(questions, domain.Question{
			Prompt:        q.Question,
			Options:       q.Options,
			CorrectOption: q.CorrectOption,
			Timeout:       timeout,
		})
	}
	return questions, nil
}

// stripCodeFence unwraps ```json ... ``` style fencing that generation
// models add despite instructions.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
