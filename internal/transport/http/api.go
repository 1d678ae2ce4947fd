package http

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-playground/validator/v10"

	"lms-quiz-service/internal/app"
	"lms-quiz-service/internal/domain"
)

// API exposes the quiz lifecycle over REST. Every handler runs the same
// sequence: resolve principal, consult the policy, then call the service.
type API struct {
	authoring   *app.AuthoringService
	submissions *app.SubmissionService
	generator   *app.QuestionGenerator
	policy      *app.Policy
	validate    *validator.Validate
}

func NewAPI(authoring *app.AuthoringService, submissions *app.SubmissionService, generator *app.QuestionGenerator, policy *app.Policy) *API {
	return &API{
		authoring:   authoring,
		submissions: submissions,
		generator:   generator,
		policy:      policy,
		validate:    validator.New(),
	}
}

// Register mounts the API on the mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/quizzes", a.createQuiz)
	mux.HandleFunc("POST /api/quizzes/generate", a.generateQuestions)
	mux.HandleFunc("GET /api/quizzes/{quizID}", a.getQuiz)
	mux.HandleFunc("PUT /api/quizzes/{quizID}", a.updateQuiz)
	mux.HandleFunc("DELETE /api/quizzes/{quizID}", a.deleteQuiz)
	mux.HandleFunc("GET /api/courses/{courseID}/quizzes", a.quizzesByCourse)
	mux.HandleFunc("POST /api/quizzes/{quizID}/submissions", a.submitQuiz)
	mux.HandleFunc("GET /api/quizzes/{quizID}/submissions", a.quizSubmissions)
	mux.HandleFunc("GET /api/quizzes/{quizID}/stats", a.quizStats)
	mux.HandleFunc("GET /api/submissions", a.userSubmissions)
	mux.HandleFunc("GET /api/submissions/{submissionID}", a.getSubmission)
}

// authorize resolves the principal and checks the policy, writing the
// refusal itself. The bool reports whether the handler may continue.
func (a *API) authorize(w http.ResponseWriter, r *http.Request, action app.Action) (domain.Principal, bool) {
	principal, ok := principalFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, "missing identity", nil)
		return domain.Principal{}, false
	}
	if decision := a.policy.Authorize(principal, action); !decision.Allowed {
		writeJSON(w, http.StatusForbidden, decision.Reason, nil)
		return domain.Principal{}, false
	}
	return principal, true
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, "malformed request body", nil)
		return false
	}
	if err := a.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, err.Error(), nil)
		return false
	}
	return true
}

func (a *API) createQuiz(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.authorize(w, r, app.ActionCreateQuiz)
	if !ok {
		return
	}
	var req createQuizRequest
	if !a.decode(w, r, &req) {
		return
	}
	quiz, err := a.authoring.CreateQuiz(r.Context(), req.CourseID, principal.UserID, app.QuizDraft{
		Title:       req.Title,
		Description: req.Description,
		Questions:   toDomainQuestions(req.Questions),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "quiz created", quiz)
}

func (a *API) updateQuiz(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.authorize(w, r, app.ActionUpdateQuiz); !ok {
		return
	}
	var req updateQuizRequest
	if !a.decode(w, r, &req) {
		return
	}
	update := app.QuizUpdate{Title: req.Title, Description: req.Description}
	if req.Questions != nil {
		update.Questions = toDomainQuestions(req.Questions)
	}
	quiz, err := a.authoring.UpdateQuiz(r.Context(), r.PathValue("quizID"), update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "quiz updated", quiz)
}

func (a *API) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.authorize(w, r, app.ActionDeleteQuiz); !ok {
		return
	}
	if err := a.authoring.DeleteQuiz(r.Context(), r.PathValue("quizID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "quiz deleted", nil)
}

func (a *API) getQuiz(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.authorize(w, r, app.ActionReadQuiz)
	if !ok {
		return
	}
	quiz, err := a.authoring.QuizByID(r.Context(), r.PathValue("quizID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !a.policy.CanSeeAnswers(principal) {
		quiz = quiz.Redacted()
	}
	writeJSON(w, http.StatusOK, "quiz retrieved", quiz)
}

func (a *API) quizzesByCourse(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.authorize(w, r, app.ActionListQuizzes); !ok {
		return
	}
	summaries, err := a.authoring.QuizzesByCourse(r.Context(), r.PathValue("courseID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "quizzes retrieved", summaries)
}

func (a *API) generateQuestions(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.authorize(w, r, app.ActionGenerateQuestions); !ok {
		return
	}
	var req generateQuestionsRequest
	if !a.decode(w, r, &req) {
		return
	}
	questions, err := a.generator.GenerateQuestions(r.Context(), req.TopicDescription)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "questions generated", questions)
}

func (a *API) submitQuiz(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.authorize(w, r, app.ActionSubmitQuiz)
	if !ok {
		return
	}
	var req submitQuizRequest
	if !a.decode(w, r, &req) {
		return
	}
	submission, err := a.submissions.Submit(r.Context(), r.PathValue("quizID"), principal.UserID, toDomainAnswers(req.Answers))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, "quiz submitted", submission)
}

func (a *API) userSubmissions(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.authorize(w, r, app.ActionReadOwnResults)
	if !ok {
		return
	}
	submissions, err := a.submissions.UserSubmissions(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	// store order is unspecified; newest-first is the display contract
	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].AttemptedAt.After(submissions[j].AttemptedAt)
	})
	writeJSON(w, http.StatusOK, "submissions retrieved", submissions)
}

func (a *API) quizSubmissions(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.authorize(w, r, app.ActionReadQuizResults); !ok {
		return
	}
	submissions, err := a.submissions.QuizSubmissions(r.Context(), r.PathValue("quizID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "submissions retrieved", submissions)
}

func (a *API) quizStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.authorize(w, r, app.ActionReadQuizResults); !ok {
		return
	}
	stats, err := a.submissions.QuizStatistics(r.Context(), r.PathValue("quizID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "stats computed", stats)
}

func (a *API) getSubmission(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.authorize(w, r, app.ActionReadSubmission)
	if !ok {
		return
	}
	submission, err := a.submissions.SubmissionByID(r.Context(), principal, r.PathValue("submissionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "submission retrieved", submission)
}
