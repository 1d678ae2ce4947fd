package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"lms-quiz-service/internal/domain"
)

type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{Success: status < 400, Message: message, Data: data}); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		incomplete *domain.IncompleteAnswersError
		invalidQ   *domain.InvalidQuestionError
		generation *domain.GenerationError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, validation.Error(), nil)
	case errors.As(err, &incomplete):
		writeJSON(w, http.StatusBadRequest, incomplete.Error(),
			map[string]int{"firstUnanswered": incomplete.FirstUnanswered})
	case errors.As(err, &invalidQ):
		writeJSON(w, http.StatusUnprocessableEntity, invalidQ.Error(), nil)
	case errors.As(err, &generation):
		writeJSON(w, http.StatusBadGateway, generation.Error(), nil)
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrSubmissionNotFound):
		writeJSON(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, err.Error(), nil)
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, "internal error", nil)
	}
}

// principalFrom reads the identity the authentication layer attached
// upstream. Missing identity is a 401 handled by the caller.
func principalFrom(r *http.Request) (domain.Principal, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		return domain.Principal{}, false
	}
	role := domain.Role(r.Header.Get("X-User-Role"))
	switch role {
	case domain.RoleAdmin, domain.RoleInstructor, domain.RoleUser:
	default:
		role = domain.RoleUser
	}
	return domain.Principal{UserID: userID, Role: role}, true
}
