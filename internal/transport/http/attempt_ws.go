package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"lms-quiz-service/internal/app"
	"lms-quiz-service/internal/domain"
)

// AttemptWSHandler drives a live quiz attempt over a websocket. Each
// connection owns exactly one AttemptSession; the handler runs the 1-second
// countdown ticker and the whole-session deadline, and tears both down with
// the connection.
type AttemptWSHandler struct {
	quizzes   app.QuizReader
	submitter app.Submitter
	policy    *app.Policy
	grace     time.Duration
	upgrader  websocket.Upgrader
}

func NewAttemptWSHandler(quizzes app.QuizReader, submitter app.Submitter, policy *app.Policy, grace time.Duration) *AttemptWSHandler {
	return &AttemptWSHandler{
		quizzes:   quizzes,
		submitter: submitter,
		policy:    policy,
		grace:     grace,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	Option int `json:"option"`
}

type jumpPayload struct {
	Index int `json:"index"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type questionView struct {
	Attempt  app.AttemptView `json:"attempt"`
	Question domain.Question `json:"question"`
}

// ServeWS upgrades the request and runs the attempt loop. Browsers cannot
// set headers on websocket dials, so identity arrives in the query string
// here; the gateway that authenticated the user populates it.
func (h *AttemptWSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	if quizID == "" || userID == "" {
		http.Error(w, "missing quizId or userId", http.StatusBadRequest)
		return
	}
	principal := domain.Principal{UserID: userID, Role: domain.RoleUser}
	if decision := h.policy.Authorize(principal, app.ActionSubmitQuiz); !decision.Allowed {
		http.Error(w, decision.Reason, http.StatusForbidden)
		return
	}

	quiz, err := h.quizzes.GetQuiz(r.Context(), quizID)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := app.NewAttemptSession(userID, h.submitter)
	if err := session.Start(quiz); err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	done := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// The countdown lives here, not in the session: the session exposes
	// Tick and this goroutine stops the moment the connection goes away,
	// so no tick can fire after teardown.
	deadline := time.NewTimer(session.SessionBudget(h.grace))
	go func() {
		defer close(tickerDone)
		defer deadline.Stop()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if session.State() != app.AttemptInProgress {
					continue
				}
				before := session.View()
				session.Tick()
				after := session.View()
				if after.Expired && !before.Expired {
					h.enqueue(send, done, "expired", after)
				}
			case <-deadline.C:
				if session.State() != app.AttemptInProgress {
					continue
				}
				h.autoSubmit(r.Context(), session, send, done)
			case <-done:
				return
			}
		}
	}()

	h.pushQuestion(session, send, done)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.enqueue(send, done, "error", errorPayload{Message: "invalid select payload"})
				continue
			}
			if !session.SelectOption(payload.Option) {
				h.enqueue(send, done, "rejected", session.View())
				continue
			}
			h.enqueue(send, done, "selected", session.View())
		case "next":
			h.navigate(session.Next(), session, send, done)
		case "prev":
			h.navigate(session.Prev(), session, send, done)
		case "jump":
			var payload jumpPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.enqueue(send, done, "error", errorPayload{Message: "invalid jump payload"})
				continue
			}
			h.navigate(session.JumpTo(payload.Index), session, send, done)
		case "submit":
			submission, err := session.Submit(r.Context(), app.SubmitStrict)
			if err != nil {
				h.enqueue(send, done, "error", errorPayload{Message: err.Error()})
				continue
			}
			h.enqueue(send, done, "submitted", submission)
		default:
			h.enqueue(send, done, "error", errorPayload{Message: "unsupported message type"})
		}
	}

	close(done)
	<-tickerDone
	close(send)
	<-writerDone
}

func (h *AttemptWSHandler) navigate(err error, session *app.AttemptSession, send chan outboundMessage[any], done chan struct{}) {
	if err != nil {
		h.enqueue(send, done, "error", errorPayload{Message: err.Error()})
		return
	}
	h.pushQuestion(session, send, done)
}

func (h *AttemptWSHandler) pushQuestion(session *app.AttemptSession, send chan outboundMessage[any], done chan struct{}) {
	question, ok := session.CurrentQuestion()
	if !ok {
		return
	}
	h.enqueue(send, done, "question", questionView{Attempt: session.View(), Question: question})
}

func (h *AttemptWSHandler) autoSubmit(ctx context.Context, session *app.AttemptSession, send chan outboundMessage[any], done chan struct{}) {
	submission, err := session.Submit(ctx, app.SubmitAuto)
	if err != nil {
		h.enqueue(send, done, "error", errorPayload{Message: err.Error()})
		return
	}
	h.enqueue(send, done, "submitted", submission)
}

// enqueue never blocks past connection teardown.
func (h *AttemptWSHandler) enqueue(send chan outboundMessage[any], done chan struct{}, typ string, payload any) {
	select {
	case send <- outboundMessage[any]{Type: typ, Payload: payload}:
	case <-done:
	}
}
