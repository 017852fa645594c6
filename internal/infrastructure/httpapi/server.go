package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/google/uuid"

	"quiz-agent/internal/application/port/input"
	"quiz-agent/internal/application/port/output"
	"quiz-agent/internal/domain/entity"
)

// runGrace is added to the chain budget for the background context so the
// controller, not the context, decides the timeout.
const runGrace = 30 * time.Second

// Server accepts quiz jobs and launches chain runs in the background. The
// caller only ever gets an immediate acknowledgment; outcomes are visible
// in logs.
type Server struct {
	runner     input.ChainRunner
	secret     string
	timeBudget time.Duration
	logger     output.LoggerPort
}

func NewServer(runner input.ChainRunner, secret string, timeBudget time.Duration, logger output.LoggerPort) *Server {
	return &Server{
		runner:     runner,
		secret:     secret,
		timeBudget: timeBudget,
		logger:     logger,
	}
}

type quizRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
	URL    string `json:"url"`
}

func (s *Server) Routes() http.Handler {
	requestLogger := httplog.NewLogger("quiz-agent", httplog.Options{
		JSON:    true,
		Concise: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(requestLogger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/quiz", s.handleQuiz)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "malformed JSON body"})
		return
	}
	if req.URL == "" || req.Secret == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "url and secret are required"})
		return
	}
	if req.Secret != s.secret {
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "invalid secret"})
		return
	}

	acceptID := uuid.NewString()
	s.logger.Info("quiz job accepted", "accept_id", acceptID, "url", req.URL)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeBudget+runGrace)
		defer cancel()

		result := s.runner.Run(ctx,
			entity.QuizTask{URL: req.URL},
			entity.Identity{Email: req.Email, Secret: req.Secret})
		s.logger.Info("quiz job finished",
			"accept_id", acceptID,
			"run_id", result.RunID,
			"status", result.Status,
			"iterations", result.Iterations,
			"elapsed", result.Elapsed.String(),
			"error", result.Error)
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":    "processing",
		"accept_id": acceptID,
	})
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
