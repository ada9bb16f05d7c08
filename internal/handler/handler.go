// Package handler exposes the JSON API surface of the portal.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/auth"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/i18n"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/llm"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/progress"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/store"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/tutor"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store   *store.Store
	service *tutor.Service
	tracker *progress.Tracker
	gateway *llm.Gateway
}

// New creates a new Handler.
func New(s *store.Store, svc *tutor.Service, tr *progress.Tracker, gw *llm.Gateway) *Handler {
	return &Handler{store: s, service: svc, tracker: tr, gateway: gw}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/api/healthz", h.handleHealth)
	r.Post("/api/chat", h.handleChat)
	r.Post("/api/tests/generate", h.handleGenerateTest)
	r.Get("/api/quizzes", h.handleListQuizzes)
	r.Get("/api/quizzes/{quizID}", h.handleGetQuiz)

	r.Group(func(r chi.Router) {
		r.Use(auth.Required)
		r.Post("/api/attempts", h.handleSaveAttempt)
		r.Post("/api/progress", h.handleUpdateProgress)
		r.Get("/api/progress/{chapterID}", h.handleGetProgress)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	providers := []map[string]any{}
	for _, d := range h.gateway.Descriptors() {
		providers = append(providers, map[string]any{
			"name":       d.Name,
			"rank":       d.Rank,
			"configured": d.Configured,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"providers": providers,
	})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respondError maps a domain error to an HTTP status and a localized
// message. Unrecognized errors are logged and reported as internal.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	var status int
	var msgID string
	switch {
	case errors.Is(err, tutor.ErrInvalidRequest):
		status, msgID = http.StatusBadRequest, "ErrBadRequest"
	case errors.Is(err, tutor.ErrInsufficientContent):
		status, msgID = http.StatusUnprocessableEntity, "ErrInsufficientContent"
	case errors.Is(err, llm.ErrNoProviderConfigured):
		status, msgID = http.StatusServiceUnavailable, "ErrNoProvider"
	case errors.Is(err, llm.ErrRateLimited):
		status, msgID = http.StatusTooManyRequests, "ErrRateLimited"
	case errors.Is(err, llm.ErrQuotaExhausted):
		status, msgID = http.StatusPaymentRequired, "ErrQuotaExhausted"
	case errors.Is(err, llm.ErrTransport), errors.Is(err, llm.ErrMalformedOutput):
		status, msgID = http.StatusBadGateway, "ErrUpstream"
	default:
		slog.Error("request failed", "path", r.URL.Path, "error", err)
		status, msgID = http.StatusInternalServerError, "ErrInternal"
	}
	respondJSON(w, status, map[string]string{"error": i18n.T(ctx, msgID)})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": i18n.T(r.Context(), "ErrBadRequest")})
		return false
	}
	return true
}
