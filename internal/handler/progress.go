package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/i18n"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

type saveAttemptRequest struct {
	QuizID    string  `json:"quiz_id"`
	Score     float64 `json:"score"`
	MaxScore  float64 `json:"max_score"`
	Answers   string  `json:"answers,omitempty"`
	Completed bool    `json:"completed"`
}

func (h *Handler) handleSaveAttempt(w http.ResponseWriter, r *http.Request) {
	var req saveAttemptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.QuizID == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": i18n.T(r.Context(), "ErrBadRequest")})
		return
	}

	userID := model.UserIDFromContext(r.Context())
	attempt, err := h.tracker.SaveAttempt(r.Context(), userID, req.QuizID, req.Score, req.MaxScore, req.Answers, req.Completed)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, attempt)
}

type updateProgressRequest struct {
	ChapterID          string `json:"chapter_id"`
	ProgressPercentage int    `json:"progress_percentage"`
	TimeSpentSeconds   int64  `json:"time_spent_seconds"`
}

func (h *Handler) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req updateProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ChapterID == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": i18n.T(r.Context(), "ErrBadRequest")})
		return
	}

	userID := model.UserIDFromContext(r.Context())
	rec, err := h.tracker.UpdateProgress(r.Context(), userID, req.ChapterID, req.ProgressPercentage, req.TimeSpentSeconds)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	chapterID := chi.URLParam(r, "chapterID")
	userID := model.UserIDFromContext(r.Context())

	rec, err := h.store.GetProgress(r.Context(), userID, chapterID)
	if errors.Is(err, sql.ErrNoRows) {
		// No record yet reads as zero progress, not as an error.
		respondJSON(w, http.StatusOK, model.ProgressRecord{UserID: userID, ChapterID: chapterID})
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}
