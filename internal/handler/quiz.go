package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/i18n"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

type quizResponse struct {
	model.Quiz
	Questions []model.QuizQuestion `json:"questions"`
}

func (h *Handler) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.store.ListQuizzes(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID := chi.URLParam(r, "quizID")

	quiz, err := h.store.GetQuiz(r.Context(), quizID)
	if errors.Is(err, sql.ErrNoRows) {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": i18n.T(r.Context(), "ErrQuizNotFound")})
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	// A quiz whose question write never landed is not playable and is
	// indistinguishable from a missing one to callers.
	complete, err := h.store.QuizIsComplete(r.Context(), quizID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !complete {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": i18n.T(r.Context(), "ErrQuizNotFound")})
		return
	}

	questions, err := h.store.ListQuizQuestions(r.Context(), quizID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quizResponse{Quiz: quiz, Questions: questions})
}
