package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

// CreateQuiz writes the quiz row. This is phase one of the two-phase
// assessment write; the quiz is not playable until its questions exist.
func (s *Store) CreateQuiz(ctx context.Context, quiz model.Quiz) (model.Quiz, error) {
	if quiz.ID == "" {
		quiz.ID = uuid.NewString()
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id, chapter_id, title, time_limit_minutes, is_published, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		quiz.ID, quiz.ChapterID, quiz.Title, quiz.TimeLimitMinutes, quiz.IsPublished, quiz.CreatedBy, quiz.CreatedAt)
	if err != nil {
		return model.Quiz{}, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

// InsertQuizQuestions writes the quiz's questions with order_index set
// to the 0-based position in the validated sequence. Phase two of the
// assessment write; a crash between the phases leaves an orphan quiz
// that QuizIsComplete reports as unusable.
func (s *Store) InsertQuizQuestions(ctx context.Context, quizID string, questions []model.Question) error {
	for i, q := range questions {
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("marshal options: %w", err)
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO quiz_questions (id, quiz_id, order_index, question, type, options_json, correct_answer, explanation, points)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			uuid.NewString(), quizID, i, q.Text, q.Type, string(opts), q.CorrectAnswer, q.Explanation, q.Points)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", i, err)
		}
	}
	return nil
}

// GetQuiz returns a quiz by ID.
func (s *Store) GetQuiz(ctx context.Context, id string) (model.Quiz, error) {
	var q model.Quiz
	err := s.db.QueryRowContext(ctx,
		`SELECT id, chapter_id, title, time_limit_minutes, is_published, created_by, created_at
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.ChapterID, &q.Title, &q.TimeLimitMinutes, &q.IsPublished, &q.CreatedBy, &q.CreatedAt)
	return q, err
}

// ListQuizQuestions returns the quiz's questions in order_index order.
func (s *Store) ListQuizQuestions(ctx context.Context, quizID string) ([]model.QuizQuestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, quiz_id, order_index, question, type, options_json, correct_answer, explanation, points
		 FROM quiz_questions WHERE quiz_id = $1 ORDER BY order_index`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list quiz questions: %w", err)
	}
	defer rows.Close()

	var out []model.QuizQuestion
	for rows.Next() {
		var q model.QuizQuestion
		var opts string
		if err := rows.Scan(&q.ID, &q.QuizID, &q.OrderIndex, &q.Text, &q.Type, &opts, &q.CorrectAnswer, &q.Explanation, &q.Points); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options for question %s: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// QuizIsComplete reports whether the quiz has at least one question.
// A quiz with zero questions is the documented intermediate state of the
// two-phase write and must never be served as playable.
func (s *Store) QuizIsComplete(ctx context.Context, quizID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quiz_questions WHERE quiz_id = $1`, quizID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListQuizzes returns all quizzes, newest first.
func (s *Store) ListQuizzes(ctx context.Context) ([]model.Quiz, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chapter_id, title, time_limit_minutes, is_published, created_by, created_at
		 FROM quizzes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var out []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.ChapterID, &q.Title, &q.TimeLimitMinutes, &q.IsPublished, &q.CreatedBy, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
