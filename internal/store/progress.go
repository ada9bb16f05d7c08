package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

// GetProgress returns the stored progress for (user, chapter), or
// sql.ErrNoRows when no record exists yet.
func (s *Store) GetProgress(ctx context.Context, userID, chapterID string) (model.ProgressRecord, error) {
	var p model.ProgressRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, chapter_id, progress_pct, time_spent_seconds, completed_at, updated_at
		 FROM chapter_progress WHERE user_id = $1 AND chapter_id = $2`,
		userID, chapterID,
	).Scan(&p.UserID, &p.ChapterID, &p.ProgressPercentage, &p.TimeSpentSeconds, &p.CompletedAt, &p.UpdatedAt)
	return p, err
}

// PutProgress writes the progress record, replacing any existing row for
// (user, chapter). The monotonic floor is computed by the tracker, not
// here; concurrent writers race as last-writer-wins over already-floored
// values.
func (s *Store) PutProgress(ctx context.Context, p model.ProgressRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chapter_progress (user_id, chapter_id, progress_pct, time_spent_seconds, completed_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, chapter_id) DO UPDATE SET
			progress_pct = EXCLUDED.progress_pct,
			time_spent_seconds = EXCLUDED.time_spent_seconds,
			completed_at = EXCLUDED.completed_at,
			updated_at = EXCLUDED.updated_at`,
		p.UserID, p.ChapterID, p.ProgressPercentage, p.TimeSpentSeconds, p.CompletedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put progress: %w", err)
	}
	return nil
}

// GetOpenAttempt returns the single in-progress attempt for
// (user, quiz), or nil when none is open.
func (s *Store) GetOpenAttempt(ctx context.Context, userID, quizID string) (*model.AttemptRecord, error) {
	var a model.AttemptRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, quiz_id, score, max_score, answers_json, started_at, completed_at
		 FROM quiz_attempts WHERE user_id = $1 AND quiz_id = $2 AND completed_at IS NULL`,
		userID, quizID,
	).Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.MaxScore, &a.Answers, &a.StartedAt, &a.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get open attempt: %w", err)
	}
	return &a, nil
}

// InsertAttempt creates a new attempt record and returns it with its ID
// assigned.
func (s *Store) InsertAttempt(ctx context.Context, a model.AttemptRecord) (model.AttemptRecord, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id, user_id, quiz_id, score, max_score, answers_json, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.UserID, a.QuizID, a.Score, a.MaxScore, a.Answers, a.StartedAt, a.CompletedAt)
	if err != nil {
		return model.AttemptRecord{}, fmt.Errorf("insert attempt: %w", err)
	}
	return a, nil
}

// UpdateAttempt overwrites the mutable fields of an attempt in place.
// Only open attempts are ever updated; completion is a one-way door the
// tracker enforces.
func (s *Store) UpdateAttempt(ctx context.Context, a model.AttemptRecord) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE quiz_attempts SET score = $1, max_score = $2, answers_json = $3, completed_at = $4
		 WHERE id = $5`,
		a.Score, a.MaxScore, a.Answers, a.CompletedAt, a.ID)
	if err != nil {
		return fmt.Errorf("update attempt: %w", err)
	}
	return nil
}

// ListAttempts returns all attempts for a quiz, oldest first.
func (s *Store) ListAttempts(ctx context.Context, quizID string) ([]model.AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, quiz_id, score, max_score, answers_json, started_at, completed_at
		 FROM quiz_attempts WHERE quiz_id = $1 ORDER BY started_at`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []model.AttemptRecord
	for rows.Next() {
		var a model.AttemptRecord
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.MaxScore, &a.Answers, &a.StartedAt, &a.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
