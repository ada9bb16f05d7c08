// Package progress maintains chapter progress and quiz attempt state.
// Progress is monotonic: the stored percentage never decreases and time
// spent only accumulates. Attempts allow at most one open record per
// (user, quiz); completed attempts are immutable.
//
// Invariants are enforced by read-then-conditionally-write with no
// locking. Two concurrent updates for the same key may both read the
// old value; last-writer-wins over already-floored values is the
// accepted consistency model.
package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

// Store is the slice of the content store the tracker writes through.
type Store interface {
	GetProgress(ctx context.Context, userID, chapterID string) (model.ProgressRecord, error)
	PutProgress(ctx context.Context, p model.ProgressRecord) error
	GetOpenAttempt(ctx context.Context, userID, quizID string) (*model.AttemptRecord, error)
	InsertAttempt(ctx context.Context, a model.AttemptRecord) (model.AttemptRecord, error)
	UpdateAttempt(ctx context.Context, a model.AttemptRecord) error
}

// Tracker applies the progress and attempt state machines.
type Tracker struct {
	store Store
	now   func() time.Time
}

// NewTracker creates a tracker over the given store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// UpdateProgress merges a new progress report into the stored record.
// The stored percentage is the max of old and new; deltaSeconds is
// added to the accumulated time. completed_at is stamped the first time
// the stored percentage reaches 100 and is never un-stamped.
func (t *Tracker) UpdateProgress(ctx context.Context, userID, chapterID string, pct int, deltaSeconds int64) (model.ProgressRecord, error) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	if deltaSeconds < 0 {
		deltaSeconds = 0
	}

	cur, err := t.store.GetProgress(ctx, userID, chapterID)
	if errors.Is(err, sql.ErrNoRows) {
		cur = model.ProgressRecord{UserID: userID, ChapterID: chapterID}
	} else if err != nil {
		return model.ProgressRecord{}, fmt.Errorf("read progress: %w", err)
	}

	if pct > cur.ProgressPercentage {
		cur.ProgressPercentage = pct
	}
	cur.TimeSpentSeconds += deltaSeconds
	now := t.now().UTC()
	if cur.ProgressPercentage >= 100 && cur.CompletedAt == nil {
		cur.CompletedAt = &now
	}
	cur.UpdatedAt = now

	if err := t.store.PutProgress(ctx, cur); err != nil {
		return model.ProgressRecord{}, err
	}
	return cur, nil
}

// SaveAttempt records a score for (user, quiz). It updates the open
// attempt in place if one exists, else opens a fresh one; completed=true
// stamps completed_at and seals the record, so the next save for the
// same pair opens a new attempt instead of mutating the sealed one.
// Write failures surface to the caller uncaught; resubmission is the
// caller's decision.
func (t *Tracker) SaveAttempt(ctx context.Context, userID, quizID string, score, maxScore float64, answers string, completed bool) (model.AttemptRecord, error) {
	if answers == "" {
		answers = "{}"
	}
	now := t.now().UTC()

	open, err := t.store.GetOpenAttempt(ctx, userID, quizID)
	if err != nil {
		return model.AttemptRecord{}, err
	}

	if open == nil {
		rec := model.AttemptRecord{
			UserID:    userID,
			QuizID:    quizID,
			Score:     score,
			MaxScore:  maxScore,
			Answers:   answers,
			StartedAt: now,
		}
		if completed {
			rec.CompletedAt = &now
		}
		return t.store.InsertAttempt(ctx, rec)
	}

	open.Score = score
	open.MaxScore = maxScore
	open.Answers = answers
	if completed {
		open.CompletedAt = &now
	}
	if err := t.store.UpdateAttempt(ctx, *open); err != nil {
		return model.AttemptRecord{}, err
	}
	return *open, nil
}
