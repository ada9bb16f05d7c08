package store

import (
	"context"
	"time"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

// ExportAllQuizzes builds the export view of every quiz: the quiz row,
// its ordered questions, and attempt summaries. Incomplete quizzes
// (zero questions) are skipped; they are generation debris, not tests.
func (s *Store) ExportAllQuizzes(ctx context.Context) ([]model.QuizExport, error) {
	quizzes, err := s.ListQuizzes(ctx)
	if err != nil {
		return nil, err
	}

	var out []model.QuizExport
	for _, quiz := range quizzes {
		questions, err := s.ListQuizQuestions(ctx, quiz.ID)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			continue
		}

		attempts, err := s.ListAttempts(ctx, quiz.ID)
		if err != nil {
			return nil, err
		}
		var summaries []model.AttemptExport
		for _, a := range attempts {
			ae := model.AttemptExport{
				UserID:    a.UserID,
				Score:     a.Score,
				MaxScore:  a.MaxScore,
				Completed: !a.Open(),
				StartedAt: a.StartedAt.UTC().Format(time.RFC3339),
			}
			if a.CompletedAt != nil {
				ae.CompletedAt = a.CompletedAt.UTC().Format(time.RFC3339)
			}
			summaries = append(summaries, ae)
		}

		out = append(out, model.QuizExport{
			Quiz:      quiz,
			Questions: questions,
			Attempts:  summaries,
		})
	}
	return out, nil
}
