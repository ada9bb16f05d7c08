package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

// scopeMatch is the shared WHERE fragment for board/class filtering:
// rows scoped to the requested board/class match, and unscoped rows
// (empty board/class) always match as generic fallback content.
const scopeMatch = `(board = '' OR $1 = '' OR board = $1) AND (class_level = '' OR $2 = '' OR class_level = $2)`

// ListTrainingDocuments returns active, fully processed documents
// matching the filter. A non-empty ChapterID additionally restricts to
// that chapter or to documents with no chapter scope.
func (s *Store) ListTrainingDocuments(ctx context.Context, f model.ContentFilter) ([]model.ContentFragment, error) {
	query := `SELECT title, content, board, class_level, chapter_id
		FROM training_documents
		WHERE is_active AND processing_status = 'completed' AND ` + scopeMatch
	args := []any{f.Board, f.ClassLevel}
	if f.ChapterID != "" {
		query += ` AND (chapter_id = '' OR chapter_id = $3)`
		args = append(args, f.ChapterID)
	}
	query += ` ORDER BY title`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list training documents: %w", err)
	}
	defer rows.Close()

	var out []model.ContentFragment
	for rows.Next() {
		fr := model.ContentFragment{Kind: model.SourceTrainingDocument}
		if err := rows.Scan(&fr.Title, &fr.Body, &fr.Board, &fr.ClassLevel, &fr.ChapterID); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

// ListSyllabusNotes returns syllabus notes matching the filter.
func (s *Store) ListSyllabusNotes(ctx context.Context, f model.ContentFilter) ([]model.ContentFragment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, content, board, class_level FROM syllabus_notes WHERE `+scopeMatch+` ORDER BY title`,
		f.Board, f.ClassLevel)
	if err != nil {
		return nil, fmt.Errorf("list syllabus notes: %w", err)
	}
	defer rows.Close()

	var out []model.ContentFragment
	for rows.Next() {
		fr := model.ContentFragment{Kind: model.SourceSyllabusNote}
		if err := rows.Scan(&fr.Title, &fr.Body, &fr.Board, &fr.ClassLevel); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

// GetChapter returns a chapter by ID.
func (s *Store) GetChapter(ctx context.Context, id string) (model.Chapter, error) {
	var ch model.Chapter
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, board, class_level FROM chapters WHERE id = $1`, id,
	).Scan(&ch.ID, &ch.Title, &ch.Description, &ch.Board, &ch.ClassLevel)
	return ch, err
}

// ChapterDescription returns the chapter's description as a fragment, or
// nil when the chapter is unknown or has no description.
func (s *Store) ChapterDescription(ctx context.Context, chapterID string) (*model.ContentFragment, error) {
	ch, err := s.GetChapter(ctx, chapterID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chapter description: %w", err)
	}
	if ch.Description == "" {
		return nil, nil
	}
	return &model.ContentFragment{
		Kind:       model.SourceChapterDescription,
		Title:      ch.Title,
		Body:       ch.Description,
		Board:      ch.Board,
		ClassLevel: ch.ClassLevel,
		ChapterID:  ch.ID,
	}, nil
}

// UpsertChapter inserts or replaces a chapter. Used by the import
// subcommand and tests; the CRUD front end lives outside this service.
func (s *Store) UpsertChapter(ctx context.Context, ch model.Chapter) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chapters (id, title, description, board, class_level)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			board = EXCLUDED.board,
			class_level = EXCLUDED.class_level`,
		ch.ID, ch.Title, ch.Description, ch.Board, ch.ClassLevel)
	return err
}

// InsertTrainingDocument stores a document with pending processing
// status and returns its ID.
func (s *Store) InsertTrainingDocument(ctx context.Context, fr model.ContentFragment) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO training_documents (id, title, content, board, class_level, chapter_id, is_active, processing_status)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)`,
		id, fr.Title, fr.Body, fr.Board, fr.ClassLevel, fr.ChapterID, model.ProcessingPending)
	if err != nil {
		return "", fmt.Errorf("insert training document: %w", err)
	}
	return id, nil
}

// SetDocumentProcessingStatus flips a document's ingestion state. The
// flip is best effort and eventually consistent; readers only ever see
// completed documents.
func (s *Store) SetDocumentProcessingStatus(ctx context.Context, id string, status model.ProcessingStatus) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE training_documents SET processing_status = $1 WHERE id = $2`, status, id)
	return err
}

// InsertSyllabusNote stores a syllabus note and returns its ID.
func (s *Store) InsertSyllabusNote(ctx context.Context, fr model.ContentFragment) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO syllabus_notes (id, title, content, board, class_level)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, fr.Title, fr.Body, fr.Board, fr.ClassLevel)
	if err != nil {
		return "", fmt.Errorf("insert syllabus note: %w", err)
	}
	return id, nil
}
