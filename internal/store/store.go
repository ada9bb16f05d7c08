// Package store implements the content store: chapters, training
// documents, syllabus notes, generated quizzes, attempts, and chapter
// progress over database/sql. SQLite is the default engine; Postgres is
// selected by driver name. Statements use $N placeholders, which both
// drivers accept.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

// Driver selects the database engine.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Store wraps the SQL database.
type Store struct {
	db *sql.DB
}

// Open opens the database, verifies connectivity, and ensures the schema
// exists.
func Open(ctx context.Context, driver Driver, dsn string) (*Store, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
		if dsn == "" {
			dsn = "file:brightpath.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx"
		if dsn == "" {
			dsn = "postgres://localhost:5432/brightpath?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx, driver); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context, driver Driver) error {
	schema := schemaSQLite
	if driver == DriverPostgres {
		schema = schemaPostgres
	}
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS chapters (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	board TEXT NOT NULL DEFAULT '',
	class_level TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS training_documents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	board TEXT NOT NULL DEFAULT '',
	class_level TEXT NOT NULL DEFAULT '',
	chapter_id TEXT NOT NULL DEFAULT '',
	is_active INTEGER NOT NULL DEFAULT 1,
	processing_status TEXT NOT NULL DEFAULT 'pending'
);

CREATE TABLE IF NOT EXISTS syllabus_notes (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	board TEXT NOT NULL DEFAULT '',
	class_level TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS quizzes (
	id TEXT PRIMARY KEY,
	chapter_id TEXT NOT NULL,
	title TEXT NOT NULL,
	time_limit_minutes INTEGER NOT NULL DEFAULT 0,
	is_published INTEGER NOT NULL DEFAULT 0,
	created_by TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_questions (
	id TEXT PRIMARY KEY,
	quiz_id TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
	order_index INTEGER NOT NULL,
	question TEXT NOT NULL,
	type TEXT NOT NULL,
	options_json TEXT NOT NULL DEFAULT '[]',
	correct_answer TEXT NOT NULL,
	explanation TEXT NOT NULL DEFAULT '',
	points INTEGER NOT NULL DEFAULT 1,
	UNIQUE (quiz_id, order_index)
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	quiz_id TEXT NOT NULL,
	score REAL NOT NULL DEFAULT 0,
	max_score REAL NOT NULL DEFAULT 0,
	answers_json TEXT NOT NULL DEFAULT '{}',
	started_at TIMESTAMP NOT NULL,
	completed_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chapter_progress (
	user_id TEXT NOT NULL,
	chapter_id TEXT NOT NULL,
	progress_pct INTEGER NOT NULL DEFAULT 0,
	time_spent_seconds INTEGER NOT NULL DEFAULT 0,
	completed_at TIMESTAMP,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, chapter_id)
);

CREATE TABLE IF NOT EXISTS imported_files (
	path TEXT PRIMARY KEY,
	sha256 TEXT NOT NULL,
	imported_at TIMESTAMP NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS chapters (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	board TEXT NOT NULL DEFAULT '',
	class_level TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS training_documents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	board TEXT NOT NULL DEFAULT '',
	class_level TEXT NOT NULL DEFAULT '',
	chapter_id TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	processing_status TEXT NOT NULL DEFAULT 'pending'
);

CREATE TABLE IF NOT EXISTS syllabus_notes (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	board TEXT NOT NULL DEFAULT '',
	class_level TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS quizzes (
	id TEXT PRIMARY KEY,
	chapter_id TEXT NOT NULL,
	title TEXT NOT NULL,
	time_limit_minutes INTEGER NOT NULL DEFAULT 0,
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	created_by TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS quiz_questions (
	id TEXT PRIMARY KEY,
	quiz_id TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
	order_index INTEGER NOT NULL,
	question TEXT NOT NULL,
	type TEXT NOT NULL,
	options_json TEXT NOT NULL DEFAULT '[]',
	correct_answer TEXT NOT NULL,
	explanation TEXT NOT NULL DEFAULT '',
	points INTEGER NOT NULL DEFAULT 1,
	UNIQUE (quiz_id, order_index)
);

CREATE TABLE IF NOT EXISTS quiz_attempts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	quiz_id TEXT NOT NULL,
	score DOUBLE PRECISION NOT NULL DEFAULT 0,
	max_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	answers_json TEXT NOT NULL DEFAULT '{}',
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS chapter_progress (
	user_id TEXT NOT NULL,
	chapter_id TEXT NOT NULL,
	progress_pct INTEGER NOT NULL DEFAULT 0,
	time_spent_seconds BIGINT NOT NULL DEFAULT 0,
	completed_at TIMESTAMPTZ,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, chapter_id)
);

CREATE TABLE IF NOT EXISTS imported_files (
	path TEXT PRIMARY KEY,
	sha256 TEXT NOT NULL,
	imported_at TIMESTAMPTZ NOT NULL
);
`
