package model

import (
	"context"
	"time"
)

// SourceKind identifies the class of a content fragment.
type SourceKind string

const (
	SourceTrainingDocument   SourceKind = "training_document"
	SourceSyllabusNote       SourceKind = "syllabus_note"
	SourceChapterDescription SourceKind = "chapter_description"
)

// ContentFilter narrows content reads by curriculum scope.
// Empty fields mean no filtering on that dimension; rows with an empty
// board/class of their own are generic and match any filter.
type ContentFilter struct {
	Board      string
	ClassLevel string
	ChapterID  string
}

// ContentFragment is one retrievable unit of grounding material.
// Immutable once fetched for a request.
type ContentFragment struct {
	Kind       SourceKind
	Title      string
	Body       string
	Board      string
	ClassLevel string
	ChapterID  string
}

// ProcessingStatus tracks a training document's ingestion state.
type ProcessingStatus string

const (
	ProcessingPending   ProcessingStatus = "pending"
	ProcessingCompleted ProcessingStatus = "completed"
	ProcessingFailed    ProcessingStatus = "failed"
)

// QuestionType represents the kind of an assessment question.
type QuestionType string

const (
	QuestionMCQ         QuestionType = "mcq"
	QuestionTrueFalse   QuestionType = "true_false"
	QuestionShortAnswer QuestionType = "short_answer"
)

// Valid reports whether t is one of the recognized question kinds.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMCQ, QuestionTrueFalse, QuestionShortAnswer:
		return true
	}
	return false
}

// Difficulty represents requested question difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyMixed  Difficulty = "mixed"
)

// Valid reports whether d is a recognized difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMixed:
		return true
	}
	return false
}

// Question is a single validated assessment question.
type Question struct {
	Text          string       `json:"question"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation,omitempty"`
	Points        int          `json:"points"`
}

// QuestionSet is an ordered, validated collection of questions produced
// from model output.
type QuestionSet struct {
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

// Quiz is a stored assessment created from one successful generation.
type Quiz struct {
	ID               string    `json:"id"`
	ChapterID        string    `json:"chapter_id"`
	Title            string    `json:"title"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	IsPublished      bool      `json:"is_published"`
	CreatedBy        string    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// QuizQuestion is a question owned by a quiz. OrderIndex is 0-based and
// contiguous within the quiz.
type QuizQuestion struct {
	ID         string `json:"id"`
	QuizID     string `json:"quiz_id"`
	OrderIndex int    `json:"order_index"`
	Question
}

// AttemptRecord is one student run at a quiz. At most one record per
// (user, quiz) has a nil CompletedAt; a completed record is immutable.
type AttemptRecord struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	QuizID      string     `json:"quiz_id"`
	Score       float64    `json:"score"`
	MaxScore    float64    `json:"max_score"`
	Answers     string     `json:"answers"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Open reports whether the attempt is still in progress.
func (a AttemptRecord) Open() bool { return a.CompletedAt == nil }

// ProgressRecord tracks chapter completion for one user. The percentage
// never decreases and time spent only accumulates.
type ProgressRecord struct {
	UserID             string     `json:"user_id"`
	ChapterID          string     `json:"chapter_id"`
	ProgressPercentage int        `json:"progress_percentage"`
	TimeSpentSeconds   int64      `json:"time_spent_seconds"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Chapter is a unit of study material.
type Chapter struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Board       string `json:"board"`
	ClassLevel  string `json:"class_level"`
}

// ChatRole represents a conversation message role.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a tutoring conversation.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

type userCtxKey struct{}

// ContextWithUserID stores the caller identity in the request context.
// Identity is supplied by the external auth collaborator; an empty ID
// means an anonymous caller.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userCtxKey{}, userID)
}

// UserIDFromContext retrieves the caller identity, or "" if anonymous.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userCtxKey{}).(string)
	return id
}
