package model

// QuizExport is the JSON shape produced by the export subcommand: one
// quiz with its ordered questions and per-user attempt summaries.
type QuizExport struct {
	Quiz      Quiz            `json:"quiz"`
	Questions []QuizQuestion  `json:"questions"`
	Attempts  []AttemptExport `json:"attempts,omitempty"`
}

// AttemptExport summarizes one attempt for export.
type AttemptExport struct {
	UserID      string  `json:"user_id"`
	Score       float64 `json:"score"`
	MaxScore    float64 `json:"max_score"`
	Completed   bool    `json:"completed"`
	StartedAt   string  `json:"started_at"`
	CompletedAt string  `json:"completed_at,omitempty"`
}

// ContentImport is the on-disk JSON shape consumed by the import
// subcommand. Any section may be empty.
type ContentImport struct {
	Chapters      []ChapterImport  `json:"chapters"`
	Documents     []DocumentImport `json:"documents"`
	SyllabusNotes []SyllabusImport `json:"syllabus_notes"`
}

// ChapterImport is a chapter row loaded from a content file.
type ChapterImport struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Board       string `json:"board"`
	ClassLevel  string `json:"class_level"`
}

// DocumentImport is a training document loaded from a content file.
type DocumentImport struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Board      string `json:"board"`
	ClassLevel string `json:"class_level"`
	ChapterID  string `json:"chapter_id"`
}

// SyllabusImport is a syllabus note loaded from a content file.
type SyllabusImport struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Board      string `json:"board"`
	ClassLevel string `json:"class_level"`
}
