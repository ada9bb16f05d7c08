// Package tutor implements the two caller-facing generation operations:
// chat turns grounded in stored study material, and test generation with
// persisted assessments.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/assembler"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/llm"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/llm/prompts"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/questionset"
)

var (
	// ErrInsufficientContent means too little grounding material exists
	// for test generation. Raised before any provider is contacted.
	ErrInsufficientContent = errors.New("insufficient study material for test generation")

	// ErrPersistence means a valid question set was produced but saving
	// it failed. The generated questions still accompany the error.
	ErrPersistence = errors.New("failed to save generated assessment")

	// ErrInvalidRequest covers caller input validation failures.
	ErrInvalidRequest = errors.New("invalid request")
)

// DefaultMinContextChars is the default insufficient-content threshold.
// A tunable, not a contract.
const DefaultMinContextChars = 80

const (
	chatMaxTokens   = 1024
	testMaxTokens   = 4096
	chatTemperature = 0.7
	testTemperature = 0.4

	defaultQuestionCount   = 10
	minutesPerQuestion     = 2
	defaultAssessmentTitle = "Practice Test"
)

// QuizStore is the slice of the content store the service persists
// through.
type QuizStore interface {
	GetChapter(ctx context.Context, id string) (model.Chapter, error)
	CreateQuiz(ctx context.Context, quiz model.Quiz) (model.Quiz, error)
	InsertQuizQuestions(ctx context.Context, quizID string, questions []model.Question) error
}

// Service wires the assembler, gateway, and store into the two
// operations. Each call is a stateless invocation; all durable state
// lives in the store.
type Service struct {
	assembler       *assembler.Assembler
	gateway         *llm.Gateway
	store           QuizStore
	minContextChars int
}

// NewService creates the service. A non-positive minContextChars falls
// back to the default threshold.
func NewService(a *assembler.Assembler, g *llm.Gateway, store QuizStore, minContextChars int) *Service {
	if minContextChars <= 0 {
		minContextChars = DefaultMinContextChars
	}
	return &Service{assembler: a, gateway: g, store: store, minContextChars: minContextChars}
}

// ChatRequest is one tutoring turn with optional curriculum context.
type ChatRequest struct {
	Messages   []model.ChatMessage
	Board      string
	ClassLevel string
}

// ChatResponse is the tutor's reply.
type ChatResponse struct {
	Response string
	Provider string
}

// Chat assembles whatever grounding material matches the caller's
// context and generates a reply. Chat has no content minimum; an empty
// bundle degrades to general-knowledge tutoring.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("messages are required: %w", ErrInvalidRequest)
	}
	for _, m := range req.Messages {
		if m.Role != model.RoleUser && m.Role != model.RoleAssistant {
			return nil, fmt.Errorf("unrecognized message role %q: %w", m.Role, ErrInvalidRequest)
		}
	}

	bundle, err := s.assembler.Assemble(ctx, model.ContentFilter{Board: req.Board, ClassLevel: req.ClassLevel})
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	bundleText := ""
	if bundle.TotalChars > 0 {
		bundleText = bundle.Render()
	}
	result, err := s.gateway.Generate(ctx, llm.Request{
		System:      prompts.TutorSystem(bundleText),
		Messages:    req.Messages,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &ChatResponse{Response: result.Text, Provider: result.Provider}, nil
}

// TestRequest describes the assessment to generate.
type TestRequest struct {
	ChapterID     string
	Title         string
	NumQuestions  int
	Difficulty    model.Difficulty
	QuestionTypes []model.QuestionType

	// CreatedBy is the caller identity. Empty disables persistence:
	// the questions are returned but no quiz is stored.
	CreatedBy string
}

// TestResult is the outcome of a test generation. On ErrPersistence the
// questions are still populated; generation succeeded even though
// saving did not.
type TestResult struct {
	Title     string
	Questions []model.Question
	QuizID    string
	Saved     bool
	Provider  string
	Attempts  []llm.Attempt
}

// GenerateTest assembles chapter-scoped material, generates a question
// set through the provider chain, and persists the assessment when a
// caller identity is present. Parsing failures count against the
// producing provider and trigger fallback; a retried request always
// creates a new quiz.
func (s *Service) GenerateTest(ctx context.Context, req TestRequest) (*TestResult, error) {
	if req.ChapterID == "" {
		return nil, fmt.Errorf("chapterId is required: %w", ErrInvalidRequest)
	}
	if req.NumQuestions <= 0 {
		req.NumQuestions = defaultQuestionCount
	}
	if req.Difficulty == "" {
		req.Difficulty = model.DifficultyMedium
	}
	if !req.Difficulty.Valid() {
		return nil, fmt.Errorf("unrecognized difficulty %q: %w", req.Difficulty, ErrInvalidRequest)
	}
	for _, t := range req.QuestionTypes {
		if !t.Valid() {
			return nil, fmt.Errorf("unrecognized question type %q: %w", t, ErrInvalidRequest)
		}
	}

	filter := model.ContentFilter{ChapterID: req.ChapterID}
	chapterTitle := ""
	chapter, err := s.store.GetChapter(ctx, req.ChapterID)
	if err == nil {
		chapterTitle = chapter.Title
		filter.Board = chapter.Board
		filter.ClassLevel = chapter.ClassLevel
	} else {
		slog.Warn("chapter lookup failed, assembling by chapter id only", "chapter_id", req.ChapterID, "error", err)
	}

	bundle, err := s.assembler.Assemble(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}
	if bundle.TotalChars < s.minContextChars {
		return nil, fmt.Errorf("chapter %s has %d chars of material, need %d: %w",
			req.ChapterID, bundle.TotalChars, s.minContextChars, ErrInsufficientContent)
	}

	var set *model.QuestionSet
	accept := func(raw string) error {
		parsed, err := questionset.Parse(raw, req.NumQuestions)
		if err != nil {
			return err
		}
		set = parsed
		return nil
	}

	genResult, err := s.gateway.Generate(ctx, llm.Request{
		System:      prompts.TestSystem(bundle.Render()),
		Messages:    []model.ChatMessage{{Role: model.RoleUser, Content: prompts.TestTask(chapterTitle, req.NumQuestions, req.Difficulty, req.QuestionTypes)}},
		MaxTokens:   testMaxTokens,
		Temperature: testTemperature,
	}, accept)
	if err != nil {
		return &TestResult{Attempts: genResult.Attempts}, err
	}

	result := &TestResult{
		Title:     assessmentTitle(req.Title, set.Title, chapterTitle),
		Questions: set.Questions,
		Provider:  genResult.Provider,
		Attempts:  genResult.Attempts,
	}

	if req.CreatedBy == "" {
		return result, nil
	}

	quiz, err := s.store.CreateQuiz(ctx, model.Quiz{
		ChapterID:        req.ChapterID,
		Title:            result.Title,
		TimeLimitMinutes: minutesPerQuestion * len(set.Questions),
		CreatedBy:        req.CreatedBy,
	})
	if err != nil {
		return result, fmt.Errorf("create quiz: %v: %w", err, ErrPersistence)
	}
	if err := s.store.InsertQuizQuestions(ctx, quiz.ID, set.Questions); err != nil {
		// The quiz row may remain with zero questions; QuizIsComplete
		// keeps it from ever being served as playable.
		return result, fmt.Errorf("insert questions for quiz %s: %v: %w", quiz.ID, err, ErrPersistence)
	}

	result.QuizID = quiz.ID
	result.Saved = true
	return result, nil
}

func assessmentTitle(requested, generated, chapterTitle string) string {
	switch {
	case requested != "":
		return requested
	case generated != "":
		return generated
	case chapterTitle != "":
		return chapterTitle + " Test"
	}
	return defaultAssessmentTitle
}
