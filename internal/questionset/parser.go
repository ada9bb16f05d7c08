// Package questionset extracts and validates structured question sets
// from free-form model output. Models frequently wrap their JSON in
// prose or code fences, so parsing is a two-stage pipeline: locate the
// first top-level JSON object by brace matching, then parse it strictly.
// A stage-two failure is fatal for that provider's attempt; there is no
// repair heuristic.
package questionset

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/llm"
	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

// envelope is the raw JSON shape before validation.
type envelope struct {
	Title     string        `json:"title"`
	Questions []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	Text          string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Points        int      `json:"points"`
}

// Parse extracts a question set from raw provider text. Questions that
// fail validation are dropped, not corrected; producing fewer than
// expectedCount valid questions is tolerated and only logged. An empty
// surviving set is an error.
func Parse(raw string, expectedCount int) (*model.QuestionSet, error) {
	obj, err := extractObject(raw)
	if err != nil {
		return nil, fmt.Errorf("locate JSON object: %v: %w", err, llm.ErrMalformedOutput)
	}

	var env envelope
	if err := json.Unmarshal([]byte(obj), &env); err != nil {
		return nil, fmt.Errorf("parse question set: %v: %w", err, llm.ErrMalformedOutput)
	}

	set := &model.QuestionSet{Title: strings.TrimSpace(env.Title)}
	for i, rq := range env.Questions {
		q, err := validate(rq)
		if err != nil {
			slog.Warn("dropping invalid question", "index", i, "reason", err)
			continue
		}
		set.Questions = append(set.Questions, q)
	}

	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("no valid questions in response: %w", llm.ErrMalformedOutput)
	}
	if expectedCount > 0 && len(set.Questions) != expectedCount {
		slog.Info("question count mismatch", "expected", expectedCount, "got", len(set.Questions))
	}
	return set, nil
}

// validate applies the type-specific rules to one raw question.
func validate(rq rawQuestion) (model.Question, error) {
	q := model.Question{
		Text:          strings.TrimSpace(rq.Text),
		Type:          model.QuestionType(rq.Type),
		CorrectAnswer: rq.CorrectAnswer,
		Explanation:   strings.TrimSpace(rq.Explanation),
		Points:        rq.Points,
	}
	if q.Text == "" {
		return q, fmt.Errorf("empty question text")
	}
	if !q.Type.Valid() {
		return q, fmt.Errorf("unrecognized type %q", rq.Type)
	}
	if q.Points <= 0 {
		q.Points = 1
	}

	switch q.Type {
	case model.QuestionMCQ:
		if len(rq.Options) < 2 || len(rq.Options) > 4 {
			return q, fmt.Errorf("mcq needs 2-4 options, got %d", len(rq.Options))
		}
		match := false
		for _, opt := range rq.Options {
			if strings.TrimSpace(opt) == "" {
				return q, fmt.Errorf("mcq has empty option")
			}
			if opt == rq.CorrectAnswer {
				match = true
			}
		}
		if !match {
			return q, fmt.Errorf("correct_answer %q not among options", rq.CorrectAnswer)
		}
		q.Options = rq.Options
	case model.QuestionTrueFalse:
		if rq.CorrectAnswer != "True" && rq.CorrectAnswer != "False" {
			return q, fmt.Errorf("true_false answer must be True or False, got %q", rq.CorrectAnswer)
		}
		q.Options = []string{"True", "False"}
	case model.QuestionShortAnswer:
		if len(rq.Options) > 0 {
			return q, fmt.Errorf("short_answer must not carry options")
		}
		if strings.TrimSpace(rq.CorrectAnswer) == "" {
			return q, fmt.Errorf("short_answer has empty correct_answer")
		}
	}
	return q, nil
}

// extractObject returns the substring from the first '{' to its matching
// '}', tracking string literals and escapes so braces inside values do
// not confuse the depth count.
func extractObject(raw string) (string, error) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced braces")
}
