// Package prompts builds the system and task prompts sent to language
// model providers. The same prompt text is replayed unchanged across
// every provider in the fallback chain.
package prompts

import (
	"fmt"
	"strings"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

// TutorSystem builds the system prompt for a chat turn, grounding the
// tutor in the assembled study material. An empty bundle is allowed:
// the tutor falls back to general guidance.
func TutorSystem(bundleText string) string {
	var sb strings.Builder
	sb.WriteString("You are a patient, encouraging tutor for school students. ")
	sb.WriteString("Answer in clear, simple language appropriate for the student's level. ")
	sb.WriteString("Prefer short worked examples over abstract explanations.\n\n")

	if bundleText != "" {
		sb.WriteString("Use the following study material as your primary source. ")
		sb.WriteString("If the question goes beyond it, say so and answer from general knowledge.\n\n")
		sb.WriteString("STUDY MATERIAL:\n")
		sb.WriteString(bundleText)
		sb.WriteString("\n")
	} else {
		sb.WriteString("No study material is available for this conversation; ")
		sb.WriteString("answer from general knowledge.\n")
	}

	return sb.String()
}

// TestSystem builds the system prompt for test generation. The bundle is
// the only admissible source: questions must be answerable from it.
func TestSystem(bundleText string) string {
	var sb strings.Builder
	sb.WriteString("You are an exam setter. Write assessment questions strictly from the ")
	sb.WriteString("study material below. Every question must be answerable from that ")
	sb.WriteString("material alone.\n\n")
	sb.WriteString("STUDY MATERIAL:\n")
	sb.WriteString(bundleText)
	sb.WriteString("\n")
	return sb.String()
}

// TestTask builds the user message describing the question set to
// produce, including the strict JSON envelope the parser expects.
func TestTask(chapterTitle string, count int, difficulty model.Difficulty, types []model.QuestionType) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Create %d questions", count))
	if chapterTitle != "" {
		sb.WriteString(" for the chapter \"" + chapterTitle + "\"")
	}
	sb.WriteString(".\n\n")

	if difficulty == model.DifficultyMixed {
		sb.WriteString("Mix easy, medium, and hard questions.\n")
	} else {
		sb.WriteString("Difficulty: " + string(difficulty) + ".\n")
	}

	if len(types) > 0 {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		sb.WriteString("Allowed question types: " + strings.Join(names, ", ") + ".\n")
	} else {
		sb.WriteString("Allowed question types: mcq, true_false, short_answer.\n")
	}

	sb.WriteString("\nRULES:\n")
	sb.WriteString("- \"mcq\" questions carry 2 to 4 options and correct_answer must exactly equal one option.\n")
	sb.WriteString("- \"true_false\" questions answer with \"True\" or \"False\" and carry no options.\n")
	sb.WriteString("- \"short_answer\" questions carry no options.\n")
	sb.WriteString("- points is a positive integer, usually 1.\n")
	sb.WriteString("\nRespond ONLY with a JSON object of this exact shape:\n")
	sb.WriteString(`{"title": "<quiz title>", "questions": [{"question": "<text>", "type": "mcq|true_false|short_answer", "options": ["..."], "correct_answer": "<answer>", "explanation": "<why>", "points": 1}]}`)
	sb.WriteString("\n")

	return sb.String()
}
