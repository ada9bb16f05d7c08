// Package assembler gathers stored study material into a bounded,
// prompt-ready context bundle. Reads are per content class and a failed
// class degrades to zero fragments of that class rather than failing
// the whole request.
package assembler

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

// Default character limits. Tunables, not contracts.
const (
	DefaultPerFragmentCap = 4000
	DefaultTotalBudget    = 12000
)

// ContentSource is the read-only slice of the content store the
// assembler needs.
type ContentSource interface {
	ListTrainingDocuments(ctx context.Context, f model.ContentFilter) ([]model.ContentFragment, error)
	ListSyllabusNotes(ctx context.Context, f model.ContentFilter) ([]model.ContentFragment, error)
	ChapterDescription(ctx context.Context, chapterID string) (*model.ContentFragment, error)
}

// Bundle is the ordered, truncated concatenation of fragments for one
// request. Built fresh per request, never persisted.
type Bundle struct {
	Fragments  []model.ContentFragment
	TotalChars int
}

// Render produces the text handed to the language model as grounding.
func (b *Bundle) Render() string {
	var sb strings.Builder
	for _, fr := range b.Fragments {
		sb.WriteString("--- ")
		sb.WriteString(fr.Title)
		sb.WriteString(" ---\n")
		sb.WriteString(fr.Body)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Assembler builds context bundles within configured character budgets.
type Assembler struct {
	source         ContentSource
	perFragmentCap int
	totalBudget    int
}

// New creates an assembler. Non-positive caps fall back to the defaults.
func New(source ContentSource, perFragmentCap, totalBudget int) *Assembler {
	if perFragmentCap <= 0 {
		perFragmentCap = DefaultPerFragmentCap
	}
	if totalBudget <= 0 {
		totalBudget = DefaultTotalBudget
	}
	return &Assembler{source: source, perFragmentCap: perFragmentCap, totalBudget: totalBudget}
}

// Assemble fetches the three content classes concurrently, then
// concatenates fragments in fixed priority order (training documents,
// syllabus notes, chapter description) until the total budget is
// exhausted. Fragments past the budget are dropped silently.
func (a *Assembler) Assemble(ctx context.Context, filter model.ContentFilter) (*Bundle, error) {
	var docs, notes []model.ContentFragment
	var desc *model.ContentFragment

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, err = a.source.ListTrainingDocuments(gctx, filter)
		if err != nil {
			slog.Warn("training documents unavailable", "error", err)
			docs = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		notes, err = a.source.ListSyllabusNotes(gctx, filter)
		if err != nil {
			slog.Warn("syllabus notes unavailable", "error", err)
			notes = nil
		}
		return nil
	})
	if filter.ChapterID != "" {
		g.Go(func() error {
			var err error
			desc, err = a.source.ChapterDescription(gctx, filter.ChapterID)
			if err != nil {
				slog.Warn("chapter description unavailable", "chapter_id", filter.ChapterID, "error", err)
				desc = nil
			}
			return nil
		})
	}
	_ = g.Wait()

	ordered := make([]model.ContentFragment, 0, len(docs)+len(notes)+1)
	ordered = append(ordered, docs...)
	ordered = append(ordered, notes...)
	if desc != nil {
		ordered = append(ordered, *desc)
	}

	bundle := &Bundle{}
	remaining := a.totalBudget
	for _, fr := range ordered {
		if remaining <= 0 {
			break
		}
		limit := a.perFragmentCap
		if remaining < limit {
			limit = remaining
		}
		fr.Body = truncate(fr.Body, limit)
		if fr.Body == "" {
			continue
		}
		bundle.Fragments = append(bundle.Fragments, fr)
		bundle.TotalChars += len(fr.Body)
		remaining -= len(fr.Body)
	}
	return bundle, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
