package assembler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

// fakeSource scripts each content class independently.
type fakeSource struct {
	docs    []model.ContentFragment
	notes   []model.ContentFragment
	desc    *model.ContentFragment
	docErr  error
	noteErr error
	descErr error
}

func (f *fakeSource) ListTrainingDocuments(context.Context, model.ContentFilter) ([]model.ContentFragment, error) {
	return f.docs, f.docErr
}

func (f *fakeSource) ListSyllabusNotes(context.Context, model.ContentFilter) ([]model.ContentFragment, error) {
	return f.notes, f.noteErr
}

func (f *fakeSource) ChapterDescription(context.Context, string) (*model.ContentFragment, error) {
	return f.desc, f.descErr
}

func fragment(kind model.SourceKind, title, body string) model.ContentFragment {
	return model.ContentFragment{Kind: kind, Title: title, Body: body}
}

func TestAssembleOrder(t *testing.T) {
	src := &fakeSource{
		docs: []model.ContentFragment{
			fragment(model.SourceTrainingDocument, "doc1", "document one"),
			fragment(model.SourceTrainingDocument, "doc2", "document two"),
		},
		notes: []model.ContentFragment{
			fragment(model.SourceSyllabusNote, "note1", "syllabus note"),
		},
		desc: &model.ContentFragment{Kind: model.SourceChapterDescription, Title: "ch", Body: "chapter overview"},
	}

	b, err := New(src, 0, 0).Assemble(context.Background(), model.ContentFilter{ChapterID: "ch-1"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []string{"doc1", "doc2", "note1", "ch"}
	if len(b.Fragments) != len(want) {
		t.Fatalf("got %d fragments, want %d", len(b.Fragments), len(want))
	}
	for i, title := range want {
		if b.Fragments[i].Title != title {
			t.Errorf("fragment[%d] = %q, want %q", i, b.Fragments[i].Title, title)
		}
	}
}

func TestAssembleSkipsDescriptionWithoutChapter(t *testing.T) {
	src := &fakeSource{
		desc: &model.ContentFragment{Kind: model.SourceChapterDescription, Title: "ch", Body: "text"},
	}
	b, err := New(src, 0, 0).Assemble(context.Background(), model.ContentFilter{Board: "CBSE"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(b.Fragments) != 0 {
		t.Errorf("expected no fragments without a chapter filter, got %d", len(b.Fragments))
	}
}

func TestAssemblePerFragmentCap(t *testing.T) {
	src := &fakeSource{
		docs: []model.ContentFragment{
			fragment(model.SourceTrainingDocument, "long", strings.Repeat("x", 500)),
		},
	}
	b, err := New(src, 100, 1000).Assemble(context.Background(), model.ContentFilter{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if got := len(b.Fragments[0].Body); got != 100 {
		t.Errorf("fragment body = %d chars, want 100", got)
	}
	if b.TotalChars != 100 {
		t.Errorf("TotalChars = %d, want 100", b.TotalChars)
	}
}

func TestAssembleTotalBudget(t *testing.T) {
	var docs []model.ContentFragment
	for i := 0; i < 10; i++ {
		docs = append(docs, fragment(model.SourceTrainingDocument, fmt.Sprintf("doc%d", i), strings.Repeat("y", 100)))
	}
	src := &fakeSource{docs: docs}

	b, err := New(src, 100, 250).Assemble(context.Background(), model.ContentFilter{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// 100 + 100 + 50: the third fragment is truncated to the remainder
	// and anything past the budget is dropped.
	if len(b.Fragments) != 3 {
		t.Fatalf("got %d fragments, want 3", len(b.Fragments))
	}
	if got := len(b.Fragments[2].Body); got != 50 {
		t.Errorf("last fragment = %d chars, want 50", got)
	}
	if b.TotalChars != 250 {
		t.Errorf("TotalChars = %d, want 250", b.TotalChars)
	}
}

func TestAssembleClassFailureTolerated(t *testing.T) {
	src := &fakeSource{
		docErr: fmt.Errorf("table scan failed"),
		notes: []model.ContentFragment{
			fragment(model.SourceSyllabusNote, "note", "surviving note"),
		},
		descErr: fmt.Errorf("lookup failed"),
	}
	b, err := New(src, 0, 0).Assemble(context.Background(), model.ContentFilter{ChapterID: "ch-1"})
	if err != nil {
		t.Fatalf("class failures must not fail assembly: %v", err)
	}
	if len(b.Fragments) != 1 || b.Fragments[0].Title != "note" {
		t.Errorf("fragments = %+v, want only the syllabus note", b.Fragments)
	}
}

func TestAssembleAllEmpty(t *testing.T) {
	b, err := New(&fakeSource{}, 0, 0).Assemble(context.Background(), model.ContentFilter{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if b.TotalChars != 0 || len(b.Fragments) != 0 {
		t.Errorf("empty source should yield empty bundle, got %+v", b)
	}
}

func TestRender(t *testing.T) {
	b := &Bundle{Fragments: []model.ContentFragment{
		fragment(model.SourceTrainingDocument, "Cells", "All living things are made of cells."),
	}}
	got := b.Render()
	want := "--- Cells ---\nAll living things are made of cells.\n\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
