package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anandks07/docflow/internal/core/domain"
)

// retrievalIndexFake answers successive Query calls from a scripted list so
// the zero-vector fallback path is observable.
type retrievalIndexFake struct {
	results [][]domain.RetrievedChunk
	queries [][]float32
	err     error
}

func (f *retrievalIndexFake) Upsert(context.Context, string, []domain.Chunk, [][]float32) error {
	return errors.New("not implemented")
}

func (f *retrievalIndexFake) Query(_ context.Context, _ string, vector []float32, _ int) ([]domain.RetrievedChunk, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.queries = append(f.queries, vector)
	if len(f.results) == 0 {
		return nil, nil
	}
	next := f.results[0]
	f.results = f.results[1:]
	return next, nil
}

func manyChunks(n int) []domain.RetrievedChunk {
	out := make([]domain.RetrievedChunk, n)
	for i := range out {
		out[i] = domain.RetrievedChunk{DocumentID: "doc-1", ChunkIndex: i, Text: "chunk"}
	}
	return out
}

func TestSummarizeSuccess(t *testing.T) {
	index := &retrievalIndexFake{results: [][]domain.RetrievedChunk{manyChunks(4)}}
	generator := &generatorFake{summary: "the summary"}
	uc := NewSummarizeDocumentUseCase(&embedderFake{queryVec: []float32{0.5}}, index, generator, 384, 10)

	summary, err := uc.Summarize(context.Background(), "doc-1", domain.LanguageEnglish)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != "the summary" {
		t.Fatalf("unexpected summary %q", summary)
	}
	if len(index.queries) != 1 {
		t.Fatalf("expected a single query, got %d", len(index.queries))
	}
}

func TestSummarizeFallsBackToZeroVector(t *testing.T) {
	index := &retrievalIndexFake{results: [][]domain.RetrievedChunk{nil, manyChunks(2)}}
	generator := &generatorFake{summary: "the summary"}
	uc := NewSummarizeDocumentUseCase(&embedderFake{queryVec: []float32{0.5}}, index, generator, 384, 10)

	if _, err := uc.Summarize(context.Background(), "doc-1", domain.LanguageEnglish); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(index.queries) != 2 {
		t.Fatalf("expected semantic + fallback queries, got %d", len(index.queries))
	}
	fallback := index.queries[1]
	if len(fallback) != 384 {
		t.Fatalf("expected fallback vector of dim 384, got %d", len(fallback))
	}
	for i, v := range fallback {
		if v != 0 {
			t.Fatalf("expected zero vector, got %f at %d", v, i)
		}
	}
}

func TestSummarizeRetriesWithFewerChunks(t *testing.T) {
	index := &retrievalIndexFake{results: [][]domain.RetrievedChunk{manyChunks(10)}}
	generator := &generatorFake{summary: "the summary", failures: 2}
	uc := NewSummarizeDocumentUseCase(&embedderFake{queryVec: []float32{0.5}}, index, generator, 384, 10)

	summary, err := uc.Summarize(context.Background(), "doc-1", domain.LanguageEnglish)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary != "the summary" {
		t.Fatalf("unexpected summary %q", summary)
	}
	want := []int{10, 5, 3}
	if len(generator.chunkCounts) != len(want) {
		t.Fatalf("expected %d attempts, got %v", len(want), generator.chunkCounts)
	}
	for i, n := range want {
		if generator.chunkCounts[i] != n {
			t.Fatalf("attempt %d used %d chunks, want %d", i, generator.chunkCounts[i], n)
		}
	}
}

func TestSummarizeErrorsWhenNamespaceEmpty(t *testing.T) {
	index := &retrievalIndexFake{}
	uc := NewSummarizeDocumentUseCase(&embedderFake{queryVec: []float32{0.5}}, index, &generatorFake{summary: "x"}, 384, 10)

	_, err := uc.Summarize(context.Background(), "doc-1", domain.LanguageEnglish)
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected document not found, got %v", err)
	}
}

func TestSummarizeReportsFailureInSummaryText(t *testing.T) {
	index := &retrievalIndexFake{results: [][]domain.RetrievedChunk{manyChunks(10)}}
	generator := &generatorFake{failures: 3}
	uc := NewSummarizeDocumentUseCase(&embedderFake{queryVec: []float32{0.5}}, index, generator, 384, 10)

	summary, err := uc.Summarize(context.Background(), "doc-1", domain.LanguageEnglish)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !strings.HasPrefix(summary, "Summary generation failed:") {
		t.Fatalf("summary = %q, want failure banner", summary)
	}
	if len(generator.chunkCounts) != 3 {
		t.Fatalf("expected 3 attempts, got %v", generator.chunkCounts)
	}
}

func TestSummarizeErrorsOnCancellation(t *testing.T) {
	index := &retrievalIndexFake{results: [][]domain.RetrievedChunk{manyChunks(10)}}
	generator := &generatorFake{failures: 3}
	uc := NewSummarizeDocumentUseCase(&embedderFake{queryVec: []float32{0.5}}, index, generator, 384, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := uc.Summarize(ctx, "doc-1", domain.LanguageEnglish); err == nil {
		t.Fatalf("expected error on cancelled context")
	}
}
