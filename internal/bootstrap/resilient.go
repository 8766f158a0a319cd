package bootstrap

import (
	"context"
	"image"

	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
	"github.com/anandks07/docflow/internal/infrastructure/llm/ollama"
	"github.com/anandks07/docflow/internal/infrastructure/ocr/tesseract"
	"github.com/anandks07/docflow/internal/infrastructure/resilience"
	"github.com/anandks07/docflow/internal/infrastructure/vector/qdrant"
)

// The decorators below run each outbound call through the shared executor
// with the dependency's own error classifier, keeping retry policy out of
// both the clients and the use cases.

type resilientEmbedder struct {
	inner    ports.Embedder
	executor *resilience.Executor
}

func newResilientEmbedder(inner ports.Embedder, executor *resilience.Executor) *resilientEmbedder {
	return &resilientEmbedder{inner: inner, executor: executor}
}

func (e *resilientEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := e.executor.Execute(ctx, "ollama.embed", func(ctx context.Context) error {
		var callErr error
		out, callErr = e.inner.Embed(ctx, texts)
		return callErr
	}, ollama.ClassifyError)
	return out, ollama.WrapTemporary("ollama.embed", err)
}

func (e *resilientEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := e.executor.Execute(ctx, "ollama.embed_query", func(ctx context.Context) error {
		var callErr error
		out, callErr = e.inner.EmbedQuery(ctx, text)
		return callErr
	}, ollama.ClassifyError)
	return out, ollama.WrapTemporary("ollama.embed_query", err)
}

type resilientGenerator struct {
	inner    ports.AnswerGenerator
	executor *resilience.Executor
}

func newResilientGenerator(inner ports.AnswerGenerator, executor *resilience.Executor) *resilientGenerator {
	return &resilientGenerator{inner: inner, executor: executor}
}

func (g *resilientGenerator) GenerateSummary(ctx context.Context, lang domain.Language, chunks []domain.RetrievedChunk) (string, error) {
	var out string
	err := g.executor.Execute(ctx, "ollama.generate_summary", func(ctx context.Context) error {
		var callErr error
		out, callErr = g.inner.GenerateSummary(ctx, lang, chunks)
		return callErr
	}, ollama.ClassifyError)
	return out, ollama.WrapTemporary("ollama.generate_summary", err)
}

func (g *resilientGenerator) GenerateAnswer(ctx context.Context, question string, lang domain.Language, chunks []domain.RetrievedChunk) (string, error) {
	var out string
	err := g.executor.Execute(ctx, "ollama.generate_answer", func(ctx context.Context) error {
		var callErr error
		out, callErr = g.inner.GenerateAnswer(ctx, question, lang, chunks)
		return callErr
	}, ollama.ClassifyError)
	return out, ollama.WrapTemporary("ollama.generate_answer", err)
}

type resilientIndex struct {
	inner    ports.VectorIndex
	executor *resilience.Executor
}

func newResilientIndex(inner ports.VectorIndex, executor *resilience.Executor) *resilientIndex {
	return &resilientIndex{inner: inner, executor: executor}
}

func (i *resilientIndex) Upsert(ctx context.Context, namespace string, chunks []domain.Chunk, vectors [][]float32) error {
	return i.executor.Execute(ctx, "qdrant.upsert", func(ctx context.Context) error {
		return i.inner.Upsert(ctx, namespace, chunks, vectors)
	}, qdrant.ClassifyError)
}

func (i *resilientIndex) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]domain.RetrievedChunk, error) {
	var out []domain.RetrievedChunk
	err := i.executor.Execute(ctx, "qdrant.query", func(ctx context.Context) error {
		var callErr error
		out, callErr = i.inner.Query(ctx, namespace, vector, topK)
		return callErr
	}, qdrant.ClassifyError)
	return out, err
}

type resilientOCR struct {
	inner    ports.OCREngine
	executor *resilience.Executor
}

func newResilientOCR(inner ports.OCREngine, executor *resilience.Executor) *resilientOCR {
	return &resilientOCR{inner: inner, executor: executor}
}

func (o *resilientOCR) Recognize(ctx context.Context, img image.Image, lang domain.Language) (ports.OCRResult, error) {
	var out ports.OCRResult
	err := o.executor.Execute(ctx, "tesseract.recognize", func(ctx context.Context) error {
		var callErr error
		out, callErr = o.inner.Recognize(ctx, img, lang)
		return callErr
	}, tesseract.ClassifyError)
	return out, err
}
