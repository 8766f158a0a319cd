package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
)

// PipelineObserver receives per-document pipeline facts for metrics. All
// methods must be cheap and non-blocking.
type PipelineObserver interface {
	ObservePipeline(pages, chunks int)
	RecordDepartment(department string)
}

type ProcessDocumentUseCase struct {
	repo        ports.DocumentRepository
	storage     ports.ObjectStorage
	pages       ports.PageSource
	detector    ports.LanguageDetector
	normalizer  ports.TextNormalizer
	chunker     ports.Chunker
	mentions    ports.MentionExtractor
	classifier  ports.ChunkClassifier
	embedder    ports.Embedder
	index       ports.VectorIndex
	summarizer  *SummarizeDocumentUseCase
	highlighter ports.Highlighter
	ocrLanguage domain.Language
	observer    PipelineObserver
	logger      *slog.Logger
}

type ProcessDeps struct {
	Repo        ports.DocumentRepository
	Storage     ports.ObjectStorage
	Pages       ports.PageSource
	Detector    ports.LanguageDetector
	Normalizer  ports.TextNormalizer
	Chunker     ports.Chunker
	Mentions    ports.MentionExtractor
	Classifier  ports.ChunkClassifier
	Embedder    ports.Embedder
	Index       ports.VectorIndex
	Summarizer  *SummarizeDocumentUseCase
	Highlighter ports.Highlighter
	OCRLanguage domain.Language
	Observer    PipelineObserver
	Logger      *slog.Logger
}

func NewProcessDocumentUseCase(deps ProcessDeps) *ProcessDocumentUseCase {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessDocumentUseCase{
		repo:        deps.Repo,
		storage:     deps.Storage,
		pages:       deps.Pages,
		detector:    deps.Detector,
		normalizer:  deps.Normalizer,
		chunker:     deps.Chunker,
		mentions:    deps.Mentions,
		classifier:  deps.Classifier,
		embedder:    deps.Embedder,
		index:       deps.Index,
		summarizer:  deps.Summarizer,
		highlighter: deps.Highlighter,
		ocrLanguage: deps.OCRLanguage,
		observer:    deps.Observer,
		logger:      logger,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	result, err := uc.runPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveResult(ctx, documentID, result); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("save pipeline result: %w; mark failed status: %v", err, failErr)
		}
		return fmt.Errorf("save pipeline result: %w", err)
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusCompleted, ""); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) runPipeline(ctx context.Context, documentID string) (domain.PipelineResult, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("fetch document by id: %w", err)
	}

	path := uc.storage.Path(doc.StoragePath)
	pages, err := uc.pages.ExtractPages(ctx, path, uc.ocrLanguage)
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("extract pages: %w", err)
	}

	tally := domain.NewVoteTally()
	var (
		mentions domain.Mentions
		chunks   []domain.Chunk
		texts    []string
		sawText  bool
	)
	docLang := domain.LanguageEnglish

	for _, page := range pages {
		lang := uc.detector.Detect(page.Text)
		if lang == domain.LanguageMalayalam {
			docLang = domain.LanguageMalayalam
		}

		text := uc.normalizer.Normalize(page.Text, lang)
		if text == "" {
			continue
		}
		sawText = true

		pageMentions, err := uc.mentions.Extract(ctx, text, lang)
		if err != nil {
			return domain.PipelineResult{}, fmt.Errorf("extract mentions on page %d: %w", page.Number, err)
		}
		mentions.Merge(pageMentions)

		for idx, chunkText := range uc.chunker.Split(text) {
			label, err := uc.classifier.Classify(ctx, chunkText)
			if err != nil {
				return domain.PipelineResult{}, fmt.Errorf("classify chunk on page %d: %w", page.Number, err)
			}
			if label != domain.UnknownDepartment {
				tally.Add(label)
			}

			chunks = append(chunks, domain.Chunk{
				DocumentID: doc.ID,
				Page:       page.Number,
				Index:      idx,
				Text:       chunkText,
			})
			texts = append(texts, chunkText)
		}
	}

	if !sawText || len(chunks) == 0 {
		// No votes means no department. The document still completes so its
		// record is queryable rather than stuck in a failure loop.
		uc.logger.Warn("document yielded no usable text", "document_id", documentID)
		if uc.observer != nil {
			uc.observer.ObservePipeline(len(pages), 0)
			uc.observer.RecordDepartment(domain.UnknownDepartment)
		}
		return domain.PipelineResult{Department: domain.UnknownDepartment}, nil
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return domain.PipelineResult{}, domain.WrapError(domain.ErrInvalidInput, "embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)))
	}

	if err := uc.index.Upsert(ctx, doc.ID, chunks, vectors); err != nil {
		return domain.PipelineResult{}, fmt.Errorf("index chunks: %w", err)
	}

	summary, err := uc.summarizer.Summarize(ctx, doc.ID, docLang)
	if err != nil {
		return domain.PipelineResult{}, fmt.Errorf("generate summary: %w", err)
	}

	department := tally.Dominant()
	if uc.observer != nil {
		uc.observer.ObservePipeline(len(pages), len(chunks))
		uc.observer.RecordDepartment(department)
	}

	result := domain.PipelineResult{
		Department:     department,
		Summary:        summary,
		Deadlines:      mentions.Deadlines,
		FinancialTerms: mentions.Financials,
	}
	result.HighlightedPath = uc.highlight(ctx, path, mentions, pages, doc.ID)
	return result, nil
}

// highlight is best effort: a failure degrades the document, it never fails
// the pipeline.
func (uc *ProcessDocumentUseCase) highlight(ctx context.Context, path string, mentions domain.Mentions, pages []domain.Page, documentID string) string {
	if uc.highlighter == nil {
		return ""
	}
	all := mentions.All()
	if len(all) == 0 {
		return ""
	}

	highlighted, err := uc.highlighter.Highlight(ctx, path, all, pages)
	if err != nil {
		uc.logger.Warn("highlighting failed", "document_id", documentID, "error", err)
		return ""
	}
	return highlighted
}
