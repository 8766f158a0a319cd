package ports

import (
	"context"
	"image"
	"io"

	"github.com/anandks07/docflow/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, limit, offset int) ([]domain.Document, error)
	ListByDepartment(ctx context.Context, department string, limit, offset int) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveResult(ctx context.Context, id string, result domain.PipelineResult) error
}

// QuestionRepository persists questions and completes them with answers.
type QuestionRepository interface {
	Create(ctx context.Context, q *domain.Question) error
	ListByDocument(ctx context.Context, documentID string) ([]domain.Question, error)
	SaveAnswer(ctx context.Context, questionID, answer string) error
}

// NotificationRepository persists department notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListUnreadByDepartment(ctx context.Context, department string) ([]domain.Notification, error)
}

// ObjectStorage stores source and highlighted PDFs.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Path(key string) string
}

// MessageQueue connects the api process to the worker. Both flows are
// fire-and-forget: the publisher never blocks on processing.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	PublishQuestionAsked(ctx context.Context, task domain.QuestionTask) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
	SubscribeQuestionAsked(ctx context.Context, handler func(context.Context, domain.QuestionTask) error) error
}

// PageSource yields per-page raw text for a stored PDF: native text blocks
// plus OCR output for embedded raster images.
type PageSource interface {
	ExtractPages(ctx context.Context, storagePath string, lang domain.Language) ([]domain.Page, error)
}

// OCRResult carries recognized text and word-level boxes (image pixel
// coordinates) for highlight fallback.
type OCRResult struct {
	Text  string
	Words []OCRWord
}

type OCRWord struct {
	Text                     string
	Left, Top, Width, Height int
}

// OCREngine is the external recognition capability, hinted with a language
// profile.
type OCREngine interface {
	Recognize(ctx context.Context, img image.Image, lang domain.Language) (OCRResult, error)
}

// TextNormalizer canonicalizes raw page text for one language mode.
type TextNormalizer interface {
	Normalize(text string, lang domain.Language) string
}

// LanguageDetector routes a text block to a language pipeline. Unknown is a
// valid answer and disables entity extraction for the block.
type LanguageDetector interface {
	Detect(text string) domain.Language
}

// Tokenizer maps text to and from model token ids.
type Tokenizer interface {
	Encode(text string) []int
	Decode(ids []int) string
}

// Chunker splits normalized text into ordered, overlapping, token-bounded
// segments.
type Chunker interface {
	Split(text string) []string
}

// MentionExtractor returns deduplicated deadline and financial sentence
// mentions for one page of normalized text.
type MentionExtractor interface {
	Extract(ctx context.Context, text string, lang domain.Language) (domain.Mentions, error)
}

// SpanTagger is the NER capability: typed spans (DATE, MONEY and
// language-specific equivalents) over a text block.
type SpanTagger interface {
	Tag(ctx context.Context, text string, lang domain.Language) ([]TaggedSpan, error)
}

type TaggedSpan struct {
	Text  string
	Label string
}

// ChunkClassifier labels one chunk with a department from the fixed label
// set.
type ChunkClassifier interface {
	Classify(ctx context.Context, chunk string) (string, error)
}

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex stores chunk embeddings under a per-document namespace.
// Upsert is idempotent by chunk identity; querying an empty namespace
// returns an empty match list, never an error.
type VectorIndex interface {
	Upsert(ctx context.Context, namespace string, chunks []domain.Chunk, vectors [][]float32) error
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]domain.RetrievedChunk, error)
}

// AnswerGenerator drives the generative model for the two RAG flows.
type AnswerGenerator interface {
	GenerateSummary(ctx context.Context, lang domain.Language, chunks []domain.RetrievedChunk) (string, error)
	GenerateAnswer(ctx context.Context, question string, lang domain.Language, chunks []domain.RetrievedChunk) (string, error)
}

// Highlighter writes a copy of the source PDF with the given mention strings
// visually marked. Pages supply OCR word positions for scanned regions the
// layout engine sees as empty. An empty path return means nothing could be
// marked.
type Highlighter interface {
	Highlight(ctx context.Context, storagePath string, mentions []string, pages []domain.Page) (string, error)
}
