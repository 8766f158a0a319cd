package ports

import (
	"context"
	"io"

	"github.com/anandks07/docflow/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, title, filename string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous ingestion.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// QuestionAsker registers a question and dispatches it for deferred
// answering; the returned question has an empty answer.
type QuestionAsker interface {
	Ask(ctx context.Context, documentID, question string) (*domain.Question, error)
}

// QuestionAnswerer is the worker-side contract that completes a pending
// question.
type QuestionAnswerer interface {
	AnswerPending(ctx context.Context, task domain.QuestionTask) error
}
