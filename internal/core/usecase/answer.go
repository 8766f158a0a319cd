package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
)

// AnswerObserver receives the outcome of each completed question, e.g.
// "answered" or "not_found".
type AnswerObserver interface {
	RecordAnswer(outcome string)
}

// AskQuestionUseCase registers a question against an existing document and
// hands it to the worker. The caller gets the stored question back
// immediately, answer still empty.
type AskQuestionUseCase struct {
	documents ports.DocumentRepository
	questions ports.QuestionRepository
	queue     ports.MessageQueue
}

func NewAskQuestionUseCase(documents ports.DocumentRepository, questions ports.QuestionRepository, queue ports.MessageQueue) *AskQuestionUseCase {
	return &AskQuestionUseCase{documents: documents, questions: questions, queue: queue}
}

func (uc *AskQuestionUseCase) Ask(ctx context.Context, documentID, question string) (*domain.Question, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("ask question: %w: empty question", domain.ErrInvalidInput)
	}

	doc, err := uc.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	q := &domain.Question{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		Question:   question,
		AskedAt:    time.Now().UTC(),
	}
	if err := uc.questions.Create(ctx, q); err != nil {
		return nil, err
	}

	task := domain.QuestionTask{
		QuestionID: q.ID,
		DocumentID: q.DocumentID,
		Question:   q.Question,
		EnqueuedAt: q.AskedAt,
	}
	if err := uc.queue.PublishQuestionAsked(ctx, task); err != nil {
		return nil, fmt.Errorf("dispatch question %s: %w", q.ID, err)
	}
	return q, nil
}

// AnswerQuestionUseCase is the worker side: retrieve the document's chunks
// relevant to the question and complete it with a grounded answer.
type AnswerQuestionUseCase struct {
	questions ports.QuestionRepository
	detector  ports.LanguageDetector
	embedder  ports.Embedder
	index     ports.VectorIndex
	generator ports.AnswerGenerator
	vectorDim int
	topK      int
	observer  AnswerObserver
}

type AnswerDeps struct {
	Questions ports.QuestionRepository
	Detector  ports.LanguageDetector
	Embedder  ports.Embedder
	Index     ports.VectorIndex
	Generator ports.AnswerGenerator
	VectorDim int
	TopK      int
	Observer  AnswerObserver
}

func NewAnswerQuestionUseCase(deps AnswerDeps) *AnswerQuestionUseCase {
	topK := deps.TopK
	if topK <= 0 {
		topK = 10
	}
	return &AnswerQuestionUseCase{
		questions: deps.Questions,
		detector:  deps.Detector,
		embedder:  deps.Embedder,
		index:     deps.Index,
		generator: deps.Generator,
		vectorDim: deps.VectorDim,
		topK:      topK,
		observer:  deps.Observer,
	}
}

// AnswerPending resolves one queued question. A question whose document has no
// matching chunks is completed with the refusal sentence rather than failed,
// so it never loops on the queue.
func (uc *AnswerQuestionUseCase) AnswerPending(ctx context.Context, task domain.QuestionTask) error {
	lang := uc.detector.Detect(task.Question)
	if lang == domain.LanguageUnknown {
		lang = domain.LanguageEnglish
	}

	chunks, err := uc.retrieve(ctx, task)
	if err != nil {
		return err
	}

	answer := domain.NotFoundAnswer(lang)
	outcome := "not_found"
	if len(chunks) > 0 {
		answer, err = uc.generator.GenerateAnswer(ctx, task.Question, lang, chunks)
		if err != nil {
			return fmt.Errorf("generate answer for question %s: %w", task.QuestionID, err)
		}
		if strings.TrimSpace(answer) == "" {
			answer = domain.NotFoundAnswer(lang)
		}
		if answer != domain.NotFoundAnswer(lang) {
			outcome = "answered"
		}
	}

	if err := uc.questions.SaveAnswer(ctx, task.QuestionID, answer); err != nil {
		return err
	}
	if uc.observer != nil {
		uc.observer.RecordAnswer(outcome)
	}
	return nil
}

func (uc *AnswerQuestionUseCase) retrieve(ctx context.Context, task domain.QuestionTask) ([]domain.RetrievedChunk, error) {
	vec, err := uc.embedder.EmbedQuery(ctx, task.Question)
	if err != nil {
		return nil, fmt.Errorf("embed question %s: %w", task.QuestionID, err)
	}
	chunks, err := uc.index.Query(ctx, task.DocumentID, vec, uc.topK)
	if err != nil {
		return nil, fmt.Errorf("query chunks for question %s: %w", task.QuestionID, err)
	}
	if len(chunks) > 0 {
		return chunks, nil
	}
	chunks, err = uc.index.Query(ctx, task.DocumentID, make([]float32, uc.vectorDim), uc.topK)
	if err != nil {
		return nil, fmt.Errorf("fallback query for question %s: %w", task.QuestionID, err)
	}
	return chunks, nil
}
