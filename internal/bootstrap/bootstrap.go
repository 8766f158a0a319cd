// Package bootstrap wires configuration, infrastructure and use cases into
// the two process roles. The api role stays light; the worker role loads the
// ONNX models and the full pipeline.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/anandks07/docflow/internal/config"
	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/core/ports"
	"github.com/anandks07/docflow/internal/core/usecase"
	"github.com/anandks07/docflow/internal/infrastructure/chunking"
	"github.com/anandks07/docflow/internal/infrastructure/highlight"
	"github.com/anandks07/docflow/internal/infrastructure/llm/ollama"
	"github.com/anandks07/docflow/internal/infrastructure/mentions"
	"github.com/anandks07/docflow/internal/infrastructure/nlp/hugot"
	"github.com/anandks07/docflow/internal/infrastructure/ocr/tesseract"
	"github.com/anandks07/docflow/internal/infrastructure/pdfreader"
	natsqueue "github.com/anandks07/docflow/internal/infrastructure/queue/nats"
	"github.com/anandks07/docflow/internal/infrastructure/reminder"
	"github.com/anandks07/docflow/internal/infrastructure/repository/postgres"
	"github.com/anandks07/docflow/internal/infrastructure/resilience"
	"github.com/anandks07/docflow/internal/infrastructure/storage/localfs"
	"github.com/anandks07/docflow/internal/infrastructure/textnorm"
	"github.com/anandks07/docflow/internal/infrastructure/tokenizer/tiktoken"
	"github.com/anandks07/docflow/internal/infrastructure/vector/qdrant"
	"github.com/anandks07/docflow/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue         ports.MessageQueue
	Documents     ports.DocumentRepository
	Questions     ports.QuestionRepository
	Notifications ports.NotificationRepository

	IngestUC ports.DocumentIngestor
	AskUC    ports.QuestionAsker

	ProcessUC ports.DocumentProcessor
	AnswerUC  ports.QuestionAnswerer
	Reminder  *reminder.Checker

	HTTPMetrics   *metrics.HTTPServerMetrics
	WorkerMetrics *metrics.WorkerMetrics

	closeFns []func()
}

// core is the infrastructure both roles share.
type core struct {
	db      *sql.DB
	storage *localfs.Storage
	queue   *natsqueue.Queue

	documents     *postgres.DocumentRepository
	questions     *postgres.QuestionRepository
	notifications *postgres.NotificationRepository
}

func newCore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*core, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	documents := postgres.NewDocumentRepository(db)
	if err := documents.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(executorConfig(logger))
	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.IngestSubject, cfg.QuestionSubject, natsqueue.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	return &core{
		db:            db,
		storage:       storage,
		queue:         queue,
		documents:     documents,
		questions:     postgres.NewQuestionRepository(db),
		notifications: postgres.NewNotificationRepository(db),
	}, nil
}

// NewAPI assembles the HTTP-facing role: upload, reads and question intake.
func NewAPI(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	c, err := newCore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:        cfg,
		Logger:        logger,
		Queue:         c.queue,
		Documents:     c.documents,
		Questions:     c.questions,
		Notifications: c.notifications,
		IngestUC:      usecase.NewIngestDocumentUseCase(c.documents, c.storage, c.queue),
		AskUC:         usecase.NewAskQuestionUseCase(c.documents, c.questions, c.queue),
		HTTPMetrics:   metrics.NewHTTPServerMetrics("api"),
	}
	app.closeFns = append(app.closeFns, c.queue.Close, func() { _ = c.db.Close() })
	return app, nil
}

// NewWorker assembles the pipeline role: ingestion processing, deferred
// question answering and the reminder sweep.
func NewWorker(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	c, err := newCore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	closeCore := func() {
		c.queue.Close()
		_ = c.db.Close()
	}

	session, err := hugot.NewSession()
	if err != nil {
		closeCore()
		return nil, fmt.Errorf("init onnx session: %w", err)
	}

	tagger, err := hugot.NewTagger(session, cfg.NERModelPath)
	if err != nil {
		_ = session.Close()
		closeCore()
		return nil, fmt.Errorf("init ner tagger: %w", err)
	}

	classifier, err := hugot.NewClassifier(session, cfg.ClassifierModelPath)
	if err != nil {
		_ = session.Close()
		closeCore()
		return nil, fmt.Errorf("init department classifier: %w", err)
	}

	tokenizer, err := tiktoken.New("")
	if err != nil {
		_ = session.Close()
		closeCore()
		return nil, fmt.Errorf("init tokenizer: %w", err)
	}

	chunker, err := chunking.NewSplitter(tokenizer, cfg.ChunkMaxTokens, cfg.ChunkOverlapTokens)
	if err != nil {
		_ = session.Close()
		closeCore()
		return nil, fmt.Errorf("init chunker: %w", err)
	}

	executor := resilience.NewExecutor(executorConfig(logger))

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel)
	embedder := newResilientEmbedder(ollama.NewEmbedder(ollamaClient), executor)
	generator := newResilientGenerator(ollama.NewGenerator(ollamaClient), executor)

	index := newResilientIndex(qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, cfg.EmbeddingDim), executor)
	ocrEngine := newResilientOCR(tesseract.New(cfg.OCRURL), executor)

	workerMetrics := metrics.NewWorkerMetrics("worker")
	observer := workerObserver{metrics: workerMetrics, service: "worker"}

	var highlighter ports.Highlighter
	if cfg.HighlightEnabled {
		highlighter = highlight.New(logger)
	}

	summarizer := usecase.NewSummarizeDocumentUseCase(embedder, index, generator, cfg.EmbeddingDim, cfg.SummaryTopK)

	processUC := usecase.NewProcessDocumentUseCase(usecase.ProcessDeps{
		Repo:        c.documents,
		Storage:     c.storage,
		Pages:       pdfreader.New(ocrEngine, logger).WithObserver(observer),
		Detector:    textnorm.NewDetector(),
		Normalizer:  textnorm.New(),
		Chunker:     chunker,
		Mentions:    mentions.NewExtractor(tagger),
		Classifier:  classifier,
		Embedder:    embedder,
		Index:       index,
		Summarizer:  summarizer,
		Highlighter: highlighter,
		OCRLanguage: ocrLanguage(cfg.LanguageMode),
		Observer:    observer,
		Logger:      logger,
	})

	answerUC := usecase.NewAnswerQuestionUseCase(usecase.AnswerDeps{
		Questions: c.questions,
		Detector:  textnorm.NewDetector(),
		Embedder:  embedder,
		Index:     index,
		Generator: generator,
		VectorDim: cfg.EmbeddingDim,
		TopK:      cfg.QATopK,
		Observer:  observer,
	})

	app := &App{
		Config:        cfg,
		Logger:        logger,
		Queue:         c.queue,
		Documents:     c.documents,
		Questions:     c.questions,
		Notifications: c.notifications,
		ProcessUC:     processUC,
		AnswerUC:      answerUC,
		Reminder:      reminder.NewChecker(c.documents, c.notifications, logger),
		WorkerMetrics: workerMetrics,
	}
	app.closeFns = append(app.closeFns,
		c.queue.Close,
		func() { _ = c.db.Close() },
		func() { _ = session.Close() },
	)
	return app, nil
}

func (a *App) Close() {
	for _, fn := range a.closeFns {
		fn()
	}
}

func executorConfig(logger *slog.Logger) resilience.Config {
	cfg := resilience.DefaultConfig()
	cfg.Logger = logger
	return cfg
}

func ocrLanguage(mode string) domain.Language {
	if mode == "multilingual" {
		return domain.LanguageMalayalam
	}
	return domain.LanguageEnglish
}
