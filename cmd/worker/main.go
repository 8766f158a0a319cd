package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/anandks07/docflow/internal/bootstrap"
	"github.com/anandks07/docflow/internal/config"
	"github.com/anandks07/docflow/internal/core/domain"
	"github.com/anandks07/docflow/internal/observability/logging"
)

const processTimeout = 15 * time.Minute

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewWorker(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: app.WorkerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server error: %v", err)
		}
	}()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ReminderSchedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := app.Reminder.Run(runCtx); err != nil {
			logger.Error("reminder sweep failed", "error", err)
		}
	}); err != nil {
		log.Fatalf("invalid reminder schedule %q: %v", cfg.ReminderSchedule, err)
	}
	scheduler.Start()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		logger.Info("subscribed to ingest subject", "subject", cfg.IngestSubject)
		err := app.Queue.SubscribeDocumentIngested(ctx, func(handlerCtx context.Context, documentID string) error {
			processCtx, cancel := context.WithTimeout(handlerCtx, processTimeout)
			defer cancel()

			app.WorkerMetrics.StartDocument()
			start := time.Now()
			err := app.ProcessUC.ProcessByID(processCtx, documentID)
			app.WorkerMetrics.FinishDocument("worker", time.Since(start), err)
			if err != nil {
				logger.Error("document processing failed", "document_id", documentID, "error", err)
			}
			return err
		})
		if err != nil {
			logger.Error("ingest subscription ended", "error", err)
			stop()
		}
	}()

	go func() {
		defer wg.Done()
		logger.Info("subscribed to question subject", "subject", cfg.QuestionSubject)
		err := app.Queue.SubscribeQuestionAsked(ctx, func(handlerCtx context.Context, task domain.QuestionTask) error {
			answerCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
			defer cancel()

			if !task.EnqueuedAt.IsZero() {
				app.WorkerMetrics.ObserveQueueLag("worker", time.Since(task.EnqueuedAt))
			}

			if err := app.AnswerUC.AnswerPending(answerCtx, task); err != nil {
				logger.Error("question answering failed", "question_id", task.QuestionID, "error", err)
				return err
			}
			return nil
		})
		if err != nil {
			logger.Error("question subscription ended", "error", err)
			stop()
		}
	}()

	wg.Wait()
	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}
