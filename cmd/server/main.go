package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dociq/internal/config"
	"dociq/internal/handler"
	"dociq/internal/llm"
	"dociq/internal/ocr"
	"dociq/internal/output"
	"dociq/internal/pipeline"
	"dociq/internal/port"
	"dociq/internal/router"
	"dociq/internal/schema"
	"dociq/internal/service"
	s3storage "dociq/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registry := schema.NewRegistry()

	prompts, err := llm.LoadPrompts(cfg.LLM.PromptsDir)
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}
	extractor, err := llm.NewExtractor(&cfg.LLM, prompts, registry)
	if err != nil {
		return fmt.Errorf("failed to initialize model extractor: %w", err)
	}

	writer, err := newResultWriter(cfg, registry)
	if err != nil {
		return err
	}

	cascade := pipeline.NewCascade(extractor, cfg.LLM.MaxRetries, time.Duration(cfg.LLM.BackoffSecs)*time.Second)
	runner := pipeline.NewRunner(
		ocr.NewEngine(cfg.OCR.Languages),
		cascade,
		schema.NewValidator(registry),
		writer,
	)

	store := service.NewJobStore()
	uploadDir := filepath.Join(os.TempDir(), "dociq-uploads")
	docSvc, err := service.NewDocumentService(store, runner, uploadDir)
	if err != nil {
		return fmt.Errorf("failed to initialize document service: %w", err)
	}

	documentH := handler.NewDocumentHandler(docSvc, cfg.Server.MaxUploadMB)
	healthH := handler.NewHealthHandler()
	r := router.Setup(documentH, healthH, cfg.CORS.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := service.NewExtractQueueWorker(store, docSvc, service.ExtractQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone
	return nil
}

func newResultWriter(cfg *config.Config, registry *schema.Registry) (port.ResultWriter, error) {
	switch cfg.Output.Backend {
	case "s3":
		writer, err := s3storage.NewWriter(&cfg.S3, registry)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 writer: %w", err)
		}
		return writer, nil
	default:
		writer, err := output.NewFileWriter(cfg.Output.Dir, registry)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file writer: %w", err)
		}
		return writer, nil
	}
}
