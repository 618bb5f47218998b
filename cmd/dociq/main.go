// Command dociq extracts structured fields from a document file or a
// directory of documents and writes one JSON record per input.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"dociq/internal/config"
	"dociq/internal/domain"
	"dociq/internal/llm"
	"dociq/internal/ocr"
	"dociq/internal/output"
	"dociq/internal/pipeline"
	"dociq/internal/schema"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		mode        = flag.String("mode", "", "document type: license, receipt, or resume")
		input       = flag.String("input", "", "input file or directory")
		outputDir   = flag.String("output", "", "directory for JSON results (default from config)")
		promptsDir  = flag.String("prompts", "", "directory with prompt templates (default from config)")
		concurrency = flag.Int("concurrency", 0, "parallel workers for directory input (default from config)")
	)
	flag.Parse()

	if *mode == "" || *input == "" {
		flag.Usage()
		return fmt.Errorf("-mode and -input are required")
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *promptsDir != "" {
		cfg.LLM.PromptsDir = *promptsDir
	}
	if *concurrency > 0 {
		cfg.Batch.Concurrency = *concurrency
	}

	docType, err := domain.ParseDocumentType(*mode)
	if err != nil {
		return err
	}

	info, err := os.Stat(*input)
	if err != nil {
		return fmt.Errorf("input path: %w", err)
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
	writer, err := output.NewFileWriter(cfg.Output.Dir, registry)
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

	ctx := context.Background()

	if !info.IsDir() {
		if _, err := runner.ProcessFile(ctx, *input, docType); err != nil {
			return fmt.Errorf("processing %s: %w", *input, err)
		}
		fmt.Printf("Result saved to %s\n", pipeline.ResultName(*input))
		return nil
	}

	batch := pipeline.NewBatch(runner, cfg.Batch.Concurrency)
	summary, outcomes, err := batch.Run(ctx, *input, docType)
	if err != nil {
		return err
	}

	if logPath, err := pipeline.WriteErrorLog(cfg.Output.Dir, outcomes); err != nil {
		log.Printf("writing error log: %v", err)
	} else if logPath != "" {
		fmt.Printf("Errors logged to %s\n", logPath)
	}

	fmt.Printf("Processing complete:\n")
	fmt.Printf("  Total files:    %d\n", summary.TotalFiles)
	fmt.Printf("  Succeeded:      %d\n", summary.Success)
	fmt.Printf("  Failed:         %d\n", summary.Failed)
	fmt.Printf("  Skipped:        %d\n", summary.Skipped)
	fmt.Printf("  Model fallback: %d\n", summary.FallbackUsed)

	if summary.Failed > 0 {
		os.Exit(1)
	}
	return nil
}
