// Command extract runs OCR extraction over a directory (or single file) of
// trade document PDFs, persisting one record per page per model.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tradedocs/internal/batch"
	"tradedocs/internal/config"
	"tradedocs/internal/domain"
	"tradedocs/internal/extract"
	"tradedocs/internal/repository/sqlite"
	"tradedocs/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		input     = flag.String("input", ".", "PDF file or directory of PDFs to extract")
		docType   = flag.String("doctype", "", "document type: declaration, notification, packing (default from config)")
		provider  = flag.String("provider", "", "extraction provider override: ollama, ollama_cli, gemini")
		model     = flag.String("model", "", "model identifier override, e.g. qwen3-vl:32b")
		overwrite = flag.Bool("overwrite", false, "re-extract inputs that already have a stored outcome")
		noLedger  = flag.Bool("no-ledger", false, "skip run ledger bookkeeping")
		baseline  = flag.String("compare-baseline", "", "after the batch, diff this run's model against the given model directory")
		workers   = flag.Int("workers", 0, "source files processed concurrently (default from config)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	providerCfg := cfg.Extract.Primary
	if *provider != "" {
		providerCfg.Provider = *provider
	}
	if *model != "" {
		providerCfg.Model = *model
	}

	dt := cfg.Batch.DocType
	if *docType != "" {
		dt = *docType
	}
	documentType, ok := domain.KnownDocumentTypes[dt]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownDocumentType, dt)
	}

	extractor, err := extract.NewExtractor(&providerCfg)
	if err != nil {
		return fmt.Errorf("failed to build extractor: %w", err)
	}

	recordStore, err := store.NewFileStore(cfg.Store.Root)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}

	opts := batch.Options{
		Store:     recordStore,
		Extractor: extractor,
		Model:     providerCfg.Model,
		DocType:   documentType,
		Overwrite: *overwrite || cfg.Batch.Overwrite,
		Workers:   cfg.Batch.Workers,
	}
	if *workers > 0 {
		opts.Workers = *workers
	}

	if !*noLedger {
		db, err := sqlite.NewDB(&cfg.Ledger)
		if err != nil {
			return fmt.Errorf("failed to open ledger database: %w", err)
		}
		defer db.Close()
		opts.Ledger = sqlite.NewRunLedgerRepo(db)
	}

	runner := batch.NewRunner(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info, err := os.Stat(*input)
	if err != nil {
		return fmt.Errorf("input %s: %w", *input, err)
	}

	var counts batch.Counts
	if info.IsDir() {
		counts, err = runner.ProcessDirectory(ctx, *input)
	} else {
		counts, err = runner.ProcessFile(ctx, *input)
	}
	log.Printf("run %s: %s", runner.RunID(), counts)
	if err != nil {
		return err
	}

	if *baseline != "" {
		candidate := domain.SanitizeModelName(providerCfg.Model)
		report, err := batch.CompareModels(ctx, recordStore, *baseline, candidate)
		if err != nil {
			return err
		}
		jsonPath, mdPath, err := batch.WriteReportFiles(report, cfg.Store.Root)
		if err != nil {
			return err
		}
		log.Printf("compared %s against %s: %d documents with differences", candidate, *baseline, report.Len())
		log.Printf("wrote %s", jsonPath)
		log.Printf("wrote %s", mdPath)
	}
	return nil
}
