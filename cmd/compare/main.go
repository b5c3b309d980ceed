// Command compare diffs every record one model produced against a baseline
// model's records and writes the aggregate report as JSON and markdown.
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
	s3storage "tradedocs/internal/storage/s3"
	"tradedocs/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		baseline  = flag.String("baseline", "", "baseline model directory under the store root")
		candidate = flag.String("candidate", "", "candidate model directory under the store root")
		outDir    = flag.String("out", "", "report output directory (default: store root)")
		archive   = flag.Bool("archive", false, "upload the report files to the configured S3 bucket")
	)
	flag.Parse()

	if *baseline == "" || *candidate == "" {
		flag.Usage()
		return fmt.Errorf("both -baseline and -candidate are required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	recordStore, err := store.NewFileStore(cfg.Store.Root)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := batch.CompareModels(ctx, recordStore, *baseline, *candidate)
	if err != nil {
		return err
	}
	log.Printf("compared %s against %s: %d documents with differences", *candidate, *baseline, report.Len())

	dir := *outDir
	if dir == "" {
		dir = cfg.Store.Root
	}
	jsonPath, mdPath, err := batch.WriteReportFiles(report, dir)
	if err != nil {
		return err
	}
	log.Printf("wrote %s", jsonPath)
	log.Printf("wrote %s", mdPath)

	if *archive {
		if cfg.S3.Bucket == "" {
			return fmt.Errorf("-archive requires a configured S3 bucket")
		}
		client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		archiver := s3storage.NewArchiver(client, cfg.S3.Bucket)
		prefix := fmt.Sprintf("reports/%s_vs_%s", *candidate, *baseline)
		for _, path := range []string{jsonPath, mdPath} {
			key, err := archiver.ArchiveFile(ctx, prefix, path)
			if err != nil {
				return fmt.Errorf("archiving %s: %w", path, err)
			}
			log.Printf("archived s3://%s/%s", cfg.S3.Bucket, key)
		}
	}
	return nil
}
