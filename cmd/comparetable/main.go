// Command comparetable renders side-by-side field tables across two or more
// models, as markdown, CSV, or a single xlsx workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"tradedocs/internal/batch"
	"tradedocs/internal/comparison"
	"tradedocs/internal/config"
	"tradedocs/internal/export"
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
		modelsFlag = flag.String("models", "", "comma-separated model directories under the store root (at least two)")
		format     = flag.String("format", "md", "output format: md, csv, xlsx")
		outDir     = flag.String("out", "", "output directory (default: store root)")
		archive    = flag.Bool("archive", false, "upload the written tables to the configured S3 bucket")
	)
	flag.Parse()

	var models []string
	for _, m := range strings.Split(*modelsFlag, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	if len(models) < 2 {
		flag.Usage()
		return fmt.Errorf("-models must name at least two model directories")
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

	tables, err := batch.BuildTables(ctx, recordStore, models)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		log.Printf("no records found for %s", strings.Join(models, ", "))
		return nil
	}

	dir := *outDir
	if dir == "" {
		dir = cfg.Store.Root
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	var written []string
	switch *format {
	case "md":
		written, err = writePerTable(tables, dir, ".comparison.md", (*comparison.Table).WriteMarkdown)
	case "csv":
		written, err = writePerTable(tables, dir, ".comparison.csv", (*comparison.Table).WriteCSV)
	case "xlsx":
		path := filepath.Join(dir, "comparison.xlsx")
		f, ferr := os.Create(path)
		if ferr != nil {
			return fmt.Errorf("creating %s: %w", path, ferr)
		}
		if err = export.WriteWorkbook(f, tables); err != nil {
			_ = f.Close()
			return err
		}
		if err = f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}
		log.Printf("wrote %s", path)
		written = []string{path}
	default:
		return fmt.Errorf("unknown format %q: must be md, csv, or xlsx", *format)
	}
	if err != nil {
		return err
	}

	if *archive {
		if cfg.S3.Bucket == "" {
			return fmt.Errorf("-archive requires a configured S3 bucket")
		}
		client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		archiver := s3storage.NewArchiver(client, cfg.S3.Bucket)
		prefix := "tables/" + strings.Join(models, "_")
		for _, path := range written {
			key, err := archiver.ArchiveFile(ctx, prefix, path)
			if err != nil {
				return fmt.Errorf("archiving %s: %w", path, err)
			}
			log.Printf("archived s3://%s/%s", cfg.S3.Bucket, key)
		}
	}
	return nil
}

func writePerTable(tables []*comparison.Table, dir, suffix string, write func(*comparison.Table, io.Writer) error) ([]string, error) {
	var written []string
	for _, t := range tables {
		path := filepath.Join(dir, t.SourceID+suffix)
		f, err := os.Create(path)
		if err != nil {
			return written, fmt.Errorf("creating %s: %w", path, err)
		}
		if err := write(t, f); err != nil {
			_ = f.Close()
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return written, fmt.Errorf("closing %s: %w", path, err)
		}
		log.Printf("wrote %s", path)
		written = append(written, path)
	}
	return written, nil
}
