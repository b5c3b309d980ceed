// Package batch walks source PDFs through extraction, persistence, and
// cross-model comparison.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tradedocs/internal/domain"
	"tradedocs/internal/extract"
	"tradedocs/internal/pdfpage"
	"tradedocs/internal/port"
	"tradedocs/internal/schema"
	"tradedocs/internal/summary"
)

// PageSource abstracts PDF page access so tests can run without real PDFs.
type PageSource interface {
	PageCount(path string) (int, error)
	ExtractText(path string, page int) (string, error)
	ExportPageImage(path string, page int, destDir string) (string, error)
}

type pdfPageSource struct{}

func (pdfPageSource) PageCount(path string) (int, error) { return pdfpage.PageCount(path) }

func (pdfPageSource) ExtractText(path string, page int) (string, error) {
	return pdfpage.ExtractText(path, page)
}

func (pdfPageSource) ExportPageImage(path string, page int, destDir string) (string, error) {
	return pdfpage.ExportPageImage(path, page, destDir)
}

// Counts summarizes one batch run.
type Counts struct {
	Saved   int
	Skipped int
	Failed  int
}

func (c Counts) String() string {
	return fmt.Sprintf("saved=%d skipped=%d failed=%d", c.Saved, c.Skipped, c.Failed)
}

// Runner processes source documents sequentially: one extraction per page,
// each outcome persisted before the next unit starts.
type Runner struct {
	store     port.RecordStore
	extractor port.Extractor
	ledger    port.RunLedger
	pages     PageSource

	model     string
	docType   domain.DocumentType
	overwrite bool
	runID     string
	imageDir  string
	workers   int
}

// Options configures a Runner. Ledger is optional; everything else is
// required.
type Options struct {
	Store     port.RecordStore
	Extractor port.Extractor
	Ledger    port.RunLedger
	Pages     PageSource

	Model     string
	DocType   domain.DocumentType
	Overwrite bool
	ImageDir  string
	// Workers bounds how many source files are processed at once. Zero or
	// one means sequential.
	Workers int
}

// NewRunner creates a batch runner with a fresh run ID.
func NewRunner(opts Options) *Runner {
	pages := opts.Pages
	if pages == nil {
		pages = pdfPageSource{}
	}
	imageDir := opts.ImageDir
	if imageDir == "" {
		imageDir = filepath.Join(os.TempDir(), "tradedocs-pages")
	}
	return &Runner{
		store:     opts.Store,
		extractor: opts.Extractor,
		ledger:    opts.Ledger,
		pages:     pages,
		model:     opts.Model,
		docType:   opts.DocType,
		overwrite: opts.Overwrite,
		runID:     uuid.NewString(),
		imageDir:  imageDir,
		workers:   opts.Workers,
	}
}

// RunID returns this runner's batch identifier.
func (r *Runner) RunID() string {
	return r.runID
}

// ProcessDirectory extracts every .pdf under dir (non-recursive, lexical
// order). Per-unit failures are recorded and the batch continues; only an
// unusable record store aborts the run. With Workers > 1, up to that many
// files run at once; a file's record keys embed its name, so one worker per
// file keeps exactly one writer per output path.
func (r *Runner) ProcessDirectory(ctx context.Context, dir string) (Counts, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Counts{}, fmt.Errorf("reading input dir %s: %w", dir, err)
	}

	var pdfs []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		pdfs = append(pdfs, filepath.Join(dir, e.Name()))
	}
	sort.Strings(pdfs)

	if r.workers > 1 {
		return r.processParallel(ctx, pdfs)
	}

	var total Counts
	for _, path := range pdfs {
		counts, err := r.ProcessFile(ctx, path)
		total.Saved += counts.Saved
		total.Skipped += counts.Skipped
		total.Failed += counts.Failed
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (r *Runner) processParallel(ctx context.Context, pdfs []string) (Counts, error) {
	var (
		mu       sync.Mutex
		total    Counts
		firstErr error
		wg       sync.WaitGroup
	)
	sem := make(chan struct{}, r.workers)

	for _, path := range pdfs {
		mu.Lock()
		stop := firstErr != nil
		mu.Unlock()
		if stop {
			break
		}

		sem <- struct{}{} // acquire
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }() // release

			counts, err := r.ProcessFile(ctx, path)
			mu.Lock()
			total.Saved += counts.Saved
			total.Skipped += counts.Skipped
			total.Failed += counts.Failed
			if err != nil && firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}(path)
	}
	wg.Wait()
	return total, firstErr
}

// ProcessFile extracts every page of one PDF. Page selection errors count as
// failed units for the whole file.
func (r *Runner) ProcessFile(ctx context.Context, path string) (Counts, error) {
	var counts Counts

	pageCount, err := r.pages.PageCount(path)
	if err != nil {
		log.Printf("batch.Runner: %s: %v", path, err)
		counts.Failed++
		return counts, nil
	}
	if pageCount == 0 {
		log.Printf("batch.Runner: %s: %v", path, domain.ErrNoPagesSelected)
		counts.Failed++
		return counts, nil
	}

	for page := 1; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		status, err := r.processPage(ctx, path, page)
		if err != nil {
			// Store-level errors are the one fatal class: continuing
			// would extract into the void.
			return counts, err
		}
		switch status {
		case domain.RunStatusSaved:
			counts.Saved++
		case domain.RunStatusSkipped:
			counts.Skipped++
		case domain.RunStatusFailed:
			counts.Failed++
		}
	}
	return counts, nil
}

func (r *Runner) processPage(ctx context.Context, path string, page int) (domain.RunStatus, error) {
	start := time.Now()
	key := domain.RecordKey{
		Source:       filepath.Base(path),
		Page:         page,
		DocumentType: r.docType,
		Provider:     r.extractor.Name(),
		Model:        r.model,
	}

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", key, err)
	}
	if exists && !r.overwrite {
		log.Printf("batch.Runner: skip %s, outcome already stored", key)
		r.recordRun(ctx, key, domain.RunStatusSkipped, "", start)
		return domain.RunStatusSkipped, nil
	}

	text, err := r.pages.ExtractText(path, page)
	if err != nil {
		log.Printf("batch.Runner: %s: no page text: %v", key, err)
		text = ""
	}

	prompt, err := extract.BuildPrompt(r.docType, text)
	if err != nil {
		return "", fmt.Errorf("building prompt for %s: %w", key, err)
	}

	imagePath, err := r.pages.ExportPageImage(path, page, r.imageDir)
	if err != nil {
		log.Printf("batch.Runner: %s: no page image: %v", key, err)
		imagePath = ""
	}

	out, failure := r.extractor.Extract(ctx, port.ExtractInput{
		Prompt:    prompt,
		Text:      text,
		ImagePath: imagePath,
		Model:     r.model,
	})
	if failure != nil {
		log.Printf("batch.Runner: %s failed: %v", key, failure)
		if err := r.store.SaveFailure(ctx, key, failure); err != nil {
			return "", fmt.Errorf("recording failure for %s: %w", key, err)
		}
		r.recordRun(ctx, key, domain.RunStatusFailed, string(failure.Reason), start)
		return domain.RunStatusFailed, nil
	}

	rec := &domain.ExtractionRecord{
		Key:         key,
		Fields:      out.Fields,
		RawResponse: out.RawResponse,
		PromptUsed:  out.PromptUsed,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.store.Save(ctx, rec); err != nil {
		return "", fmt.Errorf("saving %s: %w", key, err)
	}
	r.writeSummaries(ctx, rec)
	r.recordRun(ctx, key, domain.RunStatusSaved, "", start)
	log.Printf("batch.Runner: saved %s in %s", key, time.Since(start).Round(time.Millisecond))
	return domain.RunStatusSaved, nil
}

// writeSummaries renders the English and Chinese markdown summaries beside
// the record. Summary trouble is logged, never fatal: the record itself is
// already safe.
func (r *Runner) writeSummaries(ctx context.Context, rec *domain.ExtractionRecord) {
	n := schema.Normalize(rec.Fields)

	var en bytes.Buffer
	if err := summary.WriteEnglish(&en, n); err == nil {
		if err := r.store.SaveSidecar(ctx, rec.Key, ".md", en.Bytes()); err != nil {
			log.Printf("batch.Runner: %s: english summary: %v", rec.Key, err)
		}
	}

	var cn bytes.Buffer
	if err := summary.WriteChinese(&cn, n); err == nil {
		if err := r.store.SaveSidecar(ctx, rec.Key, ".chi.md", cn.Bytes()); err != nil {
			log.Printf("batch.Runner: %s: chinese summary: %v", rec.Key, err)
		}
	}
}

func (r *Runner) recordRun(ctx context.Context, key domain.RecordKey, status domain.RunStatus, reason string, start time.Time) {
	if r.ledger == nil {
		return
	}
	entry := &domain.RunEntry{
		RunID:      r.runID,
		Source:     key.Source,
		Page:       key.Page,
		DocType:    string(key.DocumentType),
		Provider:   key.Provider,
		Model:      key.Model,
		Status:     status,
		Reason:     reason,
		DurationMS: time.Since(start).Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.ledger.Record(ctx, entry); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("batch.Runner: ledger entry for %s: %v", key, err)
	}
}
