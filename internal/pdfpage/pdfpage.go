// Package pdfpage reads source PDFs: page counts, per-page text, and page
// image export for vision providers.
package pdfpage

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("counting pages in %s: %w", path, err)
	}
	return n, nil
}

// ExtractText pulls the text layer of one page out of the PDF's content
// stream. Scanned pages with no text layer yield an empty string, not an
// error; the extraction prompt tolerates missing page text.
func ExtractText(path string, page int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read %s: %w", path, err)
	}
	if page < 1 || page > ctx.PageCount {
		return "", fmt.Errorf("page %d out of range, %s has %d pages", page, path, ctx.PageCount)
	}

	r, err := pdfcpu.ExtractPageContent(ctx, page)
	if err != nil {
		log.Printf("pdfpage: no content stream for page %d of %s: %v", page, path, err)
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		log.Printf("pdfpage: reading content stream for page %d of %s: %v", page, path, err)
		return "", nil
	}
	if len(data) == 0 {
		return "", nil
	}
	return parseContentText(data), nil
}

// ExportPageImage extracts the embedded image of one page into destDir and
// returns its path. Trade documents are scans, so each page carries exactly
// one full-page image object.
func ExportPageImage(path string, page int, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating image dir: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(path, destDir, []string{strconv.Itoa(page)}, conf); err != nil {
		return "", fmt.Errorf("extracting page %d image from %s: %w", page, path, err)
	}

	match, err := findPageImage(destDir, path, page)
	if err != nil {
		return "", fmt.Errorf("page %d of %s: %w", page, path, err)
	}
	return match, nil
}

// findPageImage locates the extracted image for one page of one source PDF.
// pdfcpu names extracted files <source base>_<page>_<resource>.<ext>; matching
// on the source base as well as the page keeps images apart when several PDFs
// export into the same directory.
func findPageImage(dir, sourcePath string, page int) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	src := filepath.Base(sourcePath)
	prefix := fmt.Sprintf("%s_%d_", strings.TrimSuffix(src, filepath.Ext(src)), page)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no embedded image found")
}
