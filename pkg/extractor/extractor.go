package extractor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"

	"github.com/Tmtan95/GenAI-demo/internal/models"
)

// Extractor reads PDF files through a pluggable page loader, one document
// per page.
type Extractor struct {
	load func(ctx context.Context, file io.ReaderAt, size int64) ([]schema.Document, error)
}

func New() *Extractor {
	return &Extractor{load: loadPDF}
}

func loadPDF(ctx context.Context, file io.ReaderAt, size int64) ([]schema.Document, error) {
	return documentloaders.NewPDF(file, size).Load(ctx)
}

// Extract returns the plain text of a PDF file with pages concatenated in
// order. Pages with no extractable text are skipped; each contributing
// page ends with a newline. Failures wrap models.ErrExtraction so callers
// can skip the file and keep going.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", models.ErrExtraction, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %v", models.ErrExtraction, path, err)
	}

	load := e.load
	if load == nil {
		load = loadPDF
	}
	pages, err := load(ctx, f, info.Size())
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", models.ErrExtraction, path, err)
	}

	var text strings.Builder
	for _, page := range pages {
		if page.PageContent == "" {
			continue
		}
		text.WriteString(page.PageContent)
		text.WriteString("\n")
	}

	return text.String(), nil
}

// FindPDFs lists the PDF files directly inside dir, sorted by name. The
// extension match is case-insensitive and subdirectories are not
// descended into.
func FindPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading documents folder: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Strings(paths)
	return paths, nil
}
