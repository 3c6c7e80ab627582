package extractor_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tmtan95/GenAI-demo/internal/models"
	"github.com/Tmtan95/GenAI-demo/pkg/extractor"
)

func TestFindPDFs(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"beta.pdf", "ALPHA.PDF", "notes.txt", "readme.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0755))

	paths, err := extractor.FindPDFs(dir)
	require.NoError(t, err)

	// Case-insensitive match, directories skipped, sorted output.
	assert.Equal(t, []string{
		filepath.Join(dir, "ALPHA.PDF"),
		filepath.Join(dir, "beta.pdf"),
	}, paths)
}

func TestFindPDFsEmptyFolder(t *testing.T) {
	paths, err := extractor.FindPDFs(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestFindPDFsMissingFolder(t *testing.T) {
	_, err := extractor.FindPDFs(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestExtractMissingFile(t *testing.T) {
	e := extractor.New()

	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrExtraction))
}

func TestExtractInvalidPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0644))

	e := extractor.New()
	_, err := e.Extract(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrExtraction))
	assert.Contains(t, err.Error(), "broken.pdf")
}
