package rag

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/Tmtan95/GenAI-demo/internal/models"
	"github.com/Tmtan95/GenAI-demo/pkg/cache"
	"github.com/Tmtan95/GenAI-demo/pkg/index"
)

// Extractor pulls plain text out of a document file.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Chunker splits extracted text into retrievable chunks.
type Chunker interface {
	Chunk(text, source string) []models.Chunk
}

// Embedder maps texts to vectors, one per input, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatBackend turns a prepared conversation into generated text.
type ChatBackend interface {
	Chat(ctx context.Context, messages []models.ChatMessage) (string, error)
}

type Config struct {
	TopK int
}

// Deps collects the orchestrator's collaborators. Out receives all
// user-facing progress reporting and defaults to standard output.
type Deps struct {
	Extractor Extractor
	Chunker   Chunker
	Embedder  Embedder
	Chat      ChatBackend
	Cache     *cache.Store
	Out       io.Writer
}

// Orchestrator wires extraction, chunking, embedding, caching and
// retrieval into the two session operations, Ingest and Answer. It is
// not safe for concurrent use; one session owns one orchestrator.
type Orchestrator struct {
	config Config
	deps   Deps
	index  *index.Index
	chunks []models.Chunk
}

func New(config Config, deps Deps) *Orchestrator {
	if config.TopK == 0 {
		config.TopK = 3
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	return &Orchestrator{
		config: config,
		deps:   deps,
		index:  index.New(),
	}
}

// Ingest builds the session index from the given document files and
// returns the number of retained chunks. Files that fail extraction are
// skipped with a warning; ingest fails only when no file yields chunks.
// A cache entry matching the document set restores chunks and embeddings
// without calling the embedding backend.
func (o *Orchestrator) Ingest(ctx context.Context, paths []string) (int, error) {
	blue := color.New(color.FgBlue)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	blue.Fprintln(o.deps.Out, "Extracting text from PDFs...")

	var combined []models.Chunk
	for _, path := range paths {
		name := filepath.Base(path)
		blue.Fprintf(o.deps.Out, "   Processing: %s\n", name)

		text, err := o.deps.Extractor.Extract(ctx, path)
		if err != nil {
			yellow.Fprintf(o.deps.Out, "   Skipping %s: %v\n", name, err)
			continue
		}

		chunks := o.deps.Chunker.Chunk(text, name)
		if len(chunks) == 0 {
			yellow.Fprintf(o.deps.Out, "   No usable text in %s\n", name)
			continue
		}

		combined = append(combined, chunks...)
		blue.Fprintf(o.deps.Out, "   Created %d text chunks\n", len(chunks))
	}

	if len(combined) == 0 {
		return 0, models.ErrNoChunks
	}

	// Ids restart per file; renumber across the combined list so they
	// line up with index positions.
	for i := range combined {
		combined[i].ChunkID = i
	}

	key := o.deps.Cache.Key(paths)
	entry, err := o.deps.Cache.Load(ctx, key)
	if err != nil {
		yellow.Fprintf(o.deps.Out, "Could not load cache: %v\n", err)
	}
	if entry != nil {
		blue.Fprintln(o.deps.Out, "Loading from cache...")
		o.chunks = entry.Chunks
		o.index.Build(entry.Embeddings)
		green.Fprintf(o.deps.Out, "Loaded %d chunks from cache\n", len(entry.Chunks))
		return len(entry.Chunks), nil
	}

	texts := make([]string, len(combined))
	for i, chunk := range combined {
		texts[i] = chunk.Text
	}

	blue.Fprintf(o.deps.Out, "Generating embeddings for %d chunks...\n", len(combined))
	embeddings, err := o.embedAll(ctx, texts)
	if err != nil {
		return 0, err
	}

	blue.Fprintln(o.deps.Out, "Building vector store...")
	o.chunks = combined
	o.index.Build(embeddings)

	if err := o.deps.Cache.Save(ctx, key, &cache.Entry{Chunks: combined, Embeddings: embeddings}); err != nil {
		yellow.Fprintf(o.deps.Out, "Could not save cache: %v\n", err)
	} else {
		green.Fprintln(o.deps.Out, "Results cached for faster future runs")
	}

	return len(combined), nil
}

const embedBatchSize = 16

func (o *Orchestrator) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	bar := o.progressBar(len(texts), "Embedding chunks...")

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := o.deps.Embedder.Embed(ctx, texts[start:end])
		if err != nil {
			fmt.Fprintln(o.deps.Out)
			return nil, err
		}
		if len(batch) != end-start {
			fmt.Fprintln(o.deps.Out)
			return nil, fmt.Errorf("embedding count mismatch: %d texts, %d vectors", end-start, len(batch))
		}

		embeddings = append(embeddings, batch...)
		_ = bar.Add(len(batch))
	}

	_ = bar.Finish()
	fmt.Fprintln(o.deps.Out)
	return embeddings, nil
}

const noContextAnswer = "No relevant information found in the documents."

// Answer responds to a question using retrieved document context. The
// returned string is always presentable to the user; failures come back
// as an error message, never a panic.
func (o *Orchestrator) Answer(ctx context.Context, question string) string {
	answer, err := o.answer(ctx, question)
	if err != nil {
		return fmt.Sprintf("Error generating answer: %v", err)
	}
	return answer
}

func (o *Orchestrator) answer(ctx context.Context, question string) (string, error) {
	if o.index.Len() == 0 {
		return noContextAnswer, nil
	}

	vectors, err := o.deps.Embedder.Embed(ctx, []string{question})
	if err != nil {
		return "", err
	}
	if len(vectors) == 0 {
		return "", fmt.Errorf("no embedding returned for the question")
	}

	retrieved, err := o.retrieve(vectors[0])
	if err != nil {
		return "", err
	}
	if len(retrieved) == 0 {
		return noContextAnswer, nil
	}

	reply, err := o.deps.Chat.Chat(ctx, []models.ChatMessage{
		{Role: models.RoleUser, Content: buildPrompt(retrieved, question)},
	})
	if err != nil {
		return "", err
	}

	return reply + formatSources(retrieved), nil
}

// retrieve maps index matches back onto their chunks.
func (o *Orchestrator) retrieve(vector []float32) ([]models.ScoredChunk, error) {
	results, err := o.index.Search(vector, o.config.TopK)
	if err != nil {
		return nil, err
	}

	retrieved := make([]models.ScoredChunk, 0, len(results))
	for _, result := range results {
		if result.Position >= len(o.chunks) {
			continue
		}
		retrieved = append(retrieved, models.ScoredChunk{
			Chunk: o.chunks[result.Position],
			Score: result.Score,
		})
	}
	return retrieved, nil
}

func buildPrompt(retrieved []models.ScoredChunk, question string) string {
	var contextBuilder strings.Builder
	for i, chunk := range retrieved {
		if i > 0 {
			contextBuilder.WriteString("\n\n")
		}
		contextBuilder.WriteString(fmt.Sprintf("From %s:\n%s", chunk.Source, chunk.Text))
	}

	return fmt.Sprintf(`Based on the following document excerpts, please answer the question thoroughly and accurately.

CONTEXT:
%s

QUESTION: %s

Please provide a detailed answer based solely on the information in the provided context. If the context doesn't contain enough information to answer the question completely, please mention what additional information would be helpful.

ANSWER:`, contextBuilder.String(), question)
}

// formatSources lists each contributing file once, in retrieval order.
func formatSources(retrieved []models.ScoredChunk) string {
	var sources []string
	seen := make(map[string]bool)

	for _, chunk := range retrieved {
		if !seen[chunk.Source] {
			sources = append(sources, chunk.Source)
			seen[chunk.Source] = true
		}
	}

	if len(sources) == 0 {
		return ""
	}

	return fmt.Sprintf("\n\nSources: %s", strings.Join(sources, ", "))
}

func (o *Orchestrator) progressBar(length int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(length,
		progressbar.OptionSetWriter(o.deps.Out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
