package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/Tmtan95/GenAI-demo/internal/models"
)

// EmbedderConfig represents the configuration for an embedder.
type EmbedderConfig struct {
	Model   string
	BaseURL string // Ollama server URL
}

// Embedder turns text into vectors through an Ollama embedding model.
type Embedder struct {
	config EmbedderConfig
	client embeddings.EmbedderClient
}

// NewEmbedderWithConfig creates a new Embedder with the given configuration.
func NewEmbedderWithConfig(config EmbedderConfig) (*Embedder, error) {
	if config.Model == "" {
		config.Model = "all-minilm" // Default Ollama embedding model
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434" // Default Ollama URL
	}

	client, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding model: %w", err)
	}

	return &Embedder{
		config: config,
		client: client,
	}, nil
}

// Embed returns one vector per input text, in input order. A count
// mismatch from the backend is reported as an error rather than passed
// through, since positions pair vectors with their chunks.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors, err := e.client.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrModelUnavailable, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(texts), len(vectors))
	}

	return vectors, nil
}
