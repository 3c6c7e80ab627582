package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	}

	if c.LLM.Model == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.model",
			Message: "chat model name is required",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	// Validate Embedding config
	if c.Embedding.Model == "" {
		errors = append(errors, ValidationError{
			Field:   "embedding.model",
			Message: "embedding model name is required",
		})
	}

	// Validate folder config
	if c.Documents.Folder == "" {
		errors = append(errors, ValidationError{
			Field:   "documents.folder",
			Message: "documents folder is required",
		})
	}

	if c.Cache.Folder == "" {
		errors = append(errors, ValidationError{
			Field:   "cache.folder",
			Message: "cache folder is required",
		})
	}

	// Validate Retrieval config
	if c.Retrieval.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Retrieval.ChunkOverlap < 0 || c.Retrieval.ChunkOverlap >= c.Retrieval.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "retrieval.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	if c.Retrieval.MinChunkLength < 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.min_chunk_length",
			Message: "min_chunk_length must be positive",
		})
	}

	if c.Retrieval.TopK < 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.top_k",
			Message: "top_k must be positive",
		})
	}

	// Validate Server config
	if c.Server.StartupTimeout < 1 {
		errors = append(errors, ValidationError{
			Field:   "server.startup_timeout",
			Message: "startup_timeout must be positive",
		})
	}

	// Validate base URL format
	if _, err := url.Parse(c.LLM.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid Ollama base URL",
		})
	}

	return errors
}
