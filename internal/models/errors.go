package models

import "errors"

var (
	// ErrExtraction marks a document that could not be read or parsed.
	// Ingestion skips the offending file and continues with the rest.
	ErrExtraction = errors.New("text extraction failed")

	// ErrNoChunks means the whole document set produced no usable text.
	ErrNoChunks = errors.New("no text chunks created from documents")

	// ErrModelUnavailable means the Ollama backend cannot be reached or
	// the requested model cannot serve the call.
	ErrModelUnavailable = errors.New("model unavailable")
)
