package processor

import (
	"strings"
	"unicode/utf8"

	"github.com/Tmtan95/GenAI-demo/internal/models"
)

type ProcessorConfig struct {
	ChunkSize      int
	ChunkOverlap   int
	MinChunkLength int
}

type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.ChunkSize == 0 {
		config.ChunkSize = 500
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = 50
	}
	if config.MinChunkLength == 0 {
		config.MinChunkLength = 50
	}
	return Processor{config: config}
}

// Chunk slides a fixed-size window over text, stepping by chunk size minus
// overlap, so consecutive chunks share a margin of text. Window positions
// and sizes count runes, so a multi-byte character is never split across
// chunks. Windows whose trimmed content is shorter than the minimum length
// are dropped; chunk ids number only the survivors.
func (p *Processor) Chunk(text, source string) []models.Chunk {
	step := p.config.ChunkSize - p.config.ChunkOverlap
	if step < 1 {
		step = 1
	}

	runes := []rune(text)
	var chunks []models.Chunk
	for start := 0; start < len(runes); start += step {
		end := start + p.config.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		window := strings.TrimSpace(string(runes[start:end]))
		if utf8.RuneCountInString(window) < p.config.MinChunkLength {
			continue
		}

		chunks = append(chunks, models.Chunk{
			Text:    window,
			Source:  source,
			ChunkID: len(chunks),
		})
	}

	return chunks
}
