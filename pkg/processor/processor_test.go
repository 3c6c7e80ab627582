package processor_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tmtan95/GenAI-demo/pkg/processor"
)

func TestChunkDefaultWindows(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	// 1200 chars with no whitespace, so trimming never shrinks a window.
	text := strings.Repeat("abcdefg", 172)[:1200]

	chunks := p.Chunk(text, "sample.pdf")
	require.Len(t, chunks, 3)

	// Windows start every chunk_size-overlap bytes and cover the text.
	assert.Equal(t, text[0:500], chunks[0].Text)
	assert.Equal(t, text[450:950], chunks[1].Text)
	assert.Equal(t, text[900:1200], chunks[2].Text)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkID)
		assert.Equal(t, "sample.pdf", chunk.Source)
	}
}

func TestChunkDeterministic(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 40)

	first := p.Chunk(text, "a.pdf")
	second := p.Chunk(text, "a.pdf")
	assert.Equal(t, first, second)
}

func TestChunkShortInputs(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"below minimum length", "too short to keep", 0},
		{"whitespace only", strings.Repeat(" ", 600), 0},
		{"single window", strings.Repeat("x", 480), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := p.Chunk(tt.text, "doc.pdf")
			assert.Len(t, chunks, tt.want)
		})
	}
}

func TestChunkNumbersOnlySurvivors(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	// 480 chars of text: the second window is 30 chars and gets dropped,
	// so only one chunk survives and ids stay contiguous.
	text := strings.Repeat("y", 480)
	chunks := p.Chunk(text, "doc.pdf")
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].ChunkID)
	assert.Equal(t, text, chunks[0].Text)
}

func TestChunkSplitsOnRuneBoundaries(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	// A two-byte rune sits exactly on the first window edge. Byte-offset
	// slicing would cut it in half and leave invalid UTF-8 in two chunks.
	text := strings.Repeat("a", 499) + "é" + strings.Repeat("b", 600)

	chunks := p.Chunk(text, "accents.pdf")
	require.Len(t, chunks, 3)

	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk.Text), "chunk %d is not valid UTF-8", i)
	}

	assert.Equal(t, strings.Repeat("a", 499)+"é", chunks[0].Text)
	assert.Equal(t, strings.Repeat("a", 49)+"é"+strings.Repeat("b", 450), chunks[1].Text)
	assert.Equal(t, strings.Repeat("b", 200), chunks[2].Text)
}

func TestChunkMinLengthCountsRunes(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})

	// 45 runes stays below the 50-rune minimum even at 90 bytes.
	assert.Empty(t, p.Chunk(strings.Repeat("é", 45), "doc.pdf"))

	chunks := p.Chunk(strings.Repeat("é", 50), "doc.pdf")
	require.Len(t, chunks, 1)
	assert.Equal(t, strings.Repeat("é", 50), chunks[0].Text)
}

func TestChunkCustomConfig(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:      10,
		ChunkOverlap:   3,
		MinChunkLength: 1,
	})

	chunks := p.Chunk("abcdefghijklmnop", "tiny.pdf")
	require.Len(t, chunks, 3)
	assert.Equal(t, "abcdefghij", chunks[0].Text)
	assert.Equal(t, "hijklmnop", chunks[1].Text)
	assert.Equal(t, "op", chunks[2].Text)
}

func TestChunkTrimsStoredText(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:      40,
		ChunkOverlap:   5,
		MinChunkLength: 10,
	})

	text := "   leading and trailing space padded  " + strings.Repeat("z", 30)
	chunks := p.Chunk(text, "doc.pdf")
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.Equal(t, strings.TrimSpace(chunk.Text), chunk.Text)
	}
}
