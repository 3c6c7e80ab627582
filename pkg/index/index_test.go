package index_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tmtan95/GenAI-demo/pkg/index"
)

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	idx := index.New()
	idx.Build([][]float32{
		{1, 0},
		{0, 1},
		{0.7, 0.7},
	})

	results, err := idx.Search([]float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// The identical direction wins, the diagonal comes second.
	assert.Equal(t, 0, results[0].Position)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)
	assert.Equal(t, 2, results[1].Position)
	assert.InDelta(t, 0.7071, results[1].Score, 1e-3)
}

func TestSearchNormalizesMagnitudes(t *testing.T) {
	idx := index.New()

	// Same direction at wildly different magnitudes must score the same.
	idx.Build([][]float32{
		{100, 0},
		{0.001, 0},
	})

	results, err := idx.Search([]float32{42, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.InDelta(t, results[0].Score, results[1].Score, 1e-5)
}

func TestSearchTieBreaksOnLowerPosition(t *testing.T) {
	idx := index.New()
	idx.Build([][]float32{
		{0, 1},
		{1, 0},
		{1, 0},
	})

	results, err := idx.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Position)
	assert.Equal(t, 2, results[1].Position)
	assert.Equal(t, 0, results[2].Position)
}

func TestSearchClampsK(t *testing.T) {
	idx := index.New()
	idx.Build([][]float32{{1, 0}, {0, 1}})

	results, err := idx.Search([]float32{1, 1}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = idx.Search([]float32{1, 1}, 0)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := index.New()

	results, err := idx.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Equal(t, 0, idx.Len())
}

func TestSearchRejectsDimensionMismatch(t *testing.T) {
	idx := index.New()
	idx.Build([][]float32{
		{1, 0, 0},
		{0, 1, 0},
	})

	// A shorter query must not be ranked on a truncated inner product.
	results, err := idx.Search([]float32{0, 1}, 2)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "dimension")

	results, err = idx.Search([]float32{0, 1, 0, 0}, 2)
	require.Error(t, err)
	assert.Nil(t, results)
}

func TestBuildReplacesContents(t *testing.T) {
	idx := index.New()
	idx.Build([][]float32{{1, 0}, {0, 1}, {1, 1}})
	require.Equal(t, 3, idx.Len())

	idx.Build([][]float32{{1, 0}})
	assert.Equal(t, 1, idx.Len())

	results, err := idx.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Position)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	embeddings := [][]float32{{3, 4}}

	idx := index.New()
	idx.Build(embeddings)

	// Raw values survive so callers can cache them unnormalized.
	assert.Equal(t, [][]float32{{3, 4}}, embeddings)
}
