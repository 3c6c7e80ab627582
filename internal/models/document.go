package models

type Chunk struct {
	Text    string
	Source  string
	ChunkID int
}

type ScoredChunk struct {
	Chunk
	Score float32
}
