package cache

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Tmtan95/GenAI-demo/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_info (
	key         TEXT NOT NULL,
	chunk_count INTEGER NOT NULL,
	dimension   INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS chunks (
	chunk_id  INTEGER PRIMARY KEY,
	source    TEXT NOT NULL,
	text      TEXT NOT NULL,
	embedding BLOB NOT NULL
);
`

// Entry is one cached ingestion result. Chunks[i] pairs with
// Embeddings[i]; embeddings are stored raw, not normalized.
type Entry struct {
	Chunks     []models.Chunk
	Embeddings [][]float32
}

// Store keeps one SQLite file per cache key inside a directory. Entries
// are written once and replaced whole, never updated in place.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "cache"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Key derives a deterministic cache key from the document set. Each file
// contributes its path and modification time, so touching any file, or
// adding or removing one, produces a new key. Files that cannot be
// stat'ed are skipped. Path order does not matter.
func (s *Store) Key(paths []string) string {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	var parts []string
	for _, path := range sorted {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		parts = append(parts, path+":"+strconv.FormatInt(info.ModTime().UnixNano(), 10))
	}

	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func (s *Store) entryPath(key string) string {
	return filepath.Join(s.dir, "rag_cache_"+key+".db")
}

// Load returns the entry stored under key. A missing entry is (nil, nil).
// An entry that cannot be read or fails structural checks is reported as
// an error; callers treat that as a miss and rebuild.
func (s *Store) Load(ctx context.Context, key string) (*Entry, error) {
	path := s.entryPath(key)
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache entry: %w", err)
	}
	defer db.Close()

	var storedKey string
	var count, dimension int
	row := db.QueryRowContext(ctx, `SELECT key, chunk_count, dimension FROM cache_info`)
	if err := row.Scan(&storedKey, &count, &dimension); err != nil {
		return nil, fmt.Errorf("reading cache header: %w", err)
	}
	if storedKey != key {
		return nil, fmt.Errorf("cache entry key mismatch: have %s, want %s", storedKey, key)
	}

	rows, err := db.QueryContext(ctx, `SELECT chunk_id, source, text, embedding FROM chunks ORDER BY chunk_id`)
	if err != nil {
		return nil, fmt.Errorf("reading cached chunks: %w", err)
	}
	defer rows.Close()

	entry := &Entry{}
	for rows.Next() {
		var chunk models.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.ChunkID, &chunk.Source, &chunk.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning cached chunk: %w", err)
		}
		if chunk.ChunkID != len(entry.Chunks) {
			return nil, fmt.Errorf("cache entry has gaps: chunk id %d at position %d", chunk.ChunkID, len(entry.Chunks))
		}
		embedding := bytesToFloat32Slice(blob)
		if len(embedding) != dimension {
			return nil, fmt.Errorf("cached embedding has dimension %d, header says %d", len(embedding), dimension)
		}
		entry.Chunks = append(entry.Chunks, chunk)
		entry.Embeddings = append(entry.Embeddings, embedding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cached chunks: %w", err)
	}
	if len(entry.Chunks) != count {
		return nil, fmt.Errorf("cache entry is incomplete: %d chunks stored, header says %d", len(entry.Chunks), count)
	}

	return entry, nil
}

// Save writes entry under key, replacing any previous file for that key.
func (s *Store) Save(ctx context.Context, key string, entry *Entry) error {
	if entry == nil || len(entry.Chunks) == 0 {
		return fmt.Errorf("refusing to cache an empty entry")
	}
	if len(entry.Chunks) != len(entry.Embeddings) {
		return fmt.Errorf("entry is inconsistent: %d chunks, %d embeddings", len(entry.Chunks), len(entry.Embeddings))
	}
	dimension := len(entry.Embeddings[0])
	for i, embedding := range entry.Embeddings {
		if len(embedding) != dimension {
			return fmt.Errorf("embedding %d has dimension %d, want %d", i, len(embedding), dimension)
		}
	}

	path := s.entryPath(key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replacing cache entry: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("creating cache entry: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating cache schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cache_info (key, chunk_count, dimension, created_at) VALUES (?, ?, ?, ?)`,
		key, len(entry.Chunks), dimension, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("writing cache header: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (chunk_id, source, text, embedding) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range entry.Chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ChunkID, chunk.Source, chunk.Text,
			float32SliceToBytes(entry.Embeddings[i])); err != nil {
			return fmt.Errorf("writing chunk %d: %w", chunk.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cache entry: %w", err)
	}
	return nil
}

func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToFloat32Slice(buf []byte) []float32 {
	if len(buf) == 0 || len(buf)%4 != 0 {
		return nil
	}
	floats := make([]float32, len(buf)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return floats
}
