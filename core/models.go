package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID generates the ID for a document chunk from its session, position,
// and content. Re-ingesting identical content under the same session produces
// the same IDs, so a duplicate upload overwrites rows instead of multiplying them.
func ChunkID(sessionID string, index int, content string) ID {
	return IDFromContent(sessionID + "\x00" + strconv.Itoa(index) + "\x00" + content)
}

// DocumentChunk is one persisted row of the vector store: a fixed-length
// substring of an ingested document together with its embedding.
// Rows are created by the ingestor and destroyed by the retention sweeper.
type DocumentChunk struct {
	Id        ID
	SessionID string // Opaque token of the session that ingested the chunk
	Content   string
	Vector    []float32 // Embedding vector, unit-normalized
	CreatedAt time.Time // Insertion time; drives TTL retention
}

// ChunkMatch represents a document chunk match from vector similarity search.
type ChunkMatch struct {
	Chunk *DocumentChunk
	Score float32
}
