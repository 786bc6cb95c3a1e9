package storage

import (
	"context"
	"time"

	"github.com/poiesic/docsage/core"
)

// ChunkRepository is the vector-store client: it owns the persisted
// document-chunk rows and is the only component that reads or writes them.
//
// The vector store is the only mutable state shared across sessions. The
// sole isolation mechanism is the session filter applied on every read;
// writes from different sessions land in disjoint logical partitions of
// the same physical table.
type ChunkRepository interface {
	// AddChunk inserts a single chunk row. Sets CreatedAt if not already set.
	// Inserts are independent of one another: a failed insert has no effect
	// on rows already written, and callers decide whether to continue.
	AddChunk(ctx context.Context, chunk *core.DocumentChunk) (*core.DocumentChunk, error)

	// UpdateChunks rewrites existing chunk rows in place.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.DocumentChunk) ([]*core.DocumentChunk, error)

	// MatchChunks finds the chunks most similar to the given vector,
	// constrained to rows whose SessionID equals sessionID. Returns up to
	// limit matches ordered by similarity score (highest first). Rows of
	// other sessions must never appear, regardless of similarity.
	MatchChunks(ctx context.Context, sessionID string, vector []float32, limit int) ([]*core.ChunkMatch, error)

	// DeleteBefore removes every chunk row whose CreatedAt is strictly
	// older than cutoff, across ALL sessions. Returns the number of rows
	// deleted. Retention is a storage-hygiene concern independent of
	// tenancy, so no session filter applies here.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int, error)

	// GetChunk retrieves a single chunk row by ID.
	// Returns ErrNotFound if the row doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.DocumentChunk, error)

	// GetChunksBySession retrieves all chunk rows belonging to a session.
	GetChunksBySession(ctx context.Context, sessionID string) ([]*core.DocumentChunk, error)

	// GetChunksByDateRange retrieves chunk rows within a time range.
	// Returns rows where start <= CreatedAt < end, ordered by creation time.
	GetChunksByDateRange(ctx context.Context, start, end time.Time) ([]*core.DocumentChunk, error)

	// Close closes the repository and releases resources.
	Close() error
}
