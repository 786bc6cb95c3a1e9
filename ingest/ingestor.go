package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/docsage/ai"
	"github.com/poiesic/docsage/core"
	"github.com/poiesic/docsage/session"
	"github.com/poiesic/docsage/storage"
)

// Ingestor chunks documents, embeds the chunks in one batch, and persists
// them one row at a time.
type Ingestor struct {
	repository storage.ChunkRepository
	embedder   ai.Embedder
	chunkSize  int
	logger     *slog.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor) error

// WithChunkSize overrides the default chunk window size.
func WithChunkSize(size int) Option {
	return func(i *Ingestor) error {
		if size <= 0 {
			return fmt.Errorf("chunk size must be positive, got %d", size)
		}
		i.chunkSize = size
		return nil
	}
}

// NewIngestor creates an Ingestor backed by the given repository and embedder.
func NewIngestor(repository storage.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Ingestor, error) {
	if repository == nil {
		return nil, fmt.Errorf("chunk repository required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder required")
	}

	ingestor := &Ingestor{
		repository: repository,
		embedder:   embedder,
		chunkSize:  DefaultChunkSize,
		logger:     slog.Default().With("component", "ingest"),
	}
	for _, opt := range opts {
		if err := opt(ingestor); err != nil {
			return nil, err
		}
	}
	return ingestor, nil
}

// Ingest splits text into chunks, embeds them all in a single batch call,
// and inserts each chunk independently. It returns the number of chunks
// persisted.
//
// Embedding is all-or-nothing: if the batch call fails, nothing is stored
// and the session is marked failed. Storage is per-chunk: on the first
// insert failure ingestion stops, already-stored chunks remain, and the
// session is marked failed. The returned count reflects what actually
// landed in either case.
func (i *Ingestor) Ingest(ctx context.Context, sess *session.Session, text string) (int, error) {
	chunks := SplitText(text, i.chunkSize)
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := i.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		i.logger.Error("batch embedding failed", "chunks", len(chunks), "err", err)
		sess.Fail()
		return 0, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if len(vectors) != len(chunks) {
		i.logger.Error("embedding count mismatch", "chunks", len(chunks), "vectors", len(vectors))
		sess.Fail()
		return 0, fmt.Errorf("%w: got %d vectors for %d chunks", ErrEmbeddingFailed, len(vectors), len(chunks))
	}

	stored := 0
	for idx, content := range chunks {
		chunk := &core.DocumentChunk{
			Id:        core.ChunkID(sess.ID(), idx, content),
			SessionID: sess.ID(),
			Content:   content,
			Vector:    core.NormalizeVector(vectors[idx]),
		}

		if _, err := i.repository.AddChunk(ctx, chunk); err != nil {
			i.logger.Error("chunk insert failed", "index", idx, "stored", stored, "err", err)
			sess.Fail()
			return stored, fmt.Errorf("%w: chunk %d: %v", ErrStoreFailed, idx, err)
		}
		stored++
	}

	i.logger.Info("document ingested", "session", sess.ID(), "chunks", stored)
	return stored, nil
}
