package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docsage/ai/mock"
	"github.com/poiesic/docsage/core"
	"github.com/poiesic/docsage/session"
	"github.com/poiesic/docsage/storage"
	"github.com/poiesic/docsage/storage/badger"
)

// failAfterRepository wraps a repository and fails AddChunk after a set
// number of successful inserts.
type failAfterRepository struct {
	storage.ChunkRepository
	allowed int
	inserts int
}

func (r *failAfterRepository) AddChunk(ctx context.Context, chunk *core.DocumentChunk) (*core.DocumentChunk, error) {
	if r.inserts >= r.allowed {
		return nil, errors.New("disk full")
	}
	r.inserts++
	return r.ChunkRepository.AddChunk(ctx, chunk)
}

func newTestIngestor(t *testing.T, opts ...Option) (*Ingestor, storage.ChunkRepository) {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close(); backend.Close() })

	ingestor, err := NewIngestor(repo, mock.NewMockEmbedder(), opts...)
	require.NoError(t, err)
	return ingestor, repo
}

func TestNewIngestorValidation(t *testing.T) {
	_, err := NewIngestor(nil, mock.NewMockEmbedder())
	assert.Error(t, err)

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	_, err = NewIngestor(repo, nil)
	assert.Error(t, err)

	_, err = NewIngestor(repo, mock.NewMockEmbedder(), WithChunkSize(0))
	assert.Error(t, err)
}

func TestIngestEmptyText(t *testing.T) {
	ingestor, _ := newTestIngestor(t)
	sess := session.New()

	count, err := ingestor.Ingest(context.Background(), sess, "")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, session.StatusHealthy, sess.Status())
}

func TestIngestStoresAllChunks(t *testing.T) {
	ingestor, repo := newTestIngestor(t)
	sess := session.New()

	text := strings.Repeat("syllabus content ", 100) // 1700 chars -> 4 chunks
	count, err := ingestor.Ingest(context.Background(), sess, text)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, session.StatusHealthy, sess.Status())

	stored, err := repo.GetChunksBySession(context.Background(), sess.ID())
	require.NoError(t, err)
	assert.Len(t, stored, 4)

	for _, chunk := range stored {
		assert.Equal(t, sess.ID(), chunk.SessionID)
		assert.NotEmpty(t, chunk.Vector)
		assert.False(t, chunk.CreatedAt.IsZero())
	}
}

func TestIngestNormalizesVectors(t *testing.T) {
	ingestor, repo := newTestIngestor(t)
	sess := session.New()

	count, err := ingestor.Ingest(context.Background(), sess, "some text")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	stored, err := repo.GetChunksBySession(context.Background(), sess.ID())
	require.NoError(t, err)
	require.Len(t, stored, 1)

	var magnitude float32
	for _, v := range stored[0].Vector {
		magnitude += v * v
	}
	assert.InDelta(t, 1.0, magnitude, 0.001)
}

func TestIngestEmbeddingFailureStoresNothing(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("model unavailable")
	}

	ingestor, err := NewIngestor(repo, embedder)
	require.NoError(t, err)

	sess := session.New()
	count, err := ingestor.Ingest(context.Background(), sess, strings.Repeat("x", 1200))
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
	assert.Equal(t, 0, count)
	assert.Equal(t, session.StatusError, sess.Status())

	stored, err := repo.GetChunksBySession(context.Background(), sess.ID())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestIngestStoreFailureStopsEarly(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	failing := &failAfterRepository{ChunkRepository: repo, allowed: 1}
	ingestor, err := NewIngestor(failing, mock.NewMockEmbedder())
	require.NoError(t, err)

	sess := session.New()
	count, err := ingestor.Ingest(context.Background(), sess, strings.Repeat("x", 1500)) // 3 chunks
	assert.ErrorIs(t, err, ErrStoreFailed)
	assert.Equal(t, 1, count)
	assert.Equal(t, session.StatusError, sess.Status())

	// The chunk stored before the failure survives
	stored, err := repo.GetChunksBySession(context.Background(), sess.ID())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestIngestIdempotentReingest(t *testing.T) {
	ingestor, repo := newTestIngestor(t)
	sess := session.New()

	text := strings.Repeat("y", 1000)

	count, err := ingestor.Ingest(context.Background(), sess, text)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	time.Sleep(time.Millisecond)

	// Re-ingesting the same text overwrites the same content-derived IDs
	count, err = ingestor.Ingest(context.Background(), sess, text)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stored, err := repo.GetChunksBySession(context.Background(), sess.ID())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
