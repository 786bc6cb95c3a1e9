package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docsage/ai/mock"
	"github.com/poiesic/docsage/core"
	"github.com/poiesic/docsage/ingest"
	"github.com/poiesic/docsage/session"
	"github.com/poiesic/docsage/storage"
	"github.com/poiesic/docsage/storage/badger"
)

func setupRepo(t *testing.T) storage.ChunkRepository {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close(); backend.Close() })
	return repo
}

func storeChunk(t *testing.T, repo storage.ChunkRepository, sessionID, content string, vector []float32) {
	t.Helper()
	_, err := repo.AddChunk(context.Background(), &core.DocumentChunk{
		Id:        core.IDFromContent(sessionID + content),
		SessionID: sessionID,
		Content:   content,
		Vector:    core.NormalizeVector(vector),
	})
	require.NoError(t, err)
}

func TestNewRetrieverValidation(t *testing.T) {
	repo := setupRepo(t)

	_, err := NewRetriever(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	_, err = NewRetriever(repo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewRetriever(repo, mock.NewMockEmbedder(), WithTopK(0))
	assert.Error(t, err)
}

func TestRetrieveJoinsTopMatches(t *testing.T) {
	repo := setupRepo(t)
	sess := session.New()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	storeChunk(t, repo, sess.ID(), "best match", []float32{1, 0, 0})
	storeChunk(t, repo, sess.ID(), "second match", []float32{0.8, 0.2, 0})
	storeChunk(t, repo, sess.ID(), "third match", []float32{0.5, 0.5, 0})
	storeChunk(t, repo, sess.ID(), "irrelevant", []float32{0, 0, 1})

	retriever, err := NewRetriever(repo, embedder)
	require.NoError(t, err)

	result := retriever.Retrieve(context.Background(), sess, "question")
	lines := strings.Split(result, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "best match", lines[0])
	assert.Equal(t, "second match", lines[1])
	assert.Equal(t, "third match", lines[2])
	assert.Equal(t, session.StatusHealthy, sess.Status())
}

func TestRetrieveSessionIsolation(t *testing.T) {
	repo := setupRepo(t)
	sess := session.New()
	other := session.New()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}

	storeChunk(t, repo, other.ID(), "someone else's notes", []float32{1, 0})

	retriever, err := NewRetriever(repo, embedder)
	require.NoError(t, err)

	result := retriever.Retrieve(context.Background(), sess, "question")
	assert.Empty(t, result)
	assert.Equal(t, session.StatusHealthy, sess.Status())
}

// captureRepository records the query vector handed to MatchChunks.
type captureRepository struct {
	storage.ChunkRepository
	lastVector []float32
}

func (r *captureRepository) MatchChunks(ctx context.Context, sessionID string, vector []float32, limit int) ([]*core.ChunkMatch, error) {
	r.lastVector = vector
	return r.ChunkRepository.MatchChunks(ctx, sessionID, vector, limit)
}

func TestRetrieveNormalizesQueryVector(t *testing.T) {
	repo := &captureRepository{ChunkRepository: setupRepo(t)}
	sess := session.New()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{3, 4}, nil
	}

	retriever, err := NewRetriever(repo, embedder)
	require.NoError(t, err)

	retriever.Retrieve(context.Background(), sess, "question")

	require.Equal(t, []float32{0.6, 0.8}, repo.lastVector)
}

func TestRetrieveFewerThanTopK(t *testing.T) {
	repo := setupRepo(t)
	sess := session.New()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}

	storeChunk(t, repo, sess.ID(), "only chunk", []float32{1, 0})

	retriever, err := NewRetriever(repo, embedder)
	require.NoError(t, err)

	result := retriever.Retrieve(context.Background(), sess, "question")
	assert.Equal(t, "only chunk", result)
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	repo := setupRepo(t)
	sess := session.New()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("model unavailable")
	}

	retriever, err := NewRetriever(repo, embedder)
	require.NoError(t, err)

	result := retriever.Retrieve(context.Background(), sess, "question")
	assert.Empty(t, result)
	assert.Equal(t, session.StatusError, sess.Status())
}

func TestRetrieveIngestedDocument(t *testing.T) {
	repo := setupRepo(t)
	sess := session.New()
	embedder := mock.NewMockEmbedder()

	ingestor, err := ingest.NewIngestor(repo, embedder)
	require.NoError(t, err)
	_, err = ingestor.Ingest(context.Background(), sess, "grading policy: two midterms and a final exam")
	require.NoError(t, err)

	retriever, err := NewRetriever(repo, embedder)
	require.NoError(t, err)

	// The mock embedder is deterministic, so the same text embeds to the
	// same vector and must come back as the best match.
	result := retriever.Retrieve(context.Background(), sess, "grading policy: two midterms and a final exam")
	assert.Contains(t, result, "grading policy")
}
