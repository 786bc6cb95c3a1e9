package reindex

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docsage/ai/mock"
	"github.com/poiesic/docsage/core"
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

func seedChunks(t *testing.T, repo storage.ChunkRepository, n int) []*core.DocumentChunk {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	chunks := make([]*core.DocumentChunk, n)
	for i := range chunks {
		content := string(rune('a'+i)) + " content"
		chunk, err := repo.AddChunk(context.Background(), &core.DocumentChunk{
			Id:        core.ChunkID("sess", i, content),
			SessionID: "sess",
			Content:   content,
			Vector:    []float32{1, 0},
			CreatedAt: now.Add(-time.Duration(i) * time.Millisecond),
		})
		require.NoError(t, err)
		chunks[i] = chunk
	}
	return chunks
}

func TestReindexerRun(t *testing.T) {
	repo := setupRepo(t)
	seeded := seedChunks(t, repo, 5)

	var out bytes.Buffer
	config := &Config{BatchSize: 2, ReportInterval: 1, MaxRetries: 2, RetryDelay: time.Millisecond}
	reindexer := NewReindexer(repo, mock.NewMockEmbedder(), config, &out)

	require.NoError(t, reindexer.Run(context.Background()))
	assert.Contains(t, out.String(), "Reindex complete")

	// Every chunk got a fresh, normalized vector
	for _, seeded := range seeded {
		chunk, err := repo.GetChunk(context.Background(), seeded.Id)
		require.NoError(t, err)

		var magnitude float32
		for _, v := range chunk.Vector {
			magnitude += v * v
		}
		assert.InDelta(t, 1.0, magnitude, 0.001)
		assert.NotEqual(t, []float32{1, 0}, chunk.Vector)
	}
}

func TestReindexerRunEmptyStore(t *testing.T) {
	repo := setupRepo(t)

	var out bytes.Buffer
	reindexer := NewReindexer(repo, mock.NewMockEmbedder(), nil, &out)

	require.NoError(t, reindexer.Run(context.Background()))
	assert.Contains(t, out.String(), "No chunks found")
}

func TestReindexerEmbedderFailure(t *testing.T) {
	repo := setupRepo(t)
	seedChunks(t, repo, 2)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("model gone")
	}

	var out bytes.Buffer
	config := &Config{BatchSize: 10, ReportInterval: 10, MaxRetries: 2, RetryDelay: time.Millisecond}
	reindexer := NewReindexer(repo, embedder, config, &out)

	err := reindexer.Run(context.Background())
	assert.Error(t, err)
}

func TestBatchProcessorCountMismatch(t *testing.T) {
	repo := setupRepo(t)
	chunks := seedChunks(t, repo, 3)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}

	processor := NewBatchProcessor(repo, embedder, 1, time.Millisecond)
	err := processor.Process(context.Background(), chunks)
	assert.ErrorContains(t, err, "mismatch")
}

func TestChunkIteratorBatches(t *testing.T) {
	repo := setupRepo(t)
	seedChunks(t, repo, 5)

	iterator := NewChunkIterator(repo, 2)

	var batchSizes []int
	err := iterator.ForEach(context.Background(), func(chunks []*core.DocumentChunk) error {
		batchSizes = append(batchSizes, len(chunks))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, batchSizes)
}
