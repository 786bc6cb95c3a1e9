package ai

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder tracks concurrent entry into embedding calls.
type countingEmbedder struct {
	mu         sync.Mutex
	active     int
	maxActive  int
	totalCalls int
}

func (e *countingEmbedder) enter() {
	e.mu.Lock()
	e.active++
	if e.active > e.maxActive {
		e.maxActive = e.active
	}
	e.totalCalls++
	e.mu.Unlock()
}

func (e *countingEmbedder) leave() {
	e.mu.Lock()
	e.active--
	e.mu.Unlock()
}

func (e *countingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.enter()
	defer e.leave()
	return []float32{1}, nil
}

func (e *countingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	e.enter()
	defer e.leave()
	return make([][]float32, len(texts)), nil
}

func TestSynchronizedSerializesCalls(t *testing.T) {
	inner := &countingEmbedder{}
	embedder := Synchronized(inner)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := embedder.EmbedText(context.Background(), "text")
			assert.NoError(t, err)
			_, err = embedder.EmbedTexts(context.Background(), []string{"a", "b"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, 32, inner.totalCalls)
	assert.Equal(t, 1, inner.maxActive, "calls must never overlap")
}
