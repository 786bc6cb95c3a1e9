package ai

import (
	"context"
	"sync"
)

// Synchronized wraps an Embedder with a mutex so that inference calls are
// serialized. Use this when sharing one embedder instance across threads
// and the underlying backend does not guarantee thread safety.
func Synchronized(e Embedder) Embedder {
	return &syncEmbedder{inner: e}
}

type syncEmbedder struct {
	mu    sync.Mutex
	inner Embedder
}

func (s *syncEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.EmbedText(ctx, text)
}

func (s *syncEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.EmbedTexts(ctx, texts)
}
