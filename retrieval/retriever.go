package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/docsage/ai"
	"github.com/poiesic/docsage/core"
	"github.com/poiesic/docsage/session"
	"github.com/poiesic/docsage/storage"
)

// DefaultTopK is the number of chunks assembled into context by default.
const DefaultTopK = 3

// Retriever finds the chunks most relevant to a question within a session
// and assembles them into a context string.
type Retriever struct {
	repository storage.ChunkRepository
	embedder   ai.Embedder
	topK       int
	logger     *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithTopK overrides the default number of chunks retrieved.
func WithTopK(k int) Option {
	return func(r *Retriever) error {
		if k <= 0 {
			return fmt.Errorf("topK must be positive, got %d", k)
		}
		r.topK = k
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(repository storage.ChunkRepository, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if repository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		repository: repository,
		embedder:   embedder,
		topK:       DefaultTopK,
		logger:     slog.Default().With("component", "retrieval"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve embeds the question, finds the top matches within the session,
// and returns their contents joined by newlines, best match first.
//
// Any failure marks the session failed and returns an empty context; the
// caller proceeds with what it has. Zero matches is not a failure.
func (r *Retriever) Retrieve(ctx context.Context, sess *session.Session, question string) string {
	embedding, err := r.embedder.EmbedText(ctx, question)
	if err != nil {
		r.logger.Error("error generating embedding for question", "err", err)
		sess.Fail()
		return ""
	}

	// Stored vectors are unit length; normalizing the query keeps match
	// scores true cosine similarities.
	matches, err := r.repository.MatchChunks(ctx, sess.ID(), core.NormalizeVector(embedding), r.topK)
	if err != nil {
		r.logger.Error("error querying for similar chunks", "err", err)
		sess.Fail()
		return ""
	}

	contents := make([]string, 0, len(matches))
	for _, match := range matches {
		contents = append(contents, match.Chunk.Content)
	}
	return strings.Join(contents, "\n")
}
