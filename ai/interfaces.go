package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Embedding inference is not guaranteed to be thread-safe by every backend;
// wrap with Synchronized when the hosting environment is multi-threaded.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is all-or-nothing: on error no embeddings are returned.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// StreamFunc receives one content delta of a streamed completion.
// Returning an error aborts the stream.
type StreamFunc func(ctx context.Context, chunk []byte) error

// Completer produces grounded text completions from a completion service.
type Completer interface {
	// StreamCompletion sends prompt to the completion service with the
	// configured model and invokes fn for each content delta as it arrives,
	// in arrival order. Blocks until the stream finishes or fails.
	StreamCompletion(ctx context.Context, prompt string, fn StreamFunc) error
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Completer instances, ensuring
// they share configuration and resources appropriately.
//
// The provider is built exactly once per process lifetime (model clients are
// expensive to construct) and reused read-only by every ingest and retrieval call.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Completer returns the text completion service.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
