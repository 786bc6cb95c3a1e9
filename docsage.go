// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package docsage

import (
	"context"
	"iter"
	"log/slog"

	"github.com/poiesic/docsage/ai"
	"github.com/poiesic/docsage/ai/openai"
	"github.com/poiesic/docsage/completion"
	"github.com/poiesic/docsage/extract"
	"github.com/poiesic/docsage/ingest"
	"github.com/poiesic/docsage/retention"
	"github.com/poiesic/docsage/retrieval"
	"github.com/poiesic/docsage/session"
	"github.com/poiesic/docsage/storage"
	"github.com/poiesic/docsage/storage/badger"
)

// Assistant wires storage, embedding, retrieval, and completion into the
// full question answering pipeline.
type Assistant struct {
	backend   *badger.Backend
	chunkRepo storage.ChunkRepository
	provider  ai.AIProvider
	ingestor  *ingest.Ingestor
	retriever *retrieval.Retriever
	streamer  *completion.Streamer
	sweeper   *retention.Sweeper
	logger    *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig overrides the default AI provider configuration.
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithInMemoryStorage uses a non-persistent store. Used in tests.
func WithInMemoryStorage() AssistantOption {
	return func(o *assistantOptions) {
		o.inMemory = true
	}
}

// NewAssistant opens storage at filePath and wires up the pipeline.
// The AI provider is shared process-wide: it is built from the config of the
// first NewAssistant call and reused by every assistant after that.
func NewAssistant(filePath string, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.DefaultProvider(options.aiConfig)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	return newAssistant(backend, chunkRepo, provider)
}

func newAssistant(backend *badger.Backend, chunkRepo storage.ChunkRepository, provider ai.AIProvider) (*Assistant, error) {
	// One shared embedder; inference calls are serialized since the backend
	// makes no thread-safety guarantees.
	embedder := ai.Synchronized(provider.Embedder())

	ingestor, err := ingest.NewIngestor(chunkRepo, embedder)
	if err != nil {
		return nil, err
	}

	retriever, err := retrieval.NewRetriever(chunkRepo, embedder)
	if err != nil {
		return nil, err
	}

	streamer, err := completion.NewStreamer(provider.Completer())
	if err != nil {
		return nil, err
	}

	sweeper, err := retention.NewSweeper(chunkRepo)
	if err != nil {
		return nil, err
	}

	return &Assistant{
		backend:   backend,
		chunkRepo: chunkRepo,
		provider:  provider,
		ingestor:  ingestor,
		retriever: retriever,
		streamer:  streamer,
		sweeper:   sweeper,
		logger:    slog.Default(),
	}, nil
}

// Close releases the AI provider and storage.
func (a *Assistant) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.chunkRepo.Close(); err != nil {
		a.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ChunkRepository exposes the underlying chunk store.
func (a *Assistant) ChunkRepository() storage.ChunkRepository {
	return a.chunkRepo
}

// NewSession starts a fresh conversation session.
func (a *Assistant) NewSession() *session.Session {
	return session.New()
}

// Sweep expires stale chunks across all sessions. Failures degrade the
// session rather than erroring.
func (a *Assistant) Sweep(ctx context.Context, sess *session.Session) int {
	return a.sweeper.Sweep(ctx, sess)
}

// IngestText chunks, embeds, and stores raw text under the session.
// Returns the number of chunks persisted.
func (a *Assistant) IngestText(ctx context.Context, sess *session.Session, text string) (int, error) {
	return a.ingestor.Ingest(ctx, sess, text)
}

// IngestPDF extracts text from a PDF file and ingests it under the session.
func (a *Assistant) IngestPDF(ctx context.Context, sess *session.Session, path string) (int, error) {
	text, err := extract.PDFText(path)
	if err != nil {
		return 0, err
	}
	return a.ingestor.Ingest(ctx, sess, text)
}

// Ask answers a question grounded in the session's ingested documents.
// The question is recorded in the session history immediately; the answer
// fragments stream through the returned sequence and the assembled answer
// is recorded once the stream finishes.
func (a *Assistant) Ask(ctx context.Context, sess *session.Session, question string) iter.Seq[string] {
	sess.Append(session.RoleUser, question)

	docContext := a.retriever.Retrieve(ctx, sess, question)
	prompt := completion.BuildPrompt(docContext, question)
	fragments := a.streamer.Stream(ctx, sess, prompt)

	return func(yield func(string) bool) {
		full := ""
		for fragment := range fragments {
			full += fragment
			if !yield(fragment) {
				break
			}
		}
		sess.Append(session.RoleAssistant, full)
	}
}
