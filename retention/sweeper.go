package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/docsage/session"
	"github.com/poiesic/docsage/storage"
)

// DefaultTTL is how long chunks live before they become eligible for
// deletion.
const DefaultTTL = time.Hour

// Sweeper deletes expired chunks from storage.
type Sweeper struct {
	repository storage.ChunkRepository
	ttl        time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Sweeper.
type Option func(*Sweeper) error

// WithTTL overrides the default chunk lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Sweeper) error {
		if ttl <= 0 {
			return fmt.Errorf("ttl must be positive, got %v", ttl)
		}
		s.ttl = ttl
		return nil
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) error {
		s.now = now
		return nil
	}
}

// NewSweeper creates a new sweeper.
func NewSweeper(repository storage.ChunkRepository, opts ...Option) (*Sweeper, error) {
	if repository == nil {
		return nil, fmt.Errorf("chunk repository required")
	}

	s := &Sweeper{
		repository: repository,
		ttl:        DefaultTTL,
		now:        time.Now,
		logger:     slog.Default().With("component", "retention"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Sweep deletes every chunk older than the TTL, across all sessions, and
// returns the number removed.
//
// Sweep failures never propagate: the session is degraded and the caller
// carries on. Stale chunks linger until the next sweep succeeds.
func (s *Sweeper) Sweep(ctx context.Context, sess *session.Session) int {
	cutoff := s.now().UTC().Add(-s.ttl)

	deleted, err := s.repository.DeleteBefore(ctx, cutoff)
	if err != nil {
		s.logger.Warn("retention sweep failed", "cutoff", cutoff, "err", err)
		sess.Degrade()
		return 0
	}

	if deleted > 0 {
		s.logger.Info("retention sweep complete", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted
}
