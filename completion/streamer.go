package completion

import (
	"context"
	"iter"
	"log/slog"
	"strings"

	"github.com/poiesic/docsage/ai"
	"github.com/poiesic/docsage/session"
)

// LimitNotice is the fragment emitted in place of an answer when the
// completion backend reports a usage limit.
const LimitNotice = "Daily AI usage limit reached. Please try again later."

// Streamer streams completion fragments and translates backend failures
// into session status changes.
type Streamer struct {
	completer ai.Completer
	logger    *slog.Logger
}

// NewStreamer creates a new streamer.
func NewStreamer(completer ai.Completer) (*Streamer, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	return &Streamer{
		completer: completer,
		logger:    slog.Default().With("component", "completion"),
	}, nil
}

// isLimitError reports whether an error message indicates a usage limit
// rather than a hard failure. Matching is substring-based on the
// lowercased message.
func isLimitError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "limit") ||
		strings.Contains(msg, "rate") ||
		strings.Contains(msg, "quota")
}

// Stream returns a lazy sequence of answer fragments for the prompt.
// Nothing is sent upstream until iteration begins, and the sequence is
// finite and single-use.
//
// If the backend fails mid-stream, the fragments already produced stand
// and exactly one terminal fragment follows: a usage-limit notice with
// the session degraded, or the raw error text with the session failed.
func (s *Streamer) Stream(ctx context.Context, sess *session.Session, prompt string) iter.Seq[string] {
	consumed := false
	return func(yield func(string) bool) {
		if consumed {
			return
		}
		consumed = true

		stopped := false
		err := s.completer.StreamCompletion(ctx, prompt, func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			if !yield(string(chunk)) {
				stopped = true
				return context.Canceled
			}
			return nil
		})
		if err == nil || stopped {
			return
		}

		if isLimitError(err) {
			s.logger.Warn("completion hit usage limit", "err", err)
			sess.Degrade()
			yield(LimitNotice)
			return
		}

		s.logger.Error("completion failed", "err", err)
		sess.Fail()
		yield(err.Error())
	}
}
