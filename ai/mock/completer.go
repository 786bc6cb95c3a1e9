package mock

import (
	"context"

	"github.com/poiesic/docsage/ai"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// StreamCompletionFunc is called by StreamCompletion if set.
	// If nil, the mock streams Fragments and then returns Err.
	StreamCompletionFunc func(ctx context.Context, prompt string, fn ai.StreamFunc) error

	// Fragments are streamed one delta at a time by the default behavior.
	// Nil by default; tests set the fragments they expect.
	Fragments []string

	// Err is returned after all Fragments have been streamed.
	// Set it without Fragments to simulate a stream-setup failure.
	Err error

	// LastPrompt records the prompt of the most recent call.
	LastPrompt string

	callCount int
}

// NewMockCompleter creates a mock completer. By default it streams nothing
// and succeeds; set Fragments, Err, or StreamCompletionFunc to shape behavior.
// Note: Returns concrete type to allow behavior injection and assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// StreamCompletion streams the configured fragments, then returns Err.
func (m *MockCompleter) StreamCompletion(ctx context.Context, prompt string, fn ai.StreamFunc) error {
	m.callCount++
	m.LastPrompt = prompt

	if m.StreamCompletionFunc != nil {
		return m.StreamCompletionFunc(ctx, prompt, fn)
	}

	for _, fragment := range m.Fragments {
		if err := fn(ctx, []byte(fragment)); err != nil {
			return err
		}
	}
	return m.Err
}

// CallCount returns the number of times StreamCompletion was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.LastPrompt = ""
	m.StreamCompletionFunc = nil
	m.Fragments = nil
	m.Err = nil
}
