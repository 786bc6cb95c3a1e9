package session

import "github.com/google/uuid"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status is the tri-state health indicator attached to a session.
// It is advisory only: a session in StatusError may still attempt
// ingestion or retrieval on the next interaction.
type Status int

const (
	// StatusHealthy means no external failure has been observed.
	StatusHealthy Status = iota
	// StatusDegraded means a rate or quota signal was observed.
	StatusDegraded
	// StatusError means a store or completion failure was observed.
	StatusError
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is a single entry in a session's conversation history.
type Message struct {
	Role    Role
	Content string
}

// Session holds the identity, conversation history, and health indicator
// of one client attachment. Sessions are never persisted: a new attachment
// gets a new session and therefore no access to any prior chunks, since
// retrieval is session-filtered.
//
// A Session is not safe for concurrent use; the pipeline runs one
// activation at a time.
type Session struct {
	id       string
	messages []Message
	status   Status
}

// New creates a session with a freshly generated opaque token.
func New() *Session {
	return &Session{id: uuid.NewString()}
}

// ID returns the opaque session token. It scopes every ingested chunk
// and every retrieval query issued on behalf of this session.
func (s *Session) ID() string {
	return s.id
}

// Append adds a message to the end of the conversation history.
func (s *Session) Append(role Role, content string) {
	s.messages = append(s.messages, Message{Role: role, Content: content})
}

// Messages returns the conversation history in insertion order.
func (s *Session) Messages() []Message {
	return s.messages
}

// Clear empties the conversation history. The session token, status, and
// any stored chunks are untouched: a cleared chat still retrieves chunks
// previously ingested under the same session.
func (s *Session) Clear() {
	s.messages = nil
}

// Status returns the current health indicator.
func (s *Session) Status() Status {
	return s.status
}

// Degrade records an external rate/quota signal. The transition only
// applies from StatusHealthy; Degraded and Error never auto-recover
// until the session is recreated.
func (s *Session) Degrade() {
	if s.status == StatusHealthy {
		s.status = StatusDegraded
	}
}

// Fail records a store or completion failure. Applies from StatusHealthy
// and StatusDegraded; once in StatusError the session stays there.
func (s *Session) Fail() {
	s.status = StatusError
}
