package coach

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/coachr/internal/feedback"
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleCoach Role = "coach"
)

// ParseRole maps client role names. "user" and "student" are the user;
// everything else ("assistant", "coach", "ai") is the coach.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "student":
		return RoleUser
	default:
		return RoleCoach
	}
}

// ChatMessage is one entry in a session. Index is the insertion position.
type ChatMessage struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Index   int       `json:"index"`
	SentAt  time.Time `json:"sent_at"`
}

// State is the session's position in its lifecycle.
type State string

const (
	StateEmpty  State = "EMPTY"
	StateActive State = "ACTIVE"
)

// Session is one chat about one piece of feedback. It is not safe for
// concurrent use; callers serialize turns per session.
type Session struct {
	ID        uuid.UUID        `json:"id"`
	Topic     string           `json:"topic"`
	Feedback  *feedback.Result `json:"feedback,omitempty"`
	Context   string           `json:"context"`
	Messages  []ChatMessage    `json:"messages"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewSession starts a chat about result.
func NewSession(result *feedback.Result) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Rebase(result)
	return s
}

// NewSessionFromContext builds a detached session from values a client kept
// itself: the feedback text, the topic, and the messages so far. Prior
// messages are re-indexed in the order given.
func NewSessionFromContext(topic, contextText string, prior []ChatMessage) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.New(),
		Topic:     topic,
		Context:   contextText,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, m := range prior {
		s.append(m.Role, m.Content, m.SentAt)
	}
	return s
}

// State reports EMPTY until the first message is added.
func (s *Session) State() State {
	if len(s.Messages) == 0 {
		return StateEmpty
	}
	return StateActive
}

// Reset clears the messages and keeps the feedback context.
func (s *Session) Reset() {
	s.Messages = nil
	s.UpdatedAt = time.Now().UTC()
}

// Rebase replaces the feedback context with result and discards the
// messages, which were about the old feedback.
func (s *Session) Rebase(result *feedback.Result) {
	s.Feedback = result
	if result != nil {
		s.Topic = result.Request.ResolutionTopic
		s.Context = result.Text
	}
	s.Messages = nil
	s.UpdatedAt = time.Now().UTC()
}

func (s *Session) append(role Role, content string, at time.Time) ChatMessage {
	msg := ChatMessage{
		Role:    role,
		Content: content,
		Index:   len(s.Messages),
		SentAt:  at,
	}
	s.Messages = append(s.Messages, msg)
	if at.After(s.UpdatedAt) {
		s.UpdatedAt = at
	}
	return msg
}
