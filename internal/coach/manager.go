package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/coachr/internal/debate"
	"github.com/MikeSquared-Agency/coachr/internal/feedback"
	"github.com/MikeSquared-Agency/coachr/internal/hermes"
	"github.com/MikeSquared-Agency/coachr/internal/llm"
)

const (
	// windowSize counts the current message, so at most windowSize-1
	// earlier messages are shown to the model.
	windowSize = 6
	// contextRunes is how much of the feedback text goes into the system prompt.
	contextRunes = 1000
)

// ErrNilSession is the only error Turn returns.
var ErrNilSession = errors.New("coach: nil session")

// Publisher emits domain events. A nil Publisher disables events.
type Publisher interface {
	Publish(subject string, data any) error
}

// Manager answers chat turns. A turn always produces a coach message: model
// failures are answered by Fallback.
type Manager struct {
	llm    llm.Completer
	events Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(completer llm.Completer, events Publisher, logger *slog.Logger) *Manager {
	return &Manager{
		llm:    completer,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// Reply is the coach's answer to one turn.
type Reply struct {
	Message  ChatMessage     `json:"message"`
	Fallback bool            `json:"fallback"`
	Failure  llm.FailureKind `json:"failure_kind,omitempty"`
}

// Turn appends userMessage to s, asks the model for a reply and appends
// that too. Failure is set when the reply came from Fallback.
func (m *Manager) Turn(ctx context.Context, s *Session, userMessage string) (Reply, error) {
	if s == nil {
		return Reply{}, ErrNilSession
	}

	s.append(RoleUser, userMessage, m.now().UTC())

	text, err := m.complete(ctx, s, userMessage)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("model returned an empty response")
	}

	var reply Reply
	if err != nil {
		kind := llm.Classify(err)
		m.logger.Warn("chat turn falling back",
			"session_id", s.ID,
			"failure_kind", kind,
			"error", err,
		)
		text = Fallback(userMessage, s.Context, s.Topic)
		reply.Fallback = true
		reply.Failure = kind
		m.publish(hermes.SubjectChatFallback, hermes.ChatFallback{
			SessionID:   s.ID.String(),
			FailureKind: string(kind),
			Timestamp:   hermes.Now(),
		})
	}

	reply.Message = s.append(RoleCoach, text, m.now().UTC())
	m.logger.Debug("chat turn answered",
		"session_id", s.ID,
		"index", reply.Message.Index,
		"fallback", reply.Fallback,
	)
	return reply, nil
}

// Reset clears the session's messages and announces it.
func (m *Manager) Reset(s *Session, reason string) {
	had := len(s.Messages)
	s.Reset()
	m.logger.Info("session reset", "session_id", s.ID, "reason", reason, "cleared", had)
	m.publish(hermes.SubjectSessionReset, hermes.SessionReset{
		SessionID: s.ID.String(),
		Reason:    reason,
		Timestamp: hermes.Now(),
	})
}

// Rebase points the session at new feedback. Messages about the old
// feedback are dropped.
func (m *Manager) Rebase(s *Session, result *feedback.Result) {
	had := len(s.Messages)
	s.Rebase(result)
	if had == 0 {
		return
	}
	m.logger.Info("session rebased", "session_id", s.ID, "cleared", had)
	m.publish(hermes.SubjectSessionReset, hermes.SessionReset{
		SessionID: s.ID.String(),
		Reason:    "new_feedback",
		Timestamp: hermes.Now(),
	})
}

func (m *Manager) complete(ctx context.Context, s *Session, userMessage string) (string, error) {
	if m.llm == nil {
		return "", errors.New("no model configured")
	}
	return m.llm.Complete(ctx, []llm.Message{
		llm.NewMessage(llm.RoleSystem, systemPrompt(s.Topic, s.Context)),
		llm.NewMessage(llm.RoleUser, turnPrompt(renderWindow(s.Messages), userMessage)),
	})
}

func (m *Manager) publish(subject string, data any) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(subject, data); err != nil {
		m.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

// renderWindow renders the messages before the last one that fall inside
// the recency window, oldest first.
func renderWindow(msgs []ChatMessage) string {
	if len(msgs) < 2 {
		return ""
	}
	start := len(msgs) - windowSize
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for _, msg := range msgs[start : len(msgs)-1] {
		speaker := "Coach"
		if msg.Role == RoleUser {
			speaker = "Student"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, msg.Content)
	}
	return b.String()
}

func systemPrompt(topic, feedbackText string) string {
	return fmt.Sprintf(chatSystemPrompt, debate.Topic(topic), truncateRunes(feedbackText, contextRunes))
}

func turnPrompt(window, userMessage string) string {
	return fmt.Sprintf(chatTurnPrompt, window, userMessage)
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

const chatSystemPrompt = `You are an expert debate coach having a conversation with a student about their debate performance.

CONTEXT:
- Debate Topic: %s
- Initial Analysis: %s...

Your role is to:
1. Provide helpful, specific advice about debate techniques
2. Answer questions about the initial feedback clearly
3. Suggest practical improvement strategies
4. Be encouraging and constructive
5. Keep responses concise but informative (2-3 paragraphs max)

Conversation style:
- Friendly and supportive
- Use relevant examples when helpful
- Focus on actionable advice
- Reference the initial analysis when relevant`

const chatTurnPrompt = `Previous conversation:
%s

Current student question: %s

Please provide a helpful response as their debate coach.`
