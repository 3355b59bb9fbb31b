package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	// SubjectFeedbackGenerated is published after a feedback result is produced.
	SubjectFeedbackGenerated = "coachr.feedback.generated"
	// SubjectChatFallback is published when a chat turn was answered by the
	// offline responder instead of the model.
	SubjectChatFallback = "coachr.chat.fallback"
	// SubjectSessionReset is published when a session's messages are cleared.
	SubjectSessionReset = "coachr.session.reset"
)

// FeedbackGenerated is the payload for SubjectFeedbackGenerated.
type FeedbackGenerated struct {
	ResultID     string `json:"result_id"`
	SourceKind   string `json:"source_kind"`
	UploadFormat string `json:"upload_format"`
	Side         string `json:"side"`
	TextLen      int    `json:"text_len"`
	Timestamp    string `json:"timestamp"`
}

// ChatFallback is the payload for SubjectChatFallback.
type ChatFallback struct {
	SessionID   string `json:"session_id"`
	FailureKind string `json:"failure_kind"`
	Timestamp   string `json:"timestamp"`
}

// SessionReset is the payload for SubjectSessionReset.
type SessionReset struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("coachr"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Close() {
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
	}
}

// Now is the timestamp format used in event payloads.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
