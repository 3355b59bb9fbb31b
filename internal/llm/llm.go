package llm

import (
	"context"
	"fmt"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry sent to a chat model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewMessage builds a message from an arbitrary content value. Non-string
// content is rendered with fmt.Sprint and nil becomes the empty string, so a
// message never carries anything but text.
func NewMessage(role string, content any) Message {
	return Message{Role: role, Content: Text(content)}
}

// Text coerces v to its string representation.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Completer is a chat model that turns an ordered message list into a single
// response.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, messages []Message) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}
