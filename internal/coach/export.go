package coach

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MikeSquared-Agency/coachr/internal/debate"
)

const noConversation = "No conversation to export."

// Export renders the session as a plain-text transcript.
func Export(s *Session, now time.Time) string {
	if s == nil || len(s.Messages) == 0 {
		return noConversation
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Debate Topic: %s\n", debate.Topic(s.Topic))
	fmt.Fprintf(&b, "Date: %s\n", now.Format(time.DateTime))
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n\n")
	for _, msg := range s.Messages {
		speaker := "AI Coach"
		if msg.Role == RoleUser {
			speaker = "You"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", speaker, msg.Content)
	}
	return b.String()
}

// SessionStats summarizes a session's messages.
type SessionStats struct {
	TotalMessages int   `json:"total_messages"`
	UserQuestions int   `json:"user_questions"`
	AverageLength int   `json:"average_length"`
	State         State `json:"state"`
}

// Stats counts messages. AverageLength is in characters, rounded down.
func Stats(s *Session) SessionStats {
	st := SessionStats{State: StateEmpty}
	if s == nil {
		return st
	}
	st.State = s.State()
	st.TotalMessages = len(s.Messages)
	total := 0
	for _, msg := range s.Messages {
		if msg.Role == RoleUser {
			st.UserQuestions++
		}
		total += utf8.RuneCountInString(msg.Content)
	}
	if st.TotalMessages > 0 {
		st.AverageLength = total / st.TotalMessages
	}
	return st
}

var suggestions = []string{
	"How can I improve my argument structure?",
	"What are the strongest points in my case?",
	"How can I better address counterarguments?",
	"What should I focus on practicing next?",
	"Can you explain the feedback about my pacing?",
	"How do I make my impacts more compelling?",
}

// Suggestions returns starter questions for an empty chat.
func Suggestions() []string {
	out := make([]string, len(suggestions))
	copy(out, suggestions)
	return out
}
