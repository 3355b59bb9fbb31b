package coach

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallback_KeywordPriority(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"How do I IMPROVE my rebuttal?", "improvement strategies"},
		{"Can you help me practice?", "improvement strategies"},
		{"Give me a drill", "practice exercises"},
		{"What exercises should I do?", "practice exercises"},
		{"Was my case strong or weak?", "Likely Strengths"},
		{"Is that bad?", "Likely Strengths"},
		{"What is a turn?", "Thank you for your question"},
	}
	for _, tc := range cases {
		out := Fallback(tc.msg, "", "AI should be regulated")
		assert.Contains(t, out, tc.want, tc.msg)
	}
}

func TestFallback_AlwaysFlagsItself(t *testing.T) {
	for _, msg := range []string{"improve", "practice", "good", "other"} {
		assert.Contains(t, Fallback(msg, "ctx", "topic"), "temporarily unavailable")
	}
}

func TestFallback_UsesTopicAndFeedback(t *testing.T) {
	out := Fallback("help", "Your second contention lacks a warrant.", "Resolved: NATO")
	assert.Contains(t, out, `"Resolved: NATO"`)
	assert.Contains(t, out, "Your second contention lacks a warrant.")

	out = Fallback("help", "", "")
	assert.Contains(t, out, `"(unspecified)"`)
	assert.NotContains(t, out, "From your feedback")
}

func TestFallback_FeedbackExcerptKeepsTextVerbatim(t *testing.T) {
	out := Fallback("help", `Your "turn" on the impact was café-level weak.`, "t")
	assert.Contains(t, out, `From your feedback: "Your "turn" on the impact was café-level weak."`)
	assert.NotContains(t, out, `\"`)
	assert.NotContains(t, out, `\u`)
}

func TestFallback_EchoTruncated(t *testing.T) {
	msg := strings.Repeat("x", 150)
	out := Fallback(msg, "", "t")
	assert.Contains(t, out, strings.Repeat("x", 100)+`..."`)
	assert.NotContains(t, out, strings.Repeat("x", 101))
}

func TestFallback_Total(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"¿Cómo mejoro mi caso? 我的论点",
		"\xff\xfe invalid utf8",
		strings.Repeat("long question ", 100000),
	}
	for _, in := range inputs {
		var out string
		require.NotPanics(t, func() { out = Fallback(in, in, in) })
		assert.NotEmpty(t, strings.TrimSpace(out))
	}
}

func TestExport(t *testing.T) {
	assert.Equal(t, noConversation, Export(nil, time.Now()))
	assert.Equal(t, noConversation, Export(NewSessionFromContext("t", "c", nil), time.Now()))

	s := NewSessionFromContext("AI should be regulated", "c", []ChatMessage{
		{Role: RoleUser, Content: "How was my link?"},
		{Role: RoleCoach, Content: "Solid."},
	})
	out := Export(s, time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC))
	want := "Debate Topic: AI should be regulated\n" +
		"Date: 2026-03-01 09:30:00\n" +
		strings.Repeat("=", 50) + "\n\n" +
		"You: How was my link?\n\n" +
		"AI Coach: Solid.\n\n"
	assert.Equal(t, want, out)
}

func TestStats(t *testing.T) {
	assert.Equal(t, SessionStats{State: StateEmpty}, Stats(nil))

	s := NewSessionFromContext("t", "c", []ChatMessage{
		{Role: RoleUser, Content: "abcd"},
		{Role: RoleCoach, Content: "ab"},
		{Role: RoleUser, Content: "éé"},
	})
	st := Stats(s)
	assert.Equal(t, 3, st.TotalMessages)
	assert.Equal(t, 2, st.UserQuestions)
	assert.Equal(t, 2, st.AverageLength)
	assert.Equal(t, StateActive, st.State)
}

func TestSuggestions_ReturnsCopy(t *testing.T) {
	a := Suggestions()
	require.Len(t, a, 6)
	a[0] = "mutated"
	assert.NotEqual(t, "mutated", Suggestions()[0])
}
