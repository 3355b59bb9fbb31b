package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type topic struct{ name string }

func (t topic) String() string { return "topic:" + t.name }

func TestNewMessage_CoercesContent(t *testing.T) {
	assert.Equal(t, "hello", NewMessage(RoleUser, "hello").Content)
	assert.Equal(t, "", NewMessage(RoleUser, nil).Content)
	assert.Equal(t, "42", NewMessage(RoleUser, 42).Content)
	assert.Equal(t, "3.5", NewMessage(RoleUser, 3.5).Content)
	assert.Equal(t, "true", NewMessage(RoleUser, true).Content)
	assert.Equal(t, "raw", NewMessage(RoleUser, []byte("raw")).Content)
	assert.Equal(t, "topic:ai", NewMessage(RoleSystem, topic{name: "ai"}).Content)
	assert.Equal(t, "map[a:1]", NewMessage(RoleUser, map[string]int{"a": 1}).Content)
}

func TestClassifyFailure(t *testing.T) {
	cases := []struct {
		msg  string
		want FailureKind
	}{
		{"api error 401 Unauthorized: invalid key", AuthenticationFailed},
		{"Authentication failed for deployment", AuthenticationFailed},
		{"api error 404 Not Found: deployment missing", EndpointNotFound},
		{"resource NOT FOUND", EndpointNotFound},
		{"status 404", EndpointNotFound},
		{"dial tcp 10.0.0.1:443: connect: connection refused", ConnectionFailed},
		{"context deadline exceeded (Client.Timeout exceeded while awaiting headers)", ConnectionFailed},
		{"api error 500 Internal Server Error: overloaded", UpstreamError},
		{"", UpstreamError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyFailure(tc.msg), tc.msg)
	}
}

func TestClassifyFailure_PriorityOrder(t *testing.T) {
	// Authentication outranks connection when both appear.
	assert.Equal(t, AuthenticationFailed, ClassifyFailure("connection closed: unauthorized"))
	assert.Equal(t, EndpointNotFound, ClassifyFailure("timeout after 404"))
}

func TestClassify_Error(t *testing.T) {
	assert.Equal(t, ConnectionFailed, Classify(errors.New("read: connection reset by peer")))
	assert.Equal(t, UpstreamError, Classify(nil))
}

func TestGuidance_NeverEmpty(t *testing.T) {
	for _, k := range []FailureKind{AuthenticationFailed, EndpointNotFound, ConnectionFailed, UpstreamError, "other"} {
		assert.NotEmpty(t, k.Guidance(), string(k))
	}
}

func TestCompleterFunc(t *testing.T) {
	var got []Message
	c := CompleterFunc(func(_ context.Context, msgs []Message) (string, error) {
		got = msgs
		return "ok", nil
	})
	out, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	require.Len(t, got, 1)
	assert.Equal(t, "hi", got[0].Content)
}
