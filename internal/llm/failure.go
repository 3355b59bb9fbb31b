package llm

import "strings"

// FailureKind classifies why a model call failed.
type FailureKind string

const (
	AuthenticationFailed FailureKind = "authentication_failed"
	EndpointNotFound     FailureKind = "endpoint_not_found"
	ConnectionFailed     FailureKind = "connection_failed"
	UpstreamError        FailureKind = "upstream_error"
)

// failureKeywords is checked in order; the first rule with a matching keyword
// wins. Keywords are lowercase.
var failureKeywords = []struct {
	kind     FailureKind
	keywords []string
}{
	{AuthenticationFailed, []string{"authentication", "unauthorized"}},
	{EndpointNotFound, []string{"not found", "404"}},
	{ConnectionFailed, []string{"connection", "timeout"}},
}

// ClassifyFailure maps a raw failure message to a FailureKind by
// case-insensitive substring match. Unmatched messages are UpstreamError.
func ClassifyFailure(msg string) FailureKind {
	lower := strings.ToLower(msg)
	for _, rule := range failureKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.kind
			}
		}
	}
	return UpstreamError
}

// Classify is ClassifyFailure over an error. A nil error is UpstreamError.
func Classify(err error) FailureKind {
	if err == nil {
		return UpstreamError
	}
	return ClassifyFailure(err.Error())
}

// Guidance is the user-facing explanation for the kind. It never includes
// the upstream message.
func (k FailureKind) Guidance() string {
	switch k {
	case AuthenticationFailed:
		return "The AI service rejected our credentials. Please check the configured API key."
	case EndpointNotFound:
		return "The AI service endpoint was not found. Please check the configured endpoint URL and deployment name."
	case ConnectionFailed:
		return "Could not reach the AI service. Please check your internet connection and the endpoint URL, then try again."
	default:
		return "The AI service returned an error while generating feedback. Please try again shortly."
	}
}
