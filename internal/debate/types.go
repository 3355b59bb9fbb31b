package debate

import "strings"

// Unspecified is substituted into prompts for a missing topic or side.
const Unspecified = "(unspecified)"

// Side is the team the feedback focuses on.
type Side string

const (
	SideUnspecified Side = ""
	SidePro         Side = "PRO"
	SideCon         Side = "CON"
)

// ParseSide accepts pro/con and the aff/neg spellings, case-insensitively.
// Anything else is SideUnspecified.
func ParseSide(s string) Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pro", "aff", "affirmative":
		return SidePro
	case "con", "neg", "negative":
		return SideCon
	default:
		return SideUnspecified
	}
}

// Label renders the side for a prompt.
func (s Side) Label() string {
	if s == SideUnspecified {
		return Unspecified
	}
	return string(s)
}

// SourceKind is where the feedback content came from.
type SourceKind string

const (
	AudioTranscript SourceKind = "audio_transcript"
	CaseText        SourceKind = "case_text"
)

// UploadFormat is how a written case was prepared. Only meaningful for CaseText.
type UploadFormat string

const (
	Plaintext  UploadFormat = "plaintext"
	CardFormat UploadFormat = "card_format"
)

// ParseUploadFormat maps the form values used by the upload page. Unknown
// values fall back to Plaintext.
func ParseUploadFormat(s string) UploadFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "card format", "card_format", "card-format", "card", "cards":
		return CardFormat
	default:
		return Plaintext
	}
}

// Topic returns the resolution or the placeholder when it is blank.
func Topic(resolution string) string {
	if strings.TrimSpace(resolution) == "" {
		return Unspecified
	}
	return strings.TrimSpace(resolution)
}
