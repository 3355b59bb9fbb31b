package prompt

import (
	"errors"
	"fmt"
	"sort"

	"github.com/MikeSquared-Agency/coachr/internal/debate"
)

// ErrUnknownTemplate is returned when no template serves a source kind.
var ErrUnknownTemplate = errors.New("unknown prompt template")

// Key selects a template.
type Key struct {
	Kind   debate.SourceKind
	Format debate.UploadFormat
}

func (k Key) String() string {
	return string(k.Kind) + "/" + string(k.Format)
}

// Prompt is the instruction/content pair sent to the model. User is always
// the extracted or transcribed content, unmodified.
type Prompt struct {
	System string
	User   string
}

type systemFunc func(topic, side string) string

var templates = map[Key]systemFunc{
	{debate.AudioTranscript, debate.Plaintext}: func(topic, side string) string {
		return fmt.Sprintf(roundSystemPrompt, topic, side)
	},
	{debate.CaseText, debate.Plaintext}: func(topic, side string) string {
		return fmt.Sprintf(caseSystemPrompt, topic, side)
	},
	{debate.CaseText, debate.CardFormat}: func(topic, side string) string {
		return fmt.Sprintf(cardSystemPrompt, topic, side)
	},
}

// KeyFor resolves the template key. Upload format only distinguishes written
// cases; a round transcript always uses the plaintext slot.
func KeyFor(kind debate.SourceKind, format debate.UploadFormat) Key {
	if kind == debate.AudioTranscript || format != debate.CardFormat {
		return Key{Kind: kind, Format: debate.Plaintext}
	}
	return Key{Kind: kind, Format: debate.CardFormat}
}

// Build returns the system instructions for the kind and format, with content
// passed through as the user message. A blank topic or side is rendered as
// "(unspecified)".
func Build(kind debate.SourceKind, topic string, side debate.Side, content string, format debate.UploadFormat) (Prompt, error) {
	key := KeyFor(kind, format)
	fn, ok := templates[key]
	if !ok {
		return Prompt{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, key)
	}
	return Prompt{
		System: fn(debate.Topic(topic), side.Label()),
		User:   content,
	}, nil
}

// Keys lists every registered template key in a stable order.
func Keys() []Key {
	keys := make([]Key, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}
