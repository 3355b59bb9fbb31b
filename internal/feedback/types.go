package feedback

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/coachr/internal/debate"
	"github.com/MikeSquared-Agency/coachr/internal/llm"
)

// ErrEmptyContent is returned when a request has nothing to analyze.
var ErrEmptyContent = errors.New("feedback content is empty")

// ErrTranscriptionDisabled is returned by FromAudio when the service has no
// transcriber.
var ErrTranscriptionDisabled = errors.New("audio transcription is not configured")

// Request is one feedback job.
type Request struct {
	ResolutionTopic string              `json:"resolution_topic"`
	Side            debate.Side         `json:"side"`
	SourceKind      debate.SourceKind   `json:"source_kind"`
	UploadFormat    debate.UploadFormat `json:"upload_format"`
	Content         string              `json:"content"`
}

// Result is the coach's feedback. It is not modified after creation.
type Result struct {
	ID          uuid.UUID `json:"id"`
	Text        string    `json:"text"`
	Request     Request   `json:"request"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Diagnostics describes how the content was obtained.
type Diagnostics struct {
	Filename      string `json:"filename"`
	UploadFormat  string `json:"upload_format"`
	TextLength    int    `json:"text_length"`
	ExtractedText string `json:"-"`
}

// ServiceError is a failed feedback generation. Error() is safe to show to
// the user; the upstream cause is only reachable through Unwrap.
type ServiceError struct {
	Kind llm.FailureKind
	Err  error
}

func (e *ServiceError) Error() string {
	return e.Kind.Guidance()
}

func (e *ServiceError) Unwrap() error { return e.Err }

func serviceError(err error) *ServiceError {
	return &ServiceError{Kind: llm.Classify(err), Err: err}
}
