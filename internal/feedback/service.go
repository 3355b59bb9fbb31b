package feedback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/coachr/internal/debate"
	"github.com/MikeSquared-Agency/coachr/internal/extractor"
	"github.com/MikeSquared-Agency/coachr/internal/hermes"
	"github.com/MikeSquared-Agency/coachr/internal/llm"
	"github.com/MikeSquared-Agency/coachr/internal/prompt"
)

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Publisher emits domain events. A nil Publisher disables events.
type Publisher interface {
	Publish(subject string, data any) error
}

// Service runs extract -> prompt -> model for one request at a time. It does
// not retry; retry policy belongs to the model client.
type Service struct {
	llm         llm.Completer
	transcriber Transcriber
	events      Publisher
	logger      *slog.Logger
	now         func() time.Time
}

func New(completer llm.Completer, transcriber Transcriber, events Publisher, logger *slog.Logger) *Service {
	return &Service{
		llm:         completer,
		transcriber: transcriber,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
}

// GetFeedback asks the model for feedback on req.Content. Model failures are
// returned as *ServiceError.
func (s *Service) GetFeedback(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}
	if req.SourceKind == debate.AudioTranscript {
		req.UploadFormat = debate.Plaintext
	}

	p, err := prompt.Build(req.SourceKind, req.ResolutionTopic, req.Side, req.Content, req.UploadFormat)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	s.logger.Info("requesting feedback",
		"kind", req.SourceKind,
		"upload_format", req.UploadFormat,
		"side", req.Side,
		"text_len", len(req.Content),
	)

	text, err := s.llm.Complete(ctx, []llm.Message{
		llm.NewMessage(llm.RoleSystem, p.System),
		llm.NewMessage(llm.RoleUser, p.User),
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("model returned an empty response")
	}
	if err != nil {
		svcErr := serviceError(err)
		s.logger.Error("feedback generation failed",
			"kind", req.SourceKind,
			"failure_kind", svcErr.Kind,
			"error", err,
		)
		return nil, svcErr
	}

	result := &Result{
		ID:          uuid.New(),
		Text:        text,
		Request:     req,
		GeneratedAt: s.now().UTC(),
	}

	s.logger.Info("feedback generated",
		"result_id", result.ID,
		"kind", req.SourceKind,
		"feedback_len", len(text),
	)
	s.publish(hermes.SubjectFeedbackGenerated, hermes.FeedbackGenerated{
		ResultID:     result.ID.String(),
		SourceKind:   string(req.SourceKind),
		UploadFormat: string(req.UploadFormat),
		Side:         string(req.Side),
		TextLen:      len(text),
		Timestamp:    result.GeneratedAt.Format(time.RFC3339),
	})

	return result, nil
}

// Document is an uploaded written case.
type Document struct {
	Filename  string
	Extension string
	Data      []byte
	Topic     string
	Side      debate.Side
	Format    debate.UploadFormat
	// LossyText replaces invalid UTF-8 in txt uploads instead of failing.
	LossyText bool
}

// FromDocument extracts the case text and requests feedback on it.
// Extraction failures are returned as the extractor's typed errors.
func (s *Service) FromDocument(ctx context.Context, doc Document) (*Result, *Diagnostics, error) {
	ext := doc.Extension
	if ext == "" {
		ext = extensionOf(doc.Filename)
	}

	text, err := extractor.Extract(doc.Data, ext, doc.Format)
	var decErr *extractor.DecodeError
	if doc.LossyText && errors.As(err, &decErr) {
		s.logger.Warn("replacing invalid UTF-8 in upload", "filename", doc.Filename, "offset", decErr.Offset)
		text, err = extractor.DecodeLossy(doc.Data), nil
	}
	if err != nil {
		s.logger.Warn("extraction failed", "filename", doc.Filename, "ext", ext, "error", err)
		return nil, nil, err
	}

	diag := &Diagnostics{
		Filename:      doc.Filename,
		UploadFormat:  string(doc.Format),
		TextLength:    len(text),
		ExtractedText: text,
	}

	result, err := s.GetFeedback(ctx, Request{
		ResolutionTopic: doc.Topic,
		Side:            doc.Side,
		SourceKind:      debate.CaseText,
		UploadFormat:    doc.Format,
		Content:         text,
	})
	if err != nil {
		return nil, diag, err
	}
	return result, diag, nil
}

// Audio is an uploaded round recording.
type Audio struct {
	Filename string
	Data     []byte
	Topic    string
	Side     debate.Side
}

// FromAudio transcribes the recording and requests round feedback on the
// transcript.
func (s *Service) FromAudio(ctx context.Context, audio Audio) (*Result, *Diagnostics, error) {
	if s.transcriber == nil {
		return nil, nil, ErrTranscriptionDisabled
	}
	if len(audio.Data) == 0 {
		return nil, nil, ErrEmptyContent
	}

	transcript, err := s.transcriber.Transcribe(ctx, audio.Filename, bytes.NewReader(audio.Data))
	if err != nil {
		svcErr := serviceError(err)
		s.logger.Error("transcription failed", "filename", audio.Filename, "failure_kind", svcErr.Kind, "error", err)
		return nil, nil, svcErr
	}

	diag := &Diagnostics{
		Filename:      audio.Filename,
		UploadFormat:  string(debate.Plaintext),
		TextLength:    len(transcript),
		ExtractedText: transcript,
	}

	result, err := s.GetFeedback(ctx, Request{
		ResolutionTopic: audio.Topic,
		Side:            audio.Side,
		SourceKind:      debate.AudioTranscript,
		Content:         transcript,
	})
	if err != nil {
		return nil, diag, err
	}
	return result, diag, nil
}

func (s *Service) publish(subject string, data any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(subject, data); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func extensionOf(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return extractor.NormalizeExtension(filename[i+1:])
}
