package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/coachr/internal/coach"
	"github.com/MikeSquared-Agency/coachr/internal/debate"
	"github.com/MikeSquared-Agency/coachr/internal/feedback"
	"github.com/MikeSquared-Agency/coachr/internal/session"
)

type caseFeedbackResponse struct {
	SessionID     uuid.UUID             `json:"session_id"`
	Text          string                `json:"text"`
	ExtractedText string                `json:"extracted_text"`
	DebugInfo     *feedback.Diagnostics `json:"debug_info"`
}

type audioFeedbackResponse struct {
	SessionID uuid.UUID             `json:"session_id"`
	Text      string                `json:"text"`
	DebugInfo *feedback.Diagnostics `json:"debug_info"`
}

// caseFeedback handles POST /api/v1/feedback/case
func (s *Server) caseFeedback(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, diag, err := s.feedback.FromDocument(r.Context(), feedback.Document{
		Filename:  upload.filename,
		Extension: r.FormValue("file_extension"),
		Data:      upload.data,
		Topic:     r.FormValue("debate_topic"),
		Side:      debate.ParseSide(r.FormValue("side")),
		Format:    debate.ParseUploadFormat(r.FormValue("upload_format")),
		LossyText: r.FormValue("lossy_text") == "true",
	})
	if err != nil {
		s.logger.Warn("case feedback failed", "filename", upload.filename, "error", err)
		writeFailure(w, err)
		return
	}

	sessionID, err := s.attachResult(r.Context(), upload.sessionID, result)
	if err != nil {
		s.logger.Error("failed to save session", "error", err)
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, caseFeedbackResponse{
		SessionID:     sessionID,
		Text:          result.Text,
		ExtractedText: diag.ExtractedText,
		DebugInfo:     diag,
	})
}

// audioFeedback handles POST /api/v1/feedback/audio
func (s *Server) audioFeedback(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	result, diag, err := s.feedback.FromAudio(r.Context(), feedback.Audio{
		Filename: upload.filename,
		Data:     upload.data,
		Topic:    r.FormValue("debate_topic"),
		Side:     debate.ParseSide(r.FormValue("side")),
	})
	if err != nil {
		s.logger.Warn("audio feedback failed", "filename", upload.filename, "error", err)
		writeFailure(w, err)
		return
	}

	sessionID, err := s.attachResult(r.Context(), upload.sessionID, result)
	if err != nil {
		s.logger.Error("failed to save session", "error", err)
		writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, audioFeedbackResponse{
		SessionID: sessionID,
		Text:      result.Text,
		DebugInfo: diag,
	})
}

type upload struct {
	filename  string
	data      []byte
	sessionID uuid.UUID
}

// readUpload parses the multipart form and reads the "file" part. It writes
// the error response itself when it returns false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, kindUploadTooLarge, "upload exceeds the size limit")
			return upload{}, false
		}
		writeError(w, http.StatusBadRequest, kindInvalidRequest, "expected a multipart form upload")
		return upload{}, false
	}

	var u upload
	if raw := strings.TrimSpace(r.FormValue("session_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, kindInvalidRequest, "session_id is not a valid id")
			return upload{}, false
		}
		u.sessionID = id
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, kindInvalidRequest, "file is required")
		return upload{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, kindInvalidRequest, "could not read the uploaded file")
		return upload{}, false
	}
	u.filename = header.Filename
	u.data = data
	return u, true
}

// attachResult stores result as the context of session id, or of a new
// session when id is zero or unknown.
func (s *Server) attachResult(ctx context.Context, id uuid.UUID, result *feedback.Result) (uuid.UUID, error) {
	if id != uuid.Nil {
		unlock := s.locks.lock(id)
		defer unlock()

		sess, err := s.sessions.Get(ctx, id)
		switch {
		case err == nil:
			s.coach.Rebase(sess, result)
			return sess.ID, s.sessions.Save(ctx, sess)
		case !errors.Is(err, session.ErrNotFound):
			return uuid.Nil, err
		}
		s.logger.Info("session not found, starting a new one", "session_id", id)
	}

	sess := coach.NewSession(result)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return uuid.Nil, err
	}
	return sess.ID, nil
}
