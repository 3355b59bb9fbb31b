package api

import (
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/coachr/internal/extractor"
	"github.com/MikeSquared-Agency/coachr/internal/feedback"
	"github.com/MikeSquared-Agency/coachr/internal/session"
)

const (
	kindInvalidRequest    = "invalid_request"
	kindUploadTooLarge    = "upload_too_large"
	kindUnsupportedFormat = "unsupported_format"
	kindDecodeError       = "decode_error"
	kindExtractionError   = "extraction_error"
	kindEmptyContent      = "empty_content"
	kindSessionNotFound   = "session_not_found"
	kindTranscriptionOff  = "transcription_disabled"
	kindInternal          = "internal_error"
)

type errorBody struct {
	Kind    string `json:"error_kind"`
	Message string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorBody{Kind: kind, Message: msg})
}

// writeFailure maps a feedback or session error to a response. Upstream
// failure text is logged by the caller and never written to the client.
func writeFailure(w http.ResponseWriter, err error) {
	var (
		decErr *extractor.DecodeError
		extErr *extractor.ExtractionError
		svcErr *feedback.ServiceError
	)
	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, kindUnsupportedFormat, "unsupported file type: upload a .txt, .docx or .pdf file")
	case errors.As(err, &decErr):
		writeError(w, http.StatusBadRequest, kindDecodeError, decErr.Error())
	case errors.As(err, &extErr):
		writeError(w, http.StatusBadRequest, kindExtractionError, extErr.Error())
	case errors.Is(err, feedback.ErrEmptyContent):
		writeError(w, http.StatusBadRequest, kindEmptyContent, "no text could be found in the upload")
	case errors.Is(err, feedback.ErrTranscriptionDisabled):
		writeError(w, http.StatusServiceUnavailable, kindTranscriptionOff, "audio feedback is not available on this server")
	case errors.As(err, &svcErr):
		writeError(w, http.StatusBadGateway, string(svcErr.Kind), svcErr.Error())
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, kindSessionNotFound, "session not found or expired")
	default:
		writeError(w, http.StatusInternalServerError, kindInternal, "internal error")
	}
}
