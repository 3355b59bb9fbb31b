package extractor

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MikeSquared-Agency/coachr/internal/debate"
)

// ErrUnsupportedFormat is returned for extensions other than txt, docx and pdf.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// DecodeError reports a text upload that is not valid UTF-8.
type DecodeError struct {
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to decode text file: invalid UTF-8 at byte %d", e.Offset)
}

// ExtractionError reports a document the parser could not read.
type ExtractionError struct {
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("error processing %s file: %v", strings.ToUpper(e.Format), e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

const (
	noFormattedTextNotice = "No bolded or highlighted text found. Full text:\n\n"
	pdfLimitedNotice      = "[NOTE: PDF formatting detection is limited. All text extracted. Consider using DOCX for better formatted text extraction.]\n\n"
)

// NormalizeExtension lowercases ext and strips a leading dot.
func NormalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// Extract turns an uploaded document into text. The result is never empty:
// a document with nothing to read fails with an ExtractionError.
func Extract(data []byte, ext string, format debate.UploadFormat) (string, error) {
	switch NormalizeExtension(ext) {
	case "txt":
		return extractTXT(data)
	case "docx":
		return extractDOCX(data, format)
	case "pdf":
		return extractPDF(data, format)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func extractTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", &DecodeError{Offset: firstInvalidUTF8(data)}
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Format: "txt", Cause: errors.New("file contains no text")}
	}
	return text, nil
}

// DecodeLossy is the opt-in alternative to the DecodeError failure: invalid
// bytes become U+FFFD.
func DecodeLossy(data []byte) string {
	return strings.ToValidUTF8(string(data), "\uFFFD")
}

func firstInvalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
