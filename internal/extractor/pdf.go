package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/MikeSquared-Agency/coachr/internal/debate"
)

// pageSource is the slice of a PDF reader the text assembly needs. Pages are
// numbered from 1.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

type pdfDocument struct {
	r *pdf.Reader
}

func (d pdfDocument) NumPage() int { return d.r.NumPage() }

func (d pdfDocument) PageText(n int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", n, rec)
		}
	}()
	p := d.r.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func openPDF(data []byte) (doc pageSource, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return pdfDocument{r: r}, nil
}

func extractPDF(data []byte, format debate.UploadFormat) (string, error) {
	doc, err := openPDF(data)
	if err != nil {
		return "", &ExtractionError{Format: "pdf", Cause: err}
	}
	return assemblePDF(doc, format)
}

func assemblePDF(doc pageSource, format debate.UploadFormat) (string, error) {
	var pages []string
	for n := 1; n <= doc.NumPage(); n++ {
		text, err := doc.PageText(n)
		if err != nil {
			return "", &ExtractionError{Format: "pdf", Cause: err}
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if format == debate.CardFormat {
			text = fmt.Sprintf("[PAGE %d]\n%s", n, text)
		}
		pages = append(pages, text)
	}

	if len(pages) == 0 {
		return "", &ExtractionError{Format: "pdf", Cause: errors.New("no extractable text layer")}
	}
	if format == debate.CardFormat {
		return pdfLimitedNotice + strings.Join(pages, "\n\n"), nil
	}
	return strings.Join(pages, "\n"), nil
}
