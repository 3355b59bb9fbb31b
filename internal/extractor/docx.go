package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/coachr/internal/debate"
)

const (
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	documentPart = "word/document.xml"

	// Run sizes are stored in half-points.
	emphasisHalfPoints = 22
)

type docxRun struct {
	Text      string
	Highlight string
	ShadeFill string
	Size      int
}

// card reports whether the run carries delivery formatting. Font size is a
// weak signal: 11pt is a common body size, so this over-includes on some
// documents.
func (r docxRun) card() bool {
	if r.Highlight != "" && !strings.EqualFold(r.Highlight, "none") {
		return true
	}
	switch strings.ToLower(r.ShadeFill) {
	case "", "auto", "ffffff", "none":
	default:
		return true
	}
	return r.Size >= emphasisHalfPoints
}

type docxParagraph struct {
	Runs []docxRun
}

func (p docxParagraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func (p docxParagraph) cardText() string {
	var b strings.Builder
	for _, r := range p.Runs {
		if r.card() {
			b.WriteString(r.Text)
		}
	}
	return b.String()
}

func extractDOCX(data []byte, format debate.UploadFormat) (string, error) {
	paras, err := readDocxParagraphs(data)
	if err != nil {
		return "", &ExtractionError{Format: "docx", Cause: err}
	}

	full := docxPlainText(paras)
	if full == "" {
		return "", &ExtractionError{Format: "docx", Cause: errors.New("document contains no text")}
	}
	if format != debate.CardFormat {
		return full, nil
	}

	var cards []string
	for _, p := range paras {
		if t := p.cardText(); strings.TrimSpace(t) != "" {
			cards = append(cards, t)
		}
	}
	if len(cards) == 0 {
		return noFormattedTextNotice + full, nil
	}
	return strings.Join(cards, "\n"), nil
}

func docxPlainText(paras []docxParagraph) string {
	var lines []string
	for _, p := range paras {
		if t := p.text(); strings.TrimSpace(t) != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

func readDocxParagraphs(data []byte) ([]docxParagraph, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx container: %w", err)
	}
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("missing %s", documentPart)
	}
	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", documentPart, err)
	}
	defer rc.Close()
	return parseDocumentXML(rc)
}

// parseDocumentXML walks the WordprocessingML body in document order. Nested
// paragraphs (text boxes) are folded into the enclosing paragraph.
func parseDocumentXML(r io.Reader) ([]docxParagraph, error) {
	dec := xml.NewDecoder(r)

	var (
		paras     []docxParagraph
		cur       docxParagraph
		run       docxRun
		paraDepth int
		inRun     bool
		inRunPr   bool
		// Properties inside rPrChange are the run's formatting before a
		// tracked change.
		changeDepth int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", documentPart, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != wordNS {
				continue
			}
			switch el.Name.Local {
			case "p":
				if paraDepth == 0 {
					cur = docxParagraph{}
				}
				paraDepth++
			case "r":
				if paraDepth > 0 {
					inRun = true
					run = docxRun{}
				}
			case "rPr":
				if changeDepth == 0 {
					inRunPr = inRun
				}
			case "rPrChange":
				changeDepth++
			case "highlight":
				if inRunPr && changeDepth == 0 {
					run.Highlight = wordAttr(el, "val")
				}
			case "shd":
				if inRunPr && changeDepth == 0 {
					run.ShadeFill = wordAttr(el, "fill")
				}
			case "sz":
				if inRunPr && changeDepth == 0 {
					if n, err := strconv.Atoi(wordAttr(el, "val")); err == nil {
						run.Size = n
					}
				}
			case "t":
				if inRun {
					var s string
					if err := dec.DecodeElement(&s, &el); err != nil {
						return nil, fmt.Errorf("parse run text: %w", err)
					}
					run.Text += s
				}
			case "tab":
				if inRun && !inRunPr {
					run.Text += "\t"
				}
			case "br", "cr":
				if inRun && !inRunPr {
					run.Text += "\n"
				}
			}
		case xml.EndElement:
			if el.Name.Space != wordNS {
				continue
			}
			switch el.Name.Local {
			case "rPrChange":
				if changeDepth > 0 {
					changeDepth--
				}
			case "rPr":
				if changeDepth == 0 {
					inRunPr = false
				}
			case "r":
				if inRun {
					cur.Runs = append(cur.Runs, run)
					inRun = false
				}
			case "p":
				if paraDepth > 0 {
					paraDepth--
					if paraDepth == 0 {
						paras = append(paras, cur)
					}
				}
			}
		}
	}
	return paras, nil
}

func wordAttr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local && (a.Name.Space == wordNS || a.Name.Space == "") {
			return a.Value
		}
	}
	return ""
}
