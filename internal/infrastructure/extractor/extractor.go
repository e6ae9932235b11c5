// Package extractor converts uploaded binary documents into plain text.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"

	"github.com/banguela/school-admin/internal/core/domain"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, payload []byte, kind domain.MediaKind) (string, error) {
	switch kind {
	case domain.MediaPlainText:
		return extractPlainText(payload)
	case domain.MediaPDF:
		return extractPDF(payload)
	case domain.MediaWordProcessor:
		return extractDOCX(payload)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract", fmt.Errorf("media kind %q", kind))
	}
}

func extractPlainText(payload []byte) (string, error) {
	if !utf8.Valid(payload) {
		return "", domain.WrapError(domain.ErrDecoding, "extract plain text", fmt.Errorf("payload is not valid UTF-8"))
	}
	// Valid text passes through byte for byte, whitespace included.
	return string(payload), nil
}

func extractPDF(payload []byte) (text string, err error) {
	// The pdf library panics on some malformed xref tables instead of
	// returning an error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.WrapError(domain.ErrExtraction, "extract pdf", fmt.Errorf("malformed document: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "extract pdf", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A page that yields no extractable text contributes nothing.
			continue
		}
		if pageText = strings.TrimSpace(pageText); pageText != "" {
			pages = append(pages, pageText)
		}
	}
	return strings.Join(pages, "\n"), nil
}

func extractDOCX(payload []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "extract docx", err)
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		paragraph, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := strings.TrimSpace(paragraph.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}
