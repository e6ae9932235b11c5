package domain

import (
	"path/filepath"
	"strings"
)

// MediaKind is the closed set of upload formats the extractor understands.
// It is decided once at the upload boundary; everything downstream matches
// on the variant instead of re-inspecting type strings.
type MediaKind string

const (
	MediaPlainText     MediaKind = "plain_text"
	MediaPDF           MediaKind = "pdf"
	MediaWordProcessor MediaKind = "word_processor"
	MediaUnsupported   MediaKind = "unsupported"
)

// DetectMediaKind classifies an upload from its filename extension, falling
// back to the declared content type when the extension is missing.
func DetectMediaKind(filename, contentType string) MediaKind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return MediaPlainText
	case ".pdf":
		return MediaPDF
	case ".docx":
		return MediaWordProcessor
	}

	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "text/plain":
		return MediaPlainText
	case "application/pdf":
		return MediaPDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/msword":
		return MediaWordProcessor
	}
	return MediaUnsupported
}

// ExtractedDocument is the transient result of one upload. It is consumed by
// the report composer and never persisted.
type ExtractedDocument struct {
	Filename string    `json:"filename"`
	Kind     MediaKind `json:"kind"`
	Text     string    `json:"text"`
}

// Empty reports whether extraction yielded no text. This is a modeled
// non-error state, distinct from an extraction failure.
func (d ExtractedDocument) Empty() bool {
	return strings.TrimSpace(d.Text) == ""
}

// Summarize returns the document text truncated for preview display.
func (d ExtractedDocument) Summarize(maxChars int) string {
	runes := []rune(d.Text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return d.Text
	}
	return string(runes[:maxChars]) + "..."
}
