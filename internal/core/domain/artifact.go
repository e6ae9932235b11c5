package domain

import (
	"strings"
	"time"
)

// ExportFormat tags the target document format of a generated report.
type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatDOCX ExportFormat = "docx"
	FormatPPTX ExportFormat = "pptx"
	FormatXLSX ExportFormat = "xlsx"
)

// ParseExportFormat validates a user-supplied format tag.
func ParseExportFormat(raw string) (ExportFormat, bool) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatPDF:
		return FormatPDF, true
	case FormatDOCX:
		return FormatDOCX, true
	case FormatPPTX:
		return FormatPPTX, true
	case FormatXLSX:
		return FormatXLSX, true
	}
	return "", false
}

func (f ExportFormat) Extension() string {
	return "." + string(f)
}

func (f ExportFormat) MediaType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPPTX:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

type ChartKind string

const (
	ChartBar ChartKind = "bar"
	ChartPie ChartKind = "pie"
)

// ChartArtifact is one rendered visualization: the underlying aggregate data
// plus the raster image produced from it. Data is kept alongside the image so
// identical inputs are verifiable as identical charts regardless of pixels.
type ChartArtifact struct {
	Kind  ChartKind
	Title string
	Data  []ScoreEntry
	PNG   []byte
}

// Table is the tabular block of a composed report: one header row plus rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// ComposeRequest carries everything the report composer needs for one artifact.
type ComposeRequest struct {
	Format   ExportFormat
	Title    string
	BodyText string
	Table    *Table
	Charts   []ChartArtifact
	Students []Student
}

// ExportArtifact is a generated downloadable document held in session memory
// until the session ends.
type ExportArtifact struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Format    ExportFormat `json:"format"`
	MediaType string       `json:"media_type"`
	Payload   []byte       `json:"-"`
	CreatedAt time.Time    `json:"created_at"`
}

// ArtifactName builds the suggested download filename from a source name stem.
func ArtifactName(stem string, format ExportFormat) string {
	stem = strings.TrimSpace(stem)
	if i := strings.LastIndex(stem, "."); i > 0 {
		stem = stem[:i]
	}
	if stem == "" {
		stem = "relatorio"
	}
	return stem + format.Extension()
}
