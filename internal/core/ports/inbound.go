package ports

import (
	"context"

	"github.com/banguela/school-admin/internal/core/domain"
)

// StudentDirectory is the inbound contract for student registration and reads.
type StudentDirectory interface {
	Register(ctx context.Context, name string, scoreA, scoreB float64) (domain.Student, error)
	List(ctx context.Context) ([]domain.Student, error)
	Statistics(ctx context.Context) (domain.ClassStatistics, error)
}

// DocumentExporter is the inbound contract for the upload → extract →
// compose → register pipeline.
type DocumentExporter interface {
	ExtractText(ctx context.Context, filename, contentType string, payload []byte) (domain.ExtractedDocument, error)
	Export(ctx context.Context, registry ArtifactRegistry, req ExportRequest) (domain.ExportArtifact, error)
	RenderChart(ctx context.Context, kind domain.ChartKind) (domain.ChartArtifact, error)
}

// ExportRequest is one user-triggered export action.
type ExportRequest struct {
	Format        domain.ExportFormat
	SourceName    string
	BodyText      string
	IncludeTable  bool
	IncludeCharts bool
}

// ContentProducer is the inbound contract for AI-assisted content generation.
type ContentProducer interface {
	Produce(ctx context.Context, sourceText, language, model string) (string, error)
}
