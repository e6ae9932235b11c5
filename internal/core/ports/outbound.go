package ports

import (
	"context"

	"github.com/banguela/school-admin/internal/core/domain"
)

// StudentRepository persists and reads student records. Records are
// append-only from the core's perspective.
type StudentRepository interface {
	Add(ctx context.Context, name string, scoreA, scoreB float64) (domain.Student, error)
	ListAll(ctx context.Context) ([]domain.Student, error)
}

// TextExtractor converts an uploaded binary payload into plain text.
// An empty result with a nil error means "nothing extracted".
type TextExtractor interface {
	Extract(ctx context.Context, payload []byte, kind domain.MediaKind) (string, error)
}

// ChartRenderer rasterizes aggregates into embeddable images. Read-only.
type ChartRenderer interface {
	RenderBar(entries []domain.ScoreEntry) (domain.ChartArtifact, error)
	RenderPie(dist domain.BandDistribution) (domain.ChartArtifact, error)
}

// ReportComposer assembles text, tabular data and chart images into one
// downloadable document. Partial documents are never returned.
type ReportComposer interface {
	Compose(ctx context.Context, req domain.ComposeRequest) (domain.ExportArtifact, error)
}

// ArtifactRegistry owns the ordered export artifacts of one session.
type ArtifactRegistry interface {
	Record(artifact domain.ExportArtifact)
	ListAll() []domain.ExportArtifact
	Get(id string) (domain.ExportArtifact, bool)
}

// SessionRegistries hands out the registry owned by a session, creating it
// on first use. Registries are never shared across sessions.
type SessionRegistries interface {
	Registry(sessionID string) ArtifactRegistry
}

// ContentGenerator is the opaque AI text transform. Output may still contain
// a delimited reasoning segment; callers strip it.
type ContentGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt, model string) (string, error)
}

// EventPublisher emits best-effort audit events. Failures are logged by the
// caller and never fail the triggering action.
type EventPublisher interface {
	PublishStudentRegistered(ctx context.Context, student domain.Student) error
	PublishExportGenerated(ctx context.Context, artifact domain.ExportArtifact) error
}
