package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/banguela/school-admin/internal/core/domain"
	"github.com/banguela/school-admin/internal/core/ports"
)

// ExportService runs the document pipeline: extract uploaded text, render
// chart images from store aggregates, compose the requested format and
// record the artifact in the caller's session registry.
type ExportService struct {
	repo      ports.StudentRepository
	extractor ports.TextExtractor
	renderer  ports.ChartRenderer
	composer  ports.ReportComposer
	events    ports.EventPublisher
}

func NewExportService(
	repo ports.StudentRepository,
	extractor ports.TextExtractor,
	renderer ports.ChartRenderer,
	composer ports.ReportComposer,
	events ports.EventPublisher,
) *ExportService {
	return &ExportService{
		repo:      repo,
		extractor: extractor,
		renderer:  renderer,
		composer:  composer,
		events:    events,
	}
}

func (s *ExportService) ExtractText(ctx context.Context, filename, contentType string, payload []byte) (domain.ExtractedDocument, error) {
	kind := domain.DetectMediaKind(filename, contentType)
	if kind == domain.MediaUnsupported {
		return domain.ExtractedDocument{}, domain.WrapError(domain.ErrUnsupportedFormat, "extract text", fmt.Errorf("file %q", filename))
	}

	text, err := s.extractor.Extract(ctx, payload, kind)
	if err != nil {
		return domain.ExtractedDocument{}, err
	}
	return domain.ExtractedDocument{Filename: filename, Kind: kind, Text: text}, nil
}

// RenderChart produces a single dashboard chart from current store data.
func (s *ExportService) RenderChart(ctx context.Context, kind domain.ChartKind) (domain.ChartArtifact, error) {
	students, err := s.repo.ListAll(ctx)
	if err != nil {
		return domain.ChartArtifact{}, err
	}
	stats := domain.StatisticsFor(students)

	if kind == domain.ChartPie {
		return s.renderer.RenderPie(stats.Distribution)
	}
	return s.renderer.RenderBar(stats.Averages)
}

func (s *ExportService) Export(ctx context.Context, registry ports.ArtifactRegistry, req ports.ExportRequest) (domain.ExportArtifact, error) {
	compose := domain.ComposeRequest{
		Format:   req.Format,
		Title:    req.SourceName,
		BodyText: req.BodyText,
	}
	if compose.Title == "" {
		compose.Title = "Relatório Escolar"
	}

	// The spreadsheet export is always the roster; the table and charts of
	// the other formats are opt-in per request.
	needStudents := req.Format == domain.FormatXLSX || req.IncludeTable || req.IncludeCharts
	var students []domain.Student
	if needStudents {
		var err error
		students, err = s.repo.ListAll(ctx)
		if err != nil {
			return domain.ExportArtifact{}, err
		}
	}
	compose.Students = students

	if req.IncludeTable {
		compose.Table = rosterTable(students)
	}

	if req.IncludeCharts {
		stats := domain.StatisticsFor(students)
		bar, err := s.renderer.RenderBar(stats.Averages)
		if err != nil {
			return domain.ExportArtifact{}, err
		}
		pie, err := s.renderer.RenderPie(stats.Distribution)
		if err != nil {
			return domain.ExportArtifact{}, err
		}
		compose.Charts = []domain.ChartArtifact{bar, pie}
	}

	artifact, err := s.composer.Compose(ctx, compose)
	if err != nil {
		return domain.ExportArtifact{}, err
	}

	registry.Record(artifact)

	if s.events != nil {
		if err := s.events.PublishExportGenerated(ctx, artifact); err != nil {
			slog.Warn("audit_publish_failed", "event", "export.generated", "artifact_id", artifact.ID, "error", err)
		}
	}
	return artifact, nil
}

func rosterTable(students []domain.Student) *domain.Table {
	table := &domain.Table{
		Header: []string{"Matrícula", "Nome", "1ª Nota", "2ª Nota", "Média"},
		Rows:   make([][]string, 0, len(students)),
	}
	for _, s := range students {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Name,
			strconv.FormatFloat(s.ScoreA, 'f', 2, 64),
			strconv.FormatFloat(s.ScoreB, 'f', 2, 64),
			strconv.FormatFloat(s.Average(), 'f', 2, 64),
		})
	}
	return table
}
