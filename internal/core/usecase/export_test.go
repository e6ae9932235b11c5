package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/banguela/school-admin/internal/core/domain"
	"github.com/banguela/school-admin/internal/core/ports"
)

func newExportService(repo *fakeRepo, extractor *fakeExtractor, renderer *fakeRenderer, composer *fakeComposer) *ExportService {
	return NewExportService(repo, extractor, renderer, composer, nil)
}

func TestExtractTextUnsupported(t *testing.T) {
	svc := newExportService(&fakeRepo{}, &fakeExtractor{}, &fakeRenderer{}, &fakeComposer{})

	_, err := svc.ExtractText(context.Background(), "planilha.csv", "", []byte("a,b"))
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractTextTagsKind(t *testing.T) {
	svc := newExportService(&fakeRepo{}, &fakeExtractor{text: "conteúdo da aula"}, &fakeRenderer{}, &fakeComposer{})

	doc, err := svc.ExtractText(context.Background(), "aula.txt", "", []byte("conteúdo da aula"))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if doc.Kind != domain.MediaPlainText {
		t.Errorf("Kind = %q, want plain_text", doc.Kind)
	}
	if doc.Filename != "aula.txt" || doc.Text != "conteúdo da aula" {
		t.Errorf("doc = %+v", doc)
	}
}

func TestExportRecordsInOrder(t *testing.T) {
	svc := newExportService(&fakeRepo{}, &fakeExtractor{}, &fakeRenderer{}, &fakeComposer{})
	registry := &fakeRegistry{}
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		req := ports.ExportRequest{Format: domain.FormatPDF, SourceName: name, BodyText: "corpo"}
		if _, err := svc.Export(ctx, registry, req); err != nil {
			t.Fatalf("Export(%s): %v", name, err)
		}
	}

	artifacts := registry.ListAll()
	if len(artifacts) != 3 {
		t.Fatalf("recorded = %d, want 3", len(artifacts))
	}
	wantNames := []string{"a.pdf", "b.pdf", "c.pdf"}
	for i, want := range wantNames {
		if artifacts[i].Name != want {
			t.Errorf("artifacts[%d].Name = %q, want %q", i, artifacts[i].Name, want)
		}
	}
}

func TestExportCompositionFailureRecordsNothing(t *testing.T) {
	composer := &fakeComposer{err: domain.WrapError(domain.ErrComposition, "compose", errors.New("boom"))}
	svc := newExportService(&fakeRepo{}, &fakeExtractor{}, &fakeRenderer{}, composer)
	registry := &fakeRegistry{}

	_, err := svc.Export(context.Background(), registry, ports.ExportRequest{Format: domain.FormatDOCX, BodyText: "x"})
	if !domain.IsKind(err, domain.ErrComposition) {
		t.Fatalf("err = %v, want ErrComposition", err)
	}
	if len(registry.ListAll()) != 0 {
		t.Fatal("failed export must not be recorded")
	}
}

func TestExportDefaultsTitle(t *testing.T) {
	composer := &fakeComposer{}
	svc := newExportService(&fakeRepo{}, &fakeExtractor{}, &fakeRenderer{}, composer)

	if _, err := svc.Export(context.Background(), &fakeRegistry{}, ports.ExportRequest{Format: domain.FormatPDF}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if composer.seen[0].Title != "Relatório Escolar" {
		t.Fatalf("Title = %q, want default", composer.seen[0].Title)
	}
}

func TestExportWithTableAndCharts(t *testing.T) {
	repo := &fakeRepo{students: []domain.Student{
		{ID: 1, Name: "Ana", ScoreA: 9, ScoreB: 8},
		{ID: 2, Name: "Bruno", ScoreA: 4, ScoreB: 5},
	}}
	renderer := &fakeRenderer{}
	composer := &fakeComposer{}
	svc := newExportService(repo, &fakeExtractor{}, renderer, composer)

	req := ports.ExportRequest{
		Format:        domain.FormatPDF,
		SourceName:    "turma.txt",
		BodyText:      "resumo",
		IncludeTable:  true,
		IncludeCharts: true,
	}
	if _, err := svc.Export(context.Background(), &fakeRegistry{}, req); err != nil {
		t.Fatalf("Export: %v", err)
	}

	got := composer.seen[0]
	if got.Table == nil {
		t.Fatal("compose request should carry the roster table")
	}
	if len(got.Table.Rows) != 2 {
		t.Errorf("table rows = %d, want 2", len(got.Table.Rows))
	}
	if got.Table.Rows[0][4] != "8.50" {
		t.Errorf("Ana average cell = %q, want 8.50", got.Table.Rows[0][4])
	}
	if len(got.Charts) != 2 {
		t.Fatalf("charts = %d, want bar and pie", len(got.Charts))
	}
	if len(renderer.calls) != 2 || renderer.calls[0] != "bar" || renderer.calls[1] != "pie" {
		t.Errorf("renderer calls = %v", renderer.calls)
	}
}

func TestExportChartFailureAborts(t *testing.T) {
	renderer := &fakeRenderer{pieErr: domain.WrapError(domain.ErrComposition, "render pie", errors.New("no data"))}
	composer := &fakeComposer{}
	svc := newExportService(&fakeRepo{}, &fakeExtractor{}, renderer, composer)
	registry := &fakeRegistry{}

	_, err := svc.Export(context.Background(), registry, ports.ExportRequest{
		Format:        domain.FormatPPTX,
		IncludeCharts: true,
	})
	if !domain.IsKind(err, domain.ErrComposition) {
		t.Fatalf("err = %v, want ErrComposition", err)
	}
	if len(composer.seen) != 0 {
		t.Fatal("composer must not run after a chart failure")
	}
	if len(registry.ListAll()) != 0 {
		t.Fatal("nothing should be recorded")
	}
}

func TestExportXLSXLoadsRoster(t *testing.T) {
	repo := &fakeRepo{students: []domain.Student{{ID: 1, Name: "Ana", ScoreA: 9, ScoreB: 8}}}
	composer := &fakeComposer{}
	svc := newExportService(repo, &fakeExtractor{}, &fakeRenderer{}, composer)

	if _, err := svc.Export(context.Background(), &fakeRegistry{}, ports.ExportRequest{Format: domain.FormatXLSX}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(composer.seen[0].Students) != 1 {
		t.Fatal("spreadsheet export should always carry the roster")
	}
}

func TestRenderChartKinds(t *testing.T) {
	repo := &fakeRepo{students: []domain.Student{{ID: 1, Name: "Ana", ScoreA: 9, ScoreB: 8}}}
	renderer := &fakeRenderer{}
	svc := newExportService(repo, &fakeExtractor{}, renderer, &fakeComposer{})
	ctx := context.Background()

	bar, err := svc.RenderChart(ctx, domain.ChartBar)
	if err != nil {
		t.Fatalf("RenderChart(bar): %v", err)
	}
	if bar.Kind != domain.ChartBar {
		t.Errorf("Kind = %q, want bar", bar.Kind)
	}
	if len(bar.Data) != 1 || bar.Data[0].Label != "Ana" {
		t.Errorf("bar data = %+v", bar.Data)
	}

	pie, err := svc.RenderChart(ctx, domain.ChartPie)
	if err != nil {
		t.Fatalf("RenderChart(pie): %v", err)
	}
	if pie.Kind != domain.ChartPie {
		t.Errorf("Kind = %q, want pie", pie.Kind)
	}
}
