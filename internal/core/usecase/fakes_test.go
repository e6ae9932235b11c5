package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/banguela/school-admin/internal/core/domain"
)

type fakeRepo struct {
	students []domain.Student
	addErr   error
	listErr  error
}

func (f *fakeRepo) Add(_ context.Context, name string, scoreA, scoreB float64) (domain.Student, error) {
	if f.addErr != nil {
		return domain.Student{}, f.addErr
	}
	s := domain.Student{
		ID:        int64(len(f.students) + 1),
		Name:      name,
		ScoreA:    scoreA,
		ScoreB:    scoreB,
		CreatedAt: time.Now().UTC(),
	}
	f.students = append(f.students, s)
	return s, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]domain.Student, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Student(nil), f.students...), nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte, _ domain.MediaKind) (string, error) {
	return f.text, f.err
}

type fakeRenderer struct {
	barErr error
	pieErr error
	calls  []string
}

func (f *fakeRenderer) RenderBar(entries []domain.ScoreEntry) (domain.ChartArtifact, error) {
	f.calls = append(f.calls, "bar")
	if f.barErr != nil {
		return domain.ChartArtifact{}, f.barErr
	}
	return domain.ChartArtifact{Kind: domain.ChartBar, Data: entries, PNG: []byte("bar-png")}, nil
}

func (f *fakeRenderer) RenderPie(_ domain.BandDistribution) (domain.ChartArtifact, error) {
	f.calls = append(f.calls, "pie")
	if f.pieErr != nil {
		return domain.ChartArtifact{}, f.pieErr
	}
	return domain.ChartArtifact{Kind: domain.ChartPie, PNG: []byte("pie-png")}, nil
}

type fakeComposer struct {
	err  error
	seen []domain.ComposeRequest
	next int
}

func (f *fakeComposer) Compose(_ context.Context, req domain.ComposeRequest) (domain.ExportArtifact, error) {
	f.seen = append(f.seen, req)
	if f.err != nil {
		return domain.ExportArtifact{}, f.err
	}
	f.next++
	return domain.ExportArtifact{
		ID:        fmt.Sprintf("artifact-%d", f.next),
		Name:      domain.ArtifactName(req.Title, req.Format),
		Format:    req.Format,
		MediaType: req.Format.MediaType(),
		Payload:   []byte("payload"),
		CreatedAt: time.Now().UTC(),
	}, nil
}

type fakeRegistry struct {
	artifacts []domain.ExportArtifact
}

func (f *fakeRegistry) Record(artifact domain.ExportArtifact) {
	f.artifacts = append(f.artifacts, artifact)
}

func (f *fakeRegistry) ListAll() []domain.ExportArtifact {
	return append([]domain.ExportArtifact(nil), f.artifacts...)
}

func (f *fakeRegistry) Get(id string) (domain.ExportArtifact, bool) {
	for _, a := range f.artifacts {
		if a.ID == id {
			return a, true
		}
	}
	return domain.ExportArtifact{}, false
}

type fakeGenerator struct {
	output     string
	err        error
	lastSystem string
	lastPrompt string
	lastModel  string
}

func (f *fakeGenerator) Generate(_ context.Context, systemPrompt, userPrompt, model string) (string, error) {
	f.lastSystem = systemPrompt
	f.lastPrompt = userPrompt
	f.lastModel = model
	return f.output, f.err
}

type fakePublisher struct {
	registered []domain.Student
	exported   []domain.ExportArtifact
	err        error
}

func (f *fakePublisher) PublishStudentRegistered(_ context.Context, student domain.Student) error {
	if f.err != nil {
		return f.err
	}
	f.registered = append(f.registered, student)
	return nil
}

func (f *fakePublisher) PublishExportGenerated(_ context.Context, artifact domain.ExportArtifact) error {
	if f.err != nil {
		return f.err
	}
	f.exported = append(f.exported, artifact)
	return nil
}
