package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/banguela/school-admin/internal/core/domain"
	"github.com/banguela/school-admin/internal/core/ports"
	"github.com/banguela/school-admin/internal/session"
)

type fakeDirectory struct {
	students []domain.Student
	err      error
}

func (f *fakeDirectory) Register(_ context.Context, name string, scoreA, scoreB float64) (domain.Student, error) {
	if f.err != nil {
		return domain.Student{}, f.err
	}
	s := domain.Student{ID: int64(len(f.students) + 1), Name: name, ScoreA: scoreA, ScoreB: scoreB}
	f.students = append(f.students, s)
	return s, nil
}

func (f *fakeDirectory) List(_ context.Context) ([]domain.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.students, nil
}

func (f *fakeDirectory) Statistics(_ context.Context) (domain.ClassStatistics, error) {
	if f.err != nil {
		return domain.ClassStatistics{}, f.err
	}
	return domain.StatisticsFor(f.students), nil
}

type fakeExporter struct {
	extractErr error
	exportErr  error
	chartErr   error
}

func (f *fakeExporter) ExtractText(_ context.Context, filename, contentType string, payload []byte) (domain.ExtractedDocument, error) {
	if f.extractErr != nil {
		return domain.ExtractedDocument{}, f.extractErr
	}
	kind := domain.DetectMediaKind(filename, contentType)
	if kind == domain.MediaUnsupported {
		return domain.ExtractedDocument{}, domain.WrapError(domain.ErrUnsupportedFormat, "extract text", fmt.Errorf("file %q", filename))
	}
	return domain.ExtractedDocument{Filename: filename, Kind: kind, Text: string(payload)}, nil
}

func (f *fakeExporter) Export(_ context.Context, registry ports.ArtifactRegistry, req ports.ExportRequest) (domain.ExportArtifact, error) {
	if f.exportErr != nil {
		return domain.ExportArtifact{}, f.exportErr
	}
	artifact := domain.ExportArtifact{
		ID:        "artifact-1",
		Name:      domain.ArtifactName(req.SourceName, req.Format),
		Format:    req.Format,
		MediaType: req.Format.MediaType(),
		Payload:   []byte("%PDF-1.4 fake"),
		CreatedAt: time.Now().UTC(),
	}
	registry.Record(artifact)
	return artifact, nil
}

func (f *fakeExporter) RenderChart(_ context.Context, kind domain.ChartKind) (domain.ChartArtifact, error) {
	if f.chartErr != nil {
		return domain.ChartArtifact{}, f.chartErr
	}
	return domain.ChartArtifact{Kind: kind, PNG: []byte{0x89, 'P', 'N', 'G'}}, nil
}

type fakeProducer struct {
	text string
	err  error
}

func (f *fakeProducer) Produce(_ context.Context, _, _, _ string) (string, error) {
	return f.text, f.err
}

func newTestRouter(t *testing.T, directory ports.StudentDirectory, exporter ports.DocumentExporter, producer ports.ContentProducer) http.Handler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	router := NewRouter(
		directory,
		exporter,
		producer,
		session.NewManager(),
		AuthConfig{
			Username:     "admin",
			PasswordHash: hash,
			Secret:       []byte("test-secret"),
			TokenTTL:     time.Hour,
		},
		Limits{RateLimitRPS: 1000, RateLimitBurst: 1000},
		nil,
	)
	return router.Handler()
}

func loginToken(t *testing.T, handler http.Handler) string {
	t.Helper()
	body := strings.NewReader(`{"username":"admin","password":"1234"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func authedRequest(method, target, token string, body *bytes.Buffer, contentType string) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func multipartUpload(t *testing.T, fields map[string]string, filename string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(payload); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	handler := newTestRouter(t, &fakeDirectory{}, &fakeExporter{}, nil)

	body := strings.NewReader(`{"username":"admin","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	handler := newTestRouter(t, &fakeDirectory{}, &fakeExporter{}, nil)

	for _, target := range []string{"/v1/students", "/v1/dashboard", "/v1/exports"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", target, rec.Code)
		}
	}
}

func TestStudentLifecycle(t *testing.T) {
	handler := newTestRouter(t, &fakeDirectory{}, &fakeExporter{}, nil)
	token := loginToken(t, handler)

	payload := bytes.NewBufferString(`{"name":"Ana","score_a":9,"score_b":8}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/students", token, payload, "application/json"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created studentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Average != 8.5 {
		t.Errorf("Average = %v, want 8.5", created.Average)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/v1/students", token, nil, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed struct {
		Students []studentResponse `json:"students"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed.Students) != 1 || listed.Students[0].Name != "Ana" {
		t.Fatalf("students = %+v", listed.Students)
	}
}

func TestRegisterValidationMapsTo400(t *testing.T) {
	handler := newTestRouter(t, &fakeDirectory{err: domain.WrapError(domain.ErrValidation, "register student", nil)}, &fakeExporter{}, nil)
	token := loginToken(t, handler)

	payload := bytes.NewBufferString(`{"name":"","score_a":1,"score_b":2}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/students", token, payload, "application/json"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDashboardChart(t *testing.T) {
	handler := newTestRouter(t, &fakeDirectory{}, &fakeExporter{}, nil)
	token := loginToken(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/v1/dashboard/charts/bar", token, nil, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/v1/dashboard/charts/scatter", token, nil, ""))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown chart status = %d, want 404", rec.Code)
	}
}

func TestDashboardChartEmptyStoreMapsTo400(t *testing.T) {
	exporter := &fakeExporter{chartErr: domain.WrapError(domain.ErrValidation, "render bar chart", fmt.Errorf("no students registered"))}
	handler := newTestRouter(t, &fakeDirectory{}, exporter, nil)
	token := loginToken(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/v1/dashboard/charts/bar", token, nil, ""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for an empty roster", rec.Code)
	}
}

func TestExtractUnsupportedUpload(t *testing.T) {
	handler := newTestRouter(t, &fakeDirectory{}, &fakeExporter{}, nil)
	token := loginToken(t, handler)

	body, contentType := multipartUpload(t, nil, "planilha.csv", []byte("a,b"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/documents/extract", token, body, contentType))
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415: %s", rec.Code, rec.Body.String())
	}
}

func TestExtractPreview(t *testing.T) {
	handler := newTestRouter(t, &fakeDirectory{}, &fakeExporter{}, nil)
	token := loginToken(t, handler)

	body, contentType := multipartUpload(t, nil, "aula.txt", []byte("plano de aula"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/documents/extract", token, body, contentType))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp extractResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != domain.MediaPlainText || resp.Preview != "plano de aula" || resp.Empty {
		t.Fatalf("response = %+v", resp)
	}
}

func TestExportLifecycle(t *testing.T) {
	handler := newTestRouter(t, &fakeDirectory{}, &fakeExporter{}, nil)
	token := loginToken(t, handler)

	body, contentType := multipartUpload(t, map[string]string{"format": "pdf"}, "aula.txt", []byte("conteúdo"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/exports", token, body, contentType))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created artifactResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Name != "aula.pdf" {
		t.Errorf("Name = %q, want aula.pdf", created.Name)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/v1/exports", token, nil, ""))
	var listed struct {
		Exports []artifactResponse `json:"exports"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed.Exports) != 1 || listed.Exports[0].ID != created.ID {
		t.Fatalf("exports = %+v", listed.Exports)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/v1/exports/"+created.ID, token, nil, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "aula.pdf") {
		t.Errorf("Content-Disposition = %q", got)
	}
}

func TestExportsAreSessionScoped(t *testing.T) {
	handler := newTestRouter(t, &fakeDirectory{}, &fakeExporter{}, nil)
	firstToken := loginToken(t, handler)
	secondToken := loginToken(t, handler)

	body, contentType := multipartUpload(t, map[string]string{"format": "pdf", "text": "x"}, "", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/exports", firstToken, body, contentType))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/v1/exports", secondToken, nil, ""))
	var listed struct {
		Exports []artifactResponse `json:"exports"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed.Exports) != 0 {
		t.Fatal("another session must not see foreign artifacts")
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	handler := newTestRouter(t, &fakeDirectory{}, &fakeExporter{}, nil)
	token := loginToken(t, handler)

	body, contentType := multipartUpload(t, map[string]string{"format": "odt", "text": "x"}, "", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/exports", token, body, contentType))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestContentGeneration(t *testing.T) {
	handler := newTestRouter(t, &fakeDirectory{}, &fakeExporter{}, &fakeProducer{text: "conteúdo gerado"})
	token := loginToken(t, handler)

	body, contentType := multipartUpload(t, map[string]string{"text": "fotossíntese", "language": "pt"}, "", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/content", token, body, contentType))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp contentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Text != "conteúdo gerado" {
		t.Errorf("Text = %q", resp.Text)
	}
}

func TestContentUnavailableWithoutProducer(t *testing.T) {
	handler := newTestRouter(t, &fakeDirectory{}, &fakeExporter{}, nil)
	token := loginToken(t, handler)

	body, contentType := multipartUpload(t, map[string]string{"text": "x", "language": "pt"}, "", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/content", token, body, contentType))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestGenerationFailureMapsTo502(t *testing.T) {
	producer := &fakeProducer{err: domain.WrapError(domain.ErrGeneration, "produce content", nil)}
	handler := newTestRouter(t, &fakeDirectory{}, &fakeExporter{}, producer)
	token := loginToken(t, handler)

	body, contentType := multipartUpload(t, map[string]string{"text": "x", "language": "pt"}, "", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/v1/content", token, body, contentType))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
