package httpadapter

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/banguela/school-admin/internal/core/domain"
	"github.com/banguela/school-admin/internal/core/ports"
)

type upload struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// readUpload pulls the optional "file" part out of a multipart form. The
// second return reports whether a file part was present at all.
func (rt *Router) readUpload(r *http.Request) (upload, bool, error) {
	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return upload{}, false, nil
	}
	if err != nil {
		return upload{}, false, domain.WrapError(domain.ErrValidation, "http.readUpload", err)
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return upload{}, false, domain.WrapError(domain.ErrValidation, "http.readUpload", err)
	}
	return upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Payload:     payload,
	}, true, nil
}

type extractResponse struct {
	Filename string           `json:"filename"`
	Kind     domain.MediaKind `json:"kind"`
	Preview  string           `json:"preview"`
	Chars    int              `json:"chars"`
	Empty    bool             `json:"empty"`
}

func (rt *Router) extractDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, rt.limits.MaxUploadBytes)

	up, ok, err := rt.readUpload(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !ok {
		writeError(w, r, domain.WrapError(domain.ErrValidation, "http.extractDocument", fmt.Errorf("missing file field")))
		return
	}

	doc, err := rt.exporter.ExtractText(r.Context(), up.Filename, up.ContentType, up.Payload)
	kind := string(domain.DetectMediaKind(up.Filename, up.ContentType))
	if err != nil {
		rt.metrics.RecordExtraction(serviceName, kind, "error")
		writeError(w, r, err)
		return
	}
	rt.metrics.RecordExtraction(serviceName, kind, "ok")

	writeJSON(w, http.StatusOK, extractResponse{
		Filename: doc.Filename,
		Kind:     doc.Kind,
		Preview:  doc.Summarize(rt.limits.PreviewMaxChars),
		Chars:    len([]rune(doc.Text)),
		Empty:    doc.Empty(),
	})
}

type artifactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Format    string    `json:"format"`
	MediaType string    `json:"media_type"`
	SizeBytes int       `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

func toArtifactResponse(a domain.ExportArtifact) artifactResponse {
	return artifactResponse{
		ID:        a.ID,
		Name:      a.Name,
		Format:    string(a.Format),
		MediaType: a.MediaType,
		SizeBytes: len(a.Payload),
		CreatedAt: a.CreatedAt,
	}
}

func (rt *Router) handleExports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.createExport(w, r)
	case http.MethodGet:
		rt.listExports(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) createExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.limits.MaxUploadBytes)

	format, ok := domain.ParseExportFormat(r.FormValue("format"))
	if !ok {
		rt.metrics.RecordExport(serviceName, r.FormValue("format"), "rejected")
		writeError(w, r, domain.WrapError(domain.ErrValidation, "http.createExport",
			fmt.Errorf("unknown export format %q", r.FormValue("format"))))
		return
	}

	req := ports.ExportRequest{
		Format:        format,
		BodyText:      r.FormValue("text"),
		IncludeTable:  formBool(r.FormValue("include_table")),
		IncludeCharts: formBool(r.FormValue("include_charts")),
	}

	up, hasFile, err := rt.readUpload(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if hasFile {
		doc, err := rt.exporter.ExtractText(r.Context(), up.Filename, up.ContentType, up.Payload)
		if err != nil {
			rt.metrics.RecordExport(serviceName, string(format), "error")
			writeError(w, r, err)
			return
		}
		req.SourceName = doc.Filename
		if req.BodyText == "" {
			req.BodyText = doc.Text
		}
	}

	registry := rt.sessions.Registry(sessionIDFromContext(r.Context()))
	artifact, err := rt.exporter.Export(r.Context(), registry, req)
	if err != nil {
		rt.metrics.RecordExport(serviceName, string(format), "error")
		writeError(w, r, err)
		return
	}
	rt.metrics.RecordExport(serviceName, string(format), "ok")
	writeJSON(w, http.StatusCreated, toArtifactResponse(artifact))
}

func (rt *Router) listExports(w http.ResponseWriter, r *http.Request) {
	registry := rt.sessions.Registry(sessionIDFromContext(r.Context()))
	artifacts := registry.ListAll()
	out := make([]artifactResponse, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, toArtifactResponse(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{"exports": out})
}

func (rt *Router) downloadExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/exports/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, domain.WrapError(domain.ErrNotFound, "http.downloadExport", nil))
		return
	}

	registry := rt.sessions.Registry(sessionIDFromContext(r.Context()))
	artifact, ok := registry.Get(id)
	if !ok {
		writeError(w, r, domain.WrapError(domain.ErrNotFound, "http.downloadExport",
			fmt.Errorf("artifact %s", id)))
		return
	}

	w.Header().Set("Content-Type", artifact.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Payload)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Payload)
}

func formBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}
