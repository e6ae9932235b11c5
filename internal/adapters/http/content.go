package httpadapter

import (
	"net/http"
	"time"

	"github.com/banguela/school-admin/internal/core/domain"
)

type contentResponse struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

// generateContent produces AI-assisted teaching material from an uploaded
// document or an inline text field.
func (rt *Router) generateContent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if rt.content == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "content generation is not configured",
		})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, rt.limits.MaxUploadBytes)

	sourceText := r.FormValue("text")
	up, hasFile, err := rt.readUpload(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if hasFile {
		doc, err := rt.exporter.ExtractText(r.Context(), up.Filename, up.ContentType, up.Payload)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if sourceText == "" {
			sourceText = doc.Text
		}
	}

	language := r.FormValue("language")
	if language == "" {
		language = "pt"
	}

	start := time.Now()
	text, err := rt.content.Produce(r.Context(), sourceText, language, r.FormValue("model"))
	if err != nil {
		status := "error"
		if domain.IsKind(err, domain.ErrValidation) {
			status = "rejected"
		}
		rt.metrics.RecordGeneration(serviceName, status, time.Since(start))
		writeError(w, r, err)
		return
	}
	rt.metrics.RecordGeneration(serviceName, "ok", time.Since(start))

	writeJSON(w, http.StatusOK, contentResponse{
		Language: language,
		Text:     text,
	})
}
