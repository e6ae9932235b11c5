package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/banguela/school-admin/internal/core/domain"
)

type registerStudentRequest struct {
	Name   string  `json:"name"`
	ScoreA float64 `json:"score_a"`
	ScoreB float64 `json:"score_b"`
}

type studentResponse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	ScoreA  float64 `json:"score_a"`
	ScoreB  float64 `json:"score_b"`
	Average float64 `json:"average"`
}

func toStudentResponse(s domain.Student) studentResponse {
	return studentResponse{
		ID:      s.ID,
		Name:    s.Name,
		ScoreA:  s.ScoreA,
		ScoreB:  s.ScoreB,
		Average: s.Average(),
	}
}

func (rt *Router) handleStudents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.registerStudent(w, r)
	case http.MethodGet:
		rt.listStudents(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) registerStudent(w http.ResponseWriter, r *http.Request) {
	var req registerStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.WrapError(domain.ErrValidation, "http.registerStudent", err))
		return
	}

	student, err := rt.students.Register(r.Context(), req.Name, req.ScoreA, req.ScoreB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStudentResponse(student))
}

func (rt *Router) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := rt.students.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]studentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, toStudentResponse(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"students": out})
}

func (rt *Router) dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	stats, err := rt.students.Statistics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (rt *Router) dashboardChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	var kind domain.ChartKind
	switch strings.TrimPrefix(r.URL.Path, "/v1/dashboard/charts/") {
	case "bar":
		kind = domain.ChartBar
	case "distribution":
		kind = domain.ChartPie
	default:
		writeError(w, r, domain.WrapError(domain.ErrNotFound, "http.dashboardChart", nil))
		return
	}

	chart, err := rt.exporter.RenderChart(r.Context(), kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(chart.PNG)
}
