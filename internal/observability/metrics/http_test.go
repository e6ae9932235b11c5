package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddlewareRecordsStatus(t *testing.T) {
	m := NewHTTPServerMetrics("test")
	handler := m.Middleware("test", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/students", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
}

func TestMiddlewarePreservesFlusher(t *testing.T) {
	m := NewHTTPServerMetrics("test")
	var flushable bool
	handler := m.Middleware("test", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if f, ok := w.(http.Flusher); ok {
			flushable = true
			f.Flush()
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/exports/abc", nil))
	if !flushable {
		t.Fatal("wrapped writer should still satisfy http.Flusher")
	}
	if !rec.Flushed {
		t.Fatal("Flush should reach the underlying writer")
	}
}

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/v1/exports/3f6b", "/v1/exports/{artifact_id}"},
		{"/v1/dashboard/charts/bar", "/v1/dashboard/charts/{kind}"},
		{"/v1/students", "/v1/students"},
	}
	for _, tc := range cases {
		if got := normalizePath(tc.in); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
