package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(agg *Aggregator, method, path string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	RegisterHandlers(mux, agg)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestLiveness(t *testing.T) {
	rec := serve(NewAggregator(), http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		status   Status
		wantCode int
		wantBody string
	}{
		{StatusHealthy, http.StatusOK, "OK"},
		{StatusDegraded, http.StatusOK, "DEGRADED"},
		{StatusUnhealthy, http.StatusServiceUnavailable, "UNHEALTHY"},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			agg := NewAggregator()
			agg.Register(fixed("x", tt.status))
			rec := serve(agg, http.MethodGet, "/readyz")
			if rec.Code != tt.wantCode || rec.Body.String() != tt.wantBody {
				t.Errorf("GET /readyz = %d %q, want %d %q", rec.Code, rec.Body.String(), tt.wantCode, tt.wantBody)
			}
		})
	}
}

func TestDetailed(t *testing.T) {
	agg := NewAggregator()
	agg.Register(fixed("store", StatusHealthy))
	agg.Register(fixed("generator", StatusDegraded))

	rec := serve(agg, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var report Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != "degraded" {
		t.Errorf("Status = %q, want degraded", report.Status)
	}
	if report.Checks["generator"].Message != "degraded" || report.Checks["store"].Status != "healthy" {
		t.Errorf("Checks = %+v", report.Checks)
	}
}

func TestSingleCheck(t *testing.T) {
	agg := NewAggregator()
	agg.Register(fixed("store", StatusUnhealthy))

	if rec := serve(agg, http.MethodGet, "/health/store"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /health/store = %d, want 503", rec.Code)
	}
	if rec := serve(agg, http.MethodGet, "/health/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /health/nope = %d, want 404", rec.Code)
	}
}

func TestHandlersRejectOtherMethods(t *testing.T) {
	if rec := serve(NewAggregator(), http.MethodPost, "/healthz"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /healthz = %d, want 405", rec.Code)
	}
}
