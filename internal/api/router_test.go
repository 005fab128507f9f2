package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRouter_NotImplementedFallback(t *testing.T) {
	router := NewRouter(Dependencies{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", rec.Code)
	}

	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != "NOT_IMPLEMENTED" {
		t.Errorf("expected NOT_IMPLEMENTED, got %s", env.Error.Code)
	}
}

func TestNewRouter_RoutesWired(t *testing.T) {
	called := map[string]bool{}
	mark := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			called[name] = true
			w.WriteHeader(http.StatusOK)
		}
	}

	router := NewRouter(Dependencies{
		HealthHandler:       mark("health"),
		CreateJobHandler:    mark("create"),
		LinkChainHandler:    mark("link"),
		SubmitWorkHandler:   mark("submit"),
		ApproveJobHandler:   mark("approve"),
		DisputeJobHandler:   mark("dispute"),
		GetJobHandler:       mark("get"),
		ListUserJobsHandler: mark("list"),
		StatsHandler:        mark("stats"),
	})

	requests := []struct {
		method, path, name string
	}{
		{http.MethodGet, "/api/health", "health"},
		{http.MethodPost, "/api/jobs/create", "create"},
		{http.MethodPost, "/api/jobs/link-chain", "link"},
		{http.MethodPost, "/api/jobs/submit", "submit"},
		{http.MethodPost, "/api/jobs/approve", "approve"},
		{http.MethodPost, "/api/jobs/dispute", "dispute"},
		{http.MethodGet, "/api/jobs/8b7f8f9e-2f6a-4e0e-9f57-0b7a54b3a111", "get"},
		{http.MethodGet, "/api/jobs/user/0x1111111111111111111111111111111111111111", "list"},
		{http.MethodGet, "/api/stats", "stats"},
	}

	for _, req := range requests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(req.method, req.path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s %s: expected 200, got %d", req.method, req.path, rec.Code)
		}
		if !called[req.name] {
			t.Errorf("%s %s: handler %q not invoked", req.method, req.path, req.name)
		}
	}
}

func TestNewRouter_CORSHeaders(t *testing.T) {
	router := NewRouter(Dependencies{
		StatsHandler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard allow-origin, got %q", got)
	}
}
