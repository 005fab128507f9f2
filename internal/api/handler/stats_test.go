package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/freelancepay/freelancepay/internal/stats"
)

type mockStatsProvider struct {
	fn func() (*stats.Summary, error)
}

func (m *mockStatsProvider) Summary(_ context.Context) (*stats.Summary, error) {
	return m.fn()
}

func TestStatsHandler_Success(t *testing.T) {
	mock := &mockStatsProvider{fn: func() (*stats.Summary, error) {
		return &stats.Summary{
			TotalJobs:       12,
			TotalVolume:     "600.50",
			Completed:       3,
			Active:          4,
			PlatformRevenue: "6.00",
		}, nil
	}}

	h := NewStatsHandler(mock)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	data := parseData(t, rec, http.StatusOK)
	if int(data["totalJobs"].(float64)) != 12 {
		t.Errorf("unexpected totalJobs: %v", data["totalJobs"])
	}
	if data["totalVolume"] != "600.50" {
		t.Errorf("unexpected totalVolume: %v", data["totalVolume"])
	}
	if data["platformRevenue"] != "6.00" {
		t.Errorf("unexpected platformRevenue: %v", data["platformRevenue"])
	}
}

func TestStatsHandler_Error(t *testing.T) {
	mock := &mockStatsProvider{fn: func() (*stats.Summary, error) {
		return nil, errors.New("db unavailable")
	}}

	h := NewStatsHandler(mock)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	status, code := parseErr(t, rec)
	if status != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", status)
	}
	if code != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %s", code)
	}
}

func TestStatsHandler_ResponseShape(t *testing.T) {
	mock := &mockStatsProvider{fn: func() (*stats.Summary, error) {
		return &stats.Summary{TotalVolume: "0.00", PlatformRevenue: "0.00"}, nil
	}}

	h := NewStatsHandler(mock)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	var env struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"totalJobs", "totalVolume", "completed", "active", "platformRevenue"} {
		if _, ok := env.Data[key]; !ok {
			t.Errorf("missing key %q in stats response", key)
		}
	}
}
