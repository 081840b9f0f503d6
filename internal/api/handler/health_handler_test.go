package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestRoot(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/", "", nil)
	if err := Root(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "ADASTE Loan System API is live!" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name     string
		checks   map[string]ReadinessCheck
		wantCode int
		wantStat string
	}{
		{"no checks", nil, http.StatusOK, "ok"},
		{"all healthy", map[string]ReadinessCheck{
			"storage": func(context.Context) error { return nil },
			"redis":   func(context.Context) error { return nil },
		}, http.StatusOK, "ok"},
		{"one down", map[string]ReadinessCheck{
			"storage": func(context.Context) error { return nil },
			"redis":   func(context.Context) error { return errors.New("connection refused") },
		}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewReadinessHandler(tc.checks)
			c, rec := newContext(http.MethodGet, "/health/ready", "", nil)
			if err := h.Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tc.wantStat {
				t.Fatalf("expected status %s, got %s", tc.wantStat, resp.Status)
			}
			if tc.wantCode != http.StatusOK && resp.Dependencies["redis"].Error == "" {
				t.Fatalf("failing dependency must report its error")
			}
		})
	}
}
