package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/CodeXGautam/Vocintera/internal/config"
)

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

func TestHealthzHandler(t *testing.T) {
	handler := NewHealthHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.HealthzHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "ok" || resp["service"] != "vocintera" {
		t.Errorf("unexpected payload %v", resp)
	}
}

func TestReadyzHandlerAllHealthy(t *testing.T) {
	handler := NewHealthHandler(&fakePinger{}, stubPromptManager{}, &config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	handler.ReadyzHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ReadinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ready" {
		t.Errorf("expected ready, got %q", resp.Status)
	}
	for name, check := range resp.Checks {
		if check.Status != "ok" {
			t.Errorf("check %q not ok: %+v", name, check)
		}
	}
}

func TestReadyzHandlerStoreDown(t *testing.T) {
	handler := NewHealthHandler(&fakePinger{err: errors.New("mongo unreachable")}, stubPromptManager{}, &config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	handler.ReadyzHandler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp ReadinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "not_ready" {
		t.Errorf("expected not_ready, got %q", resp.Status)
	}
	if resp.Checks["store"].Status != "failed" {
		t.Errorf("expected failed store check, got %+v", resp.Checks["store"])
	}
}

func TestReadyzHandlerNothingInitialized(t *testing.T) {
	handler := NewHealthHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	handler.ReadyzHandler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
