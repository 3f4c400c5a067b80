//go:build !integration

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// newTestLogger creates a silent logger for tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(nil)
	return &logger
}

type mockStatsUC struct {
	users, saves, catalog int
	err                   error
}

func (m *mockStatsUC) Totals(ctx context.Context) (int, int, int, error) {
	return m.users, m.saves, m.catalog, m.err
}

func TestHealthEndpoints(t *testing.T) {
	srv := NewServer(&mockStatsUC{}, "test-key", newTestLogger())
	router := srv.Router()

	t.Run("root serves the liveness body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if rr.Body.String() != "Bot is running!" {
			t.Errorf("unexpected body %q", rr.Body.String())
		}
	})

	t.Run("health returns OK", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK || rr.Body.String() != "OK" {
			t.Fatalf("expected 200 OK, got %d %q", rr.Code, rr.Body.String())
		}
	})

	t.Run("health stays up when stats backend is broken", func(t *testing.T) {
		broken := NewServer(&mockStatsUC{err: errors.New("db down")}, "test-key", newTestLogger())
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()
		broken.Router().ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("health must not share failure state, got %d", rr.Code)
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	dummyHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := NewServer(&mockStatsUC{}, "test-admin-key", newTestLogger())
	protected := server.authMiddleware(dummyHandler)

	t.Run("no credentials -> 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("malformed Authorization header -> 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		req.Header.Set("Authorization", "whatever-token")
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("wrong key -> 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
	})

	t.Run("valid key -> 200", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		req.Header.Set("Authorization", "Bearer test-admin-key")
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("unconfigured key -> 403 for everyone", func(t *testing.T) {
		open := NewServer(&mockStatsUC{}, "", newTestLogger())
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		req.Header.Set("Authorization", "Bearer anything")
		rr := httptest.NewRecorder()
		open.authMiddleware(dummyHandler).ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
	})
}

func TestStatsHandler(t *testing.T) {
	srv := NewServer(&mockStatsUC{users: 7, saves: 12, catalog: 40}, "k", newTestLogger())
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer k")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got statsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Users != 7 || got.SavedOils != 12 || got.CatalogSize != 40 {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestRequestLogsCarryTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	srv := NewServer(&mockStatsUC{err: errors.New("db down")}, "k", &logger)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer k")
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from broken stats backend, got %d", rr.Code)
	}
	if !strings.Contains(buf.String(), "trace_id") {
		t.Errorf("error log is missing the request trace id: %s", buf.String())
	}
}
