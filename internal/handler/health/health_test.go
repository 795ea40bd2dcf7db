package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/playperu/emojimemory/internal/handler/health"
)

type mockChecker struct{ err error }

func (m mockChecker) Check(_ context.Context) error { return m.err }

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		local      health.Checker
		remote     health.Checker
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "all healthy",
			local:      mockChecker{},
			remote:     mockChecker{},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"sqlite": "ok", "remote": "ok"},
		},
		{
			name:       "sqlite down",
			local:      mockChecker{err: errors.New("locked")},
			remote:     mockChecker{},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"sqlite": "error", "remote": "ok"},
		},
		{
			name:       "remote down",
			local:      mockChecker{},
			remote:     health.CheckerFunc(func(context.Context) error { return errors.New("unauthorized") }),
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"sqlite": "ok", "remote": "error"},
		},
		{
			name:       "no remote configured",
			local:      mockChecker{},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"sqlite": "ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.Default(), map[string]health.Checker{"sqlite": tt.local})
			if tt.remote != nil {
				h.Optional("remote", tt.remote)
			}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body map[string]struct{ Status string }
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}

			if len(body) != len(tt.wantBody) {
				t.Errorf("got %d checks, want %d", len(body), len(tt.wantBody))
			}
			for name, want := range tt.wantBody {
				if got := body[name].Status; got != want {
					t.Errorf("%s status = %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestCheckerFunc(t *testing.T) {
	var c health.Checker = health.CheckerFunc(func(context.Context) error { return nil })
	if err := c.Check(context.Background()); err != nil {
		t.Fatal(err)
	}
}
