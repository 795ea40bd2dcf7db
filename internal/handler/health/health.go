// Package health serves /healthz. Required checks fail the endpoint with
// 503; optional ones, like the remote leaderboard, only report their state.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

type check struct {
	name     string
	checker  Checker
	optional bool
}

type Handler struct {
	checks []check
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger, checks map[string]Checker) *Handler {
	h := &Handler{logger: logger}
	for name, c := range checks {
		h.checks = append(h.checks, check{name: name, checker: c})
	}
	return h
}

// Optional adds a check whose failure does not make the service unhealthy.
func (h *Handler) Optional(name string, c Checker) *Handler {
	h.checks = append(h.checks, check{name: name, checker: c, optional: true})
	return h
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

type result struct {
	Status   string `json:"status"`
	Optional bool   `json:"optional,omitempty"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]result, len(h.checks))
		status  = http.StatusOK
		g       errgroup.Group
	)
	for _, c := range h.checks {
		g.Go(func() error {
			res := result{Status: "ok", Optional: c.optional}
			err := c.checker.Check(ctx)
			if err != nil {
				h.logger.Error("health check failed", "name", c.name, "optional", c.optional, "error", err)
				res.Status = "error"
			}

			mu.Lock()
			defer mu.Unlock()
			results[c.name] = res
			if err != nil && !c.optional {
				status = http.StatusServiceUnavailable
			}
			return nil
		})
	}
	_ = g.Wait()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(results)
}
