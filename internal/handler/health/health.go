// Package health serves the dependency health endpoint.
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

// Checker verifies that a dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// Response is the body of the health endpoint.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]Result `json:"checks"`
}

type Result struct {
	Status string `json:"status"`
}

type Handler struct {
	checks  map[string]Checker
	logger  *slog.Logger
	timeout time.Duration
}

func NewHandler(logger *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{checks: checks, logger: logger, timeout: 3 * time.Second}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := Response{Status: "ok", Checks: make(map[string]Result, len(h.checks))}
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for name, c := range h.checks {
		g.Go(func() error {
			res := Result{Status: "ok"}
			if err := c.Check(ctx); err != nil {
				h.logger.ErrorContext(ctx, "health check failed", "name", name, "error", err)
				res.Status = "error"
			}
			mu.Lock()
			defer mu.Unlock()
			resp.Checks[name] = res
			if res.Status != "ok" {
				resp.Status = "error"
			}
			// A failed check is reported in the body, not returned, so the rest still run.
			return nil
		})
	}
	g.Wait()

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
