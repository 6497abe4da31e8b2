package app

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/customerhub/customerhub/internal/platform/httpx"
)

const readinessTimeout = 2 * time.Second

// Check probes one dependency.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Readiness serves /readyz by running every check concurrently.
type Readiness struct {
	checks []Check
	logger *slog.Logger
}

// NewReadiness builds a readiness handler over checks.
func NewReadiness(logger *slog.Logger, checks ...Check) *Readiness {
	if logger == nil {
		logger = slog.Default()
	}
	return &Readiness{checks: checks, logger: logger}
}

type readinessReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Evaluate runs all checks and reports per-check status.
func (rd *Readiness) Evaluate(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]string, len(rd.checks))
		ready   = true
	)
	var g errgroup.Group
	for _, c := range rd.checks {
		g.Go(func() error {
			status := "ok"
			if err := c.Probe(ctx); err != nil {
				rd.logger.Warn("readiness check failed", slog.String("check", c.Name), slog.Any("error", err))
				status = "unavailable"
			}
			mu.Lock()
			defer mu.Unlock()
			results[c.Name] = status
			if status != "ok" {
				ready = false
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, ready
}

func (rd *Readiness) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	results, ready := rd.Evaluate(r.Context())
	if !ready {
		httpx.JSON(w, http.StatusServiceUnavailable, readinessReport{Status: "unavailable", Checks: results})
		return
	}
	httpx.JSON(w, http.StatusOK, readinessReport{Status: "ok", Checks: results})
}
