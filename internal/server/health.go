package server

import (
	"context"
	"net/http"
	"time"

	"github.com/MrWong99/fuzzrex/pkg/fuzzy"
)

// checkTimeout is the maximum time a single readiness check may take before
// the context is cancelled.
const checkTimeout = 5 * time.Second

// checker is a named health check function. Check returns nil when the
// subsystem is healthy.
type checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// healthResult is the JSON response body for health endpoints.
type healthResult struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthCheckers returns the readiness checks for the pattern service. The
// generator check builds and compiles a known-good pattern end to end, which
// exercises the whole hot path without touching request state.
func healthCheckers() []checker {
	return []checker{
		{
			Name: "generator",
			Check: func(_ context.Context) error {
				cfg, err := fuzzy.New("health check")
				if err != nil {
					return err
				}
				_, err = cfg.Compile()
				return err
			},
		},
	}
}

// handleHealthz is a liveness probe that always returns 200 OK. A running
// process that can serve HTTP is considered alive.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResult{Status: "ok"})
}

// handleReadyz is a readiness probe that returns 200 only when every checker
// passes. Each checker is given a context with a [checkTimeout] deadline
// derived from the request context.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(s.checkers))
	allOK := true

	for _, c := range s.checkers {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := c.Check(ctx)
		cancel()

		if err != nil {
			checks[c.Name] = "fail: " + err.Error()
			allOK = false
		} else {
			checks[c.Name] = "ok"
		}
	}

	res := healthResult{
		Status: "ok",
		Checks: checks,
	}
	status := http.StatusOK
	if !allOK {
		res.Status = "fail"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, res)
}
