// Package server exposes the pattern generator over HTTP.
//
// Endpoints:
//
//   - POST /v1/pattern — build a fuzzy pattern from a search term, returning
//     the regex source.
//   - POST /v1/match   — build (or fetch from cache) a compiled matcher and
//     test it against one or more input texts.
//   - GET  /healthz    — liveness probe.
//   - GET  /readyz     — readiness probe with a generator self-check.
//   - GET  /metrics    — Prometheus scrape endpoint.
//
// Compiled matchers are cached in an LRU keyed by the full pattern
// configuration, so repeated match requests with the same term and options
// skip regex compilation. A configuration reload clears the cache.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrWong99/fuzzrex/internal/config"
	"github.com/MrWong99/fuzzrex/internal/observe"
	"github.com/MrWong99/fuzzrex/pkg/fuzzy"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

// Server is the fuzzrex HTTP API server.
type Server struct {
	mu  sync.RWMutex
	cfg *config.Config

	cache    *matcherCache
	metrics  *observe.Metrics
	checkers []checker

	httpServer *http.Server
}

// New creates a Server from the given configuration. The metrics argument
// may not be nil; use [observe.DefaultMetrics] outside of tests.
func New(cfg *config.Config, m *observe.Metrics) *Server {
	s := &Server{
		cfg:      cfg,
		cache:    newMatcherCache(cfg.Server.CacheSize),
		metrics:  m,
		checkers: healthCheckers(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/pattern", route(s.handlePattern))
	mux.HandleFunc("POST /v1/match", route(s.handleMatch))
	mux.HandleFunc("GET /healthz", route(s.handleHealthz))
	mux.HandleFunc("GET /readyz", route(s.handleReadyz))
	mux.HandleFunc("GET /metrics", route(promhttp.Handler().ServeHTTP))

	s.httpServer = &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           observe.Middleware(m)(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler returns the server's root HTTP handler, for use in tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails. On cancellation it shuts down gracefully, waiting up to
// [shutdownTimeout] for in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// UpdateConfig swaps in a new configuration, typically from a config file
// watcher. The matcher cache is cleared because preset definitions may have
// changed.
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	s.cache.Clear()
	slog.Info("configuration reloaded", "presets", len(cfg.Presets))
}

// route reports the matched mux pattern to the observability middleware, so
// request metrics are labelled by registered route instead of raw URL path.
func route(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		observe.SetRoute(r.Context(), r.Pattern)
		h(w, r)
	}
}

// ─── Request handling ────────────────────────────────────────────────────────

// patternRequest is the JSON body for POST /v1/pattern and the pattern part
// of POST /v1/match. Option fields are pointers so that absent fields fall
// through to the preset (or built-in) defaults.
type patternRequest struct {
	Term   string `json:"term"`
	Preset string `json:"preset,omitempty"`

	MinWordLength     *int     `json:"min_word_length,omitempty"`
	RequiredCharRatio *float64 `json:"required_char_ratio,omitempty"`
	CaseSensitive     *bool    `json:"case_sensitive,omitempty"`
	MaxCharGap        *int     `json:"max_char_gap,omitempty"`
}

// patternResponse is the JSON body returned by POST /v1/pattern.
type patternResponse struct {
	Pattern string `json:"pattern"`
}

// matchRequest is the JSON body for POST /v1/match.
type matchRequest struct {
	patternRequest
	Texts []string `json:"texts"`
}

// matchResult reports the outcome for one input text.
type matchResult struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// matchResponse is the JSON body returned by POST /v1/match.
type matchResponse struct {
	Pattern string        `json:"pattern"`
	Results []matchResult `json:"results"`
}

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePattern(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req patternRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	cfg, err := s.buildConfig(ctx, req)
	if err != nil {
		s.metrics.RecordPatternBuild(ctx, "invalid")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	pattern := cfg.Pattern()
	s.metrics.PatternBuildDuration.Record(ctx, time.Since(start).Seconds())
	s.metrics.RecordPatternBuild(ctx, "ok")

	writeJSON(w, http.StatusOK, patternResponse{Pattern: pattern})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req matchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if len(req.Texts) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "texts must not be empty"})
		return
	}

	cfg, err := s.buildConfig(ctx, req.patternRequest)
	if err != nil {
		s.metrics.RecordPatternBuild(ctx, "invalid")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	re, err := s.matcher(ctx, cfg)
	if err != nil {
		s.metrics.RecordCompileError(ctx)
		observe.FailSpan(ctx, err)
		observe.Logger(ctx).Error("generated pattern failed to compile",
			"term", cfg.SearchTerm(), "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	results := make([]matchResult, len(req.Texts))
	for i, text := range req.Texts {
		results[i] = matchResult{Text: text, Match: re.MatchString(text)}
	}

	writeJSON(w, http.StatusOK, matchResponse{Pattern: re.String(), Results: results})
}

// buildConfig assembles a [fuzzy.Config] from the request: preset options
// first (request preset, falling back to the configured default preset), then
// explicit per-request overrides on top. The applied preset is reported to
// the observability middleware.
func (s *Server) buildConfig(ctx context.Context, req patternRequest) (*fuzzy.Config, error) {
	s.mu.RLock()
	appCfg := s.cfg
	s.mu.RUnlock()

	var opts []fuzzy.Option

	presetName := req.Preset
	if presetName == "" {
		presetName = appCfg.DefaultPreset
	}
	if presetName != "" {
		preset, ok := appCfg.PresetByName(presetName)
		if !ok {
			return nil, &fuzzy.InvalidPatternError{Reason: "unknown preset " + strconv.Quote(presetName)}
		}
		opts = append(opts, preset.Options()...)
		observe.SetPreset(ctx, presetName)
	}

	if req.MinWordLength != nil {
		opts = append(opts, fuzzy.WithMinWordLength(*req.MinWordLength))
	}
	if req.RequiredCharRatio != nil {
		opts = append(opts, fuzzy.WithRequiredCharRatio(*req.RequiredCharRatio))
	}
	if req.CaseSensitive != nil {
		opts = append(opts, fuzzy.WithCaseSensitive(*req.CaseSensitive))
	}
	if req.MaxCharGap != nil {
		opts = append(opts, fuzzy.WithMaxCharGap(*req.MaxCharGap))
	}

	return fuzzy.New(req.Term, opts...)
}

// matcher returns a compiled regexp for cfg, consulting the LRU cache first.
func (s *Server) matcher(ctx context.Context, cfg *fuzzy.Config) (*regexp.Regexp, error) {
	key := cfg.Key()
	if re := s.cache.Get(key); re != nil {
		s.metrics.RecordCacheLookup(ctx, true)
		return re, nil
	}
	s.metrics.RecordCacheLookup(ctx, false)

	start := time.Now()
	re, err := cfg.Compile()
	if err != nil {
		return nil, err
	}
	s.metrics.PatternBuildDuration.Record(ctx, time.Since(start).Seconds())
	s.metrics.RecordPatternBuild(ctx, "ok")

	s.cache.Set(key, re)
	return re, nil
}

// ─── JSON helpers ────────────────────────────────────────────────────────────

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encoding failure"}`, http.StatusInternalServerError)
	}
}
