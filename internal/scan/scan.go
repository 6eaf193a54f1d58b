// Package scan searches files line by line using a fuzzy pattern matcher.
//
// Files are scanned concurrently via an errgroup with a configurable worker
// limit. Results are collected per file and sorted by path and line number so
// output is deterministic regardless of scheduling.
package scan

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/fuzzrex/internal/observe"
	"github.com/MrWong99/fuzzrex/pkg/phonetic"
)

// DefaultConcurrency is the worker limit used when none is configured.
const DefaultConcurrency = 8

// maxLineSize bounds the line buffer; longer lines are rejected by
// bufio.Scanner with an error rather than silently truncated.
const maxLineSize = 1024 * 1024

// Match is one accepted line.
type Match struct {
	// Path is the file the line came from. Empty for reader-based scans.
	Path string

	// Line is the 1-based line number within the file.
	Line int

	// Text is the full line content without the trailing newline.
	Text string
}

// Scanner searches inputs for lines matching a compiled fuzzy pattern.
type Scanner struct {
	re          *regexp.Regexp
	query       string
	phonetic    bool
	concurrency int
	metrics     *observe.Metrics
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithConcurrency sets the maximum number of files scanned in parallel.
// Values below 1 fall back to [DefaultConcurrency].
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		if n >= 1 {
			s.concurrency = n
		}
	}
}

// WithPhonetic enables sound-alike acceptance: a line that fails the pattern
// is still accepted when any of its words is phonetically equivalent to a
// word of query.
func WithPhonetic(query string) Option {
	return func(s *Scanner) {
		s.phonetic = true
		s.query = query
	}
}

// WithMetrics sets the metrics sink. Defaults to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Scanner) { s.metrics = m }
}

// New creates a Scanner that accepts lines matching re.
func New(re *regexp.Regexp, opts ...Option) *Scanner {
	s := &Scanner{
		re:          re,
		concurrency: DefaultConcurrency,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// Files scans the given paths concurrently and returns all accepted lines,
// sorted by path and line number. A failure to open or read any file aborts
// the whole scan and returns that error.
func (s *Scanner) Files(ctx context.Context, paths []string) ([]Match, error) {
	ctx, span := observe.StartSpan(ctx, "scan.Files")
	defer span.End()

	start := time.Now()
	s.metrics.ActiveScans.Add(ctx, 1)
	defer func() {
		s.metrics.ActiveScans.Add(ctx, -1)
		s.metrics.ScanDuration.Record(ctx, time.Since(start).Seconds())
	}()

	var (
		mu  sync.Mutex
		all []Match
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)

	for _, path := range paths {
		eg.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("scan: open %s: %w", path, err)
			}
			defer f.Close()

			matches, err := s.scanLines(egCtx, path, f)
			if err != nil {
				return fmt.Errorf("scan: %s: %w", path, err)
			}

			mu.Lock()
			all = append(all, matches...)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		observe.FailSpan(ctx, err)
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Path != all[j].Path {
			return all[i].Path < all[j].Path
		}
		return all[i].Line < all[j].Line
	})
	return all, nil
}

// Reader scans a single stream and returns accepted lines in order. Matches
// carry an empty Path.
func (s *Scanner) Reader(ctx context.Context, r io.Reader) ([]Match, error) {
	ctx, span := observe.StartSpan(ctx, "scan.Reader")
	defer span.End()

	start := time.Now()
	s.metrics.ActiveScans.Add(ctx, 1)
	defer func() {
		s.metrics.ActiveScans.Add(ctx, -1)
		s.metrics.ScanDuration.Record(ctx, time.Since(start).Seconds())
	}()

	matches, err := s.scanLines(ctx, "", r)
	if err != nil {
		observe.FailSpan(ctx, err)
		return nil, err
	}
	return matches, nil
}

// scanLines reads r line by line, accepting lines that match the pattern or,
// when phonetic mode is on, lines containing a sound-alike of the query.
func (s *Scanner) scanLines(ctx context.Context, path string, r io.Reader) ([]Match, error) {
	var matches []Match
	var lines, accepted int64

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for lineNo := 1; sc.Scan(); lineNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines++

		text := sc.Text()
		if s.accepts(text) {
			accepted++
			matches = append(matches, Match{Path: path, Line: lineNo, Text: text})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	s.metrics.ScanLines.Add(ctx, lines)
	s.metrics.ScanMatches.Add(ctx, accepted)
	return matches, nil
}

// accepts reports whether a line should be included in the results.
func (s *Scanner) accepts(line string) bool {
	if s.re.MatchString(line) {
		return true
	}
	if s.phonetic && phonetic.ContainsAny(line, s.query) {
		return true
	}
	return false
}
