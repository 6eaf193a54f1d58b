package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrWong99/fuzzrex/internal/config"
	"github.com/MrWong99/fuzzrex/pkg/fuzzy"
)

// Exit codes follow grep: 0 on match, 1 on no match, 2 on error.
func TestRunScan_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("say helXlo wXorld\nnothing here\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg := &config.Config{}
	ctx := context.Background()

	matching, err := fuzzy.New("hello world")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := runScan(ctx, cfg, matching, []string{path}, false, 0); got != 0 {
		t.Errorf("exit code with matches = %d, want 0", got)
	}

	noMatch, err := fuzzy.New("zebra quagga")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := runScan(ctx, cfg, noMatch, []string{path}, false, 0); got != 1 {
		t.Errorf("exit code without matches = %d, want 1", got)
	}

	missing := filepath.Join(dir, "missing.txt")
	if got := runScan(ctx, cfg, matching, []string{missing}, false, 0); got != 2 {
		t.Errorf("exit code on scan error = %d, want 2", got)
	}
}
