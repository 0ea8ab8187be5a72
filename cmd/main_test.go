package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("ASFEM_INPUT", "")
	t.Setenv("ASFEM_OUTPUT_DIR", "")
	fs := flag.NewFlagSet("asfem", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Input != "input.json" {
		t.Fatalf("expected default input.json, got %q", cfg.Input)
	}
	if cfg.Verbose {
		t.Fatal("expected verbose off")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("ASFEM_INPUT", "env.json")
	fs := flag.NewFlagSet("asfem", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-o", "results", "-v"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Input != "env.json" {
		t.Fatalf("expected env input, got %q", cfg.Input)
	}
	if cfg.Output != "results" || !cfg.Verbose {
		t.Fatalf("flags not applied: %+v", cfg)
	}

	fs = flag.NewFlagSet("asfem", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-i", "flag.json"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Input != "flag.json" {
		t.Fatalf("expected flag to override env, got %q", cfg.Input)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.json")
	data := `{
	"mesh": {"nx": 4},
	"kernel": {"type": "diffusion"},
	"bcs": [
		{"type": "dirichlet", "boundary": "left", "params": [1]},
		{"type": "dirichlet", "boundary": "right", "params": [2]}
	]
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	if err := run(context.Background(), Config{Input: path, Output: out}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "step-000000.csv")); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if err := run(context.Background(), Config{Input: filepath.Join(dir, "missing.json")}); err == nil {
		t.Fatal("expected error for missing input")
	}
}
