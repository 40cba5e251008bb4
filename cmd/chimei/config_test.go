package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/chimei/internal/inference"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
model: /models/places.onnx
backend: onnx
block_size: 12
count: 5
seed: 0
workers: 3
temperature: 0.8
on_error: skip
log_format: json
server_address: 0.0.0.0:9000
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.Model != "/models/places.onnx" || cfg.Backend != "onnx" {
		t.Fatalf("unexpected model settings: %+v", cfg)
	}
	if cfg.BlockSize == nil || *cfg.BlockSize != 12 {
		t.Fatalf("unexpected block size: %v", cfg.BlockSize)
	}
	if cfg.Seed == nil || *cfg.Seed != 0 {
		t.Fatalf("explicit zero seed should be preserved, got %v", cfg.Seed)
	}
	if cfg.Workers == nil || *cfg.Workers != 3 {
		t.Fatalf("unexpected workers: %v", cfg.Workers)
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.8 {
		t.Fatalf("unexpected temperature: %v", cfg.Temperature)
	}
	if cfg.OnError != "skip" || cfg.LogFormat != "json" || cfg.ServerAddress != "0.0.0.0:9000" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Count == nil || *cfg.Count != 5 {
		t.Fatalf("unexpected count: %v", cfg.Count)
	}
}

func TestReadConfigUnsetFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend: toy\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.Seed != nil || cfg.Workers != nil || cfg.Temperature != nil || cfg.BlockSize != nil {
		t.Fatalf("expected unset pointer fields, got %+v", cfg)
	}
}

func TestReadConfigErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := readConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("workers: [1, 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := readConfig(bad); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
	if cfg, err := readConfig(""); err != nil || cfg.Model != "" {
		t.Fatalf("empty path should yield zero config, got %+v, %v", cfg, err)
	}
}

// runServeConfig parses args against the serve sampling flags and applies
// cfg the way the serve command does.
func runServeConfig(t *testing.T, cfg Config, args ...string) (samplingSettings, int) {
	t.Helper()
	var (
		sampling samplingSettings
		addr     string
		workers  = 4
	)
	cmd := &cli.Command{
		Name:  "serve",
		Flags: samplingFlags(&sampling),
		Action: func(_ context.Context, c *cli.Command) error {
			applyServeConfig(c, cfg, &addr, &workers, &sampling)
			return nil
		},
	}
	if err := cmd.Run(context.Background(), append([]string{"serve"}, args...)); err != nil {
		t.Fatalf("run: %v", err)
	}
	return sampling, workers
}

func TestServeSamplingConfig(t *testing.T) {
	t.Parallel()

	temp, steps, workers := 0.6, 40, 2
	cfg := Config{Temperature: &temp, MaxSteps: &steps, Workers: &workers}

	got, w := runServeConfig(t, cfg)
	if got.temperature != 0.6 || got.maxSteps != 40 || w != 2 {
		t.Fatalf("config file not applied: %+v workers=%d", got, w)
	}

	got, _ = runServeConfig(t, cfg, "--temperature", "1.5", "--max-steps", "0")
	if got.temperature != 1.5 || got.maxSteps != 0 {
		t.Fatalf("flags should win over config: %+v", got)
	}

	ic := got.apply(inference.Config{Workers: 3})
	if ic.Temperature != 1.5 || ic.MaxSteps != 0 || ic.Workers != 3 {
		t.Fatalf("unexpected orchestrator config %+v", ic)
	}
}
