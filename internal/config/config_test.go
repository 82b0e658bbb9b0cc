// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, config files, environment and .env overrides
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// inTempDir runs the test from an empty directory so no stray .env is read
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Backend != "malgo" {
		t.Errorf("expected backend malgo, got %s", cfg.Backend)
	}
	if cfg.SampleRate != 48000 {
		t.Errorf("expected sample rate 48000, got %d", cfg.SampleRate)
	}
	if cfg.BlockSize != 1024 {
		t.Errorf("expected block size 1024, got %d", cfg.BlockSize)
	}
	if cfg.QueueSize != 256 {
		t.Errorf("expected queue size 256, got %d", cfg.QueueSize)
	}
	if cfg.JoinTimeout != time.Second {
		t.Errorf("expected join timeout 1s, got %v", cfg.JoinTimeout)
	}
	if cfg.Resample {
		t.Error("expected resampling off by default")
	}
	if !cfg.MDNS || !cfg.TUI {
		t.Error("expected mdns and tui on by default")
	}
	if cfg.Listen != "0.0.0.0:8927" {
		t.Errorf("expected default listen address, got %s", cfg.Listen)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	inTempDir(t)
	t.Setenv("CHUNKSTREAM_SAMPLE_RATE", "44100")
	t.Setenv("CHUNKSTREAM_BACKEND", "null")
	t.Setenv("CHUNKSTREAM_RESAMPLE", "true")
	t.Setenv("CHUNKSTREAM_JOIN_TIMEOUT", "250ms")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %d", cfg.SampleRate)
	}
	if cfg.Backend != "null" {
		t.Errorf("expected backend null, got %s", cfg.Backend)
	}
	if !cfg.Resample {
		t.Error("expected resampling enabled")
	}
	if cfg.JoinTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms join timeout, got %v", cfg.JoinTimeout)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "chunkstream.yaml")
	content := "backend: oto\nblock_size: 512\nlisten: 127.0.0.1:9000\nmdns: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Backend != "oto" || cfg.BlockSize != 512 {
		t.Errorf("expected oto/512, got %s/%d", cfg.Backend, cfg.BlockSize)
	}
	if cfg.Listen != "127.0.0.1:9000" {
		t.Errorf("expected listen from file, got %s", cfg.Listen)
	}
	if cfg.MDNS {
		t.Error("expected mdns disabled by file")
	}
	if cfg.SampleRate != 48000 {
		t.Errorf("expected default sample rate to survive, got %d", cfg.SampleRate)
	}
}

func TestEnvBeatsConfigFile(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "chunkstream.yaml")
	os.WriteFile(path, []byte("block_size: 512\n"), 0o644)
	t.Setenv("CHUNKSTREAM_BLOCK_SIZE", "256")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BlockSize != 256 {
		t.Errorf("expected env to win, got %d", cfg.BlockSize)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	dir := inTempDir(t)

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := inTempDir(t)
	// Register for cleanup, then clear, so godotenv sees it unset
	t.Setenv("CHUNKSTREAM_QUEUE_SIZE", "")
	os.Unsetenv("CHUNKSTREAM_QUEUE_SIZE")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CHUNKSTREAM_QUEUE_SIZE=32\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.QueueSize != 32 {
		t.Errorf("expected queue size from .env, got %d", cfg.QueueSize)
	}
}

func TestLoadDotEnvMissingIsIgnored(t *testing.T) {
	dir := inTempDir(t)
	if err := LoadDotEnv(filepath.Join(dir, "nope.env")); err != nil {
		t.Errorf("expected missing .env to be ignored, got %v", err)
	}
}

func TestLoadInvalidBackend(t *testing.T) {
	inTempDir(t)
	t.Setenv("CHUNKSTREAM_BACKEND", "jack")

	if _, err := Load(""); err == nil {
		t.Error("expected error for unsupported backend")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Backend: "null", SampleRate: 48000, BlockSize: 1024, QueueSize: 256, JoinTimeout: time.Second}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Backend = "alsa" }},
		{"sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"block size", func(c *Config) { c.BlockSize = -1 }},
		{"queue size", func(c *Config) { c.QueueSize = 0 }},
		{"join timeout", func(c *Config) { c.JoinTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
