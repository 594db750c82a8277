package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSetLogger(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	SetLogger(logger)

	// Verify logger is set (we can't easily compare loggers directly)
	// This test mainly ensures the function doesn't panic
}

func TestApplyDefaults(t *testing.T) {
	config := &Config{}
	applyDefaults(config)

	// Test Site defaults
	if config.Site.Name != "Inkwell" {
		t.Errorf("Expected site name 'Inkwell', got %q", config.Site.Name)
	}

	// Test Server defaults
	if config.Server.Host != "0.0.0.0" {
		t.Errorf("Expected host '0.0.0.0', got %q", config.Server.Host)
	}
	if config.Server.Port != "12700" {
		t.Errorf("Expected port '12700', got %q", config.Server.Port)
	}

	// Test Content defaults
	if config.Content.PostsPerPage != 50 {
		t.Errorf("Expected posts per page 50, got %d", config.Content.PostsPerPage)
	}
	if config.Content.Compression != "zstd" {
		t.Errorf("Expected compression 'zstd', got %q", config.Content.Compression)
	}
	if config.Content.SyntaxStyle != "gruvbox" {
		t.Errorf("Expected syntax style 'gruvbox', got %q", config.Content.SyntaxStyle)
	}

	// Test Editor defaults
	if config.Editor.Debounce() != 5*time.Second {
		t.Errorf("Expected debounce 5s, got %v", config.Editor.Debounce())
	}
	if config.Editor.Interval() != 30*time.Second {
		t.Errorf("Expected interval 30s, got %v", config.Editor.Interval())
	}

	// Test Uploads defaults
	if config.Uploads.Backend != "fs" {
		t.Errorf("Expected uploads backend 'fs', got %q", config.Uploads.Backend)
	}
	if config.Uploads.Dir != "./uploads" {
		t.Errorf("Expected uploads dir './uploads', got %q", config.Uploads.Dir)
	}
	if config.Uploads.MaxBytes != 5242880 {
		t.Errorf("Expected max upload size 5 MiB, got %d", config.Uploads.MaxBytes)
	}

	// Test Auth defaults
	if !config.Auth.Enabled {
		t.Error("Expected auth to be enabled by default")
	}

	// Test Logging defaults
	if config.Logging.Level != "info" {
		t.Errorf("Expected log level 'info', got %q", config.Logging.Level)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if err := LoadConfig(filepath.Join(t.TempDir(), "no-such-config.yaml")); err != nil {
		t.Fatalf("Expected defaults for a missing config file, got %v", err)
	}
	if AppConfig == nil {
		t.Fatal("Expected AppConfig to be set")
	}
	if AppConfig.Editor.DebounceSeconds != 5 {
		t.Errorf("Expected default debounce, got %d", AppConfig.Editor.DebounceSeconds)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
site:
  name: Custom Blog
editor:
  debounce_seconds: 2
  interval_seconds: 10
uploads:
  backend: s3
  max_bytes: 1048576
  s3:
    bucket: my-bucket
auth:
  enabled: false
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if err := LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if AppConfig.Site.Name != "Custom Blog" {
		t.Errorf("Expected overridden site name, got %q", AppConfig.Site.Name)
	}
	if AppConfig.Editor.Debounce() != 2*time.Second {
		t.Errorf("Expected debounce 2s, got %v", AppConfig.Editor.Debounce())
	}
	if AppConfig.Editor.Interval() != 10*time.Second {
		t.Errorf("Expected interval 10s, got %v", AppConfig.Editor.Interval())
	}
	if AppConfig.Uploads.Backend != "s3" {
		t.Errorf("Expected uploads backend 's3', got %q", AppConfig.Uploads.Backend)
	}
	if AppConfig.Uploads.S3.Bucket != "my-bucket" {
		t.Errorf("Expected bucket 'my-bucket', got %q", AppConfig.Uploads.S3.Bucket)
	}
	if AppConfig.Auth.Enabled {
		t.Error("Expected auth to be disabled by the config file")
	}

	// Untouched sections keep their defaults.
	if AppConfig.Server.Port != "12700" {
		t.Errorf("Expected default port, got %q", AppConfig.Server.Port)
	}
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("site: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if err := LoadConfig(path); err == nil {
		t.Error("Expected an error for malformed yaml")
	}
}
