package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestLoadArgs_Defaults(t *testing.T) {
	cfg, err := loadArgs([]string{"--timezone", "UTC"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.DBPath != "./feast.db" {
		t.Errorf("Expected db path './feast.db', got '%s'", cfg.DBPath)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("Expected worker count 3, got %d", cfg.WorkerCount)
	}
	if cfg.QueueSize != 300 {
		t.Errorf("Expected queue size 300, got %d", cfg.QueueSize)
	}
	if cfg.MaxRedirects != 5 {
		t.Errorf("Expected max redirects 5, got %d", cfg.MaxRedirects)
	}
	if cfg.MaxBodyBytes != 10*1024*1024 {
		t.Errorf("Expected max body bytes 10MB, got %d", cfg.MaxBodyBytes)
	}
	if cfg.FetchTimeoutDuration() != 30*time.Second {
		t.Errorf("Expected fetch timeout 30s, got %v", cfg.FetchTimeoutDuration())
	}
	if Get() != cfg {
		t.Error("Expected Get to return the loaded configuration")
	}
}

func TestLoadArgs_Flags(t *testing.T) {
	cfg, err := loadArgs([]string{
		"--db-path", "/tmp/recipes.db",
		"--port", "9090",
		"--worker-count", "8",
		"--api-key", "secret",
		"--user-agent", "feast-test",
		"--fetch-timeout", "5",
		"--timezone", "UTC",
		"--debug",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.DBPath != "/tmp/recipes.db" {
		t.Errorf("Expected db path '/tmp/recipes.db', got '%s'", cfg.DBPath)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("Expected worker count 8, got %d", cfg.WorkerCount)
	}
	if cfg.APIAccessKey != "secret" {
		t.Errorf("Expected API key 'secret', got '%s'", cfg.APIAccessKey)
	}
	if cfg.UserAgent != "feast-test" {
		t.Errorf("Expected user agent 'feast-test', got '%s'", cfg.UserAgent)
	}
	if cfg.FetchTimeoutDuration() != 5*time.Second {
		t.Errorf("Expected fetch timeout 5s, got %v", cfg.FetchTimeoutDuration())
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}

func TestLoadArgs_Invalid(t *testing.T) {
	tests := [][]string{
		{"--worker-count", "0"},
		{"--queue-size", "0"},
		{"--fetch-timeout", "0"},
		{"--max-redirects", "-1"},
		{"--max-body-bytes", "0"},
		{"--worker-count", "many"},
	}

	for _, args := range tests {
		if _, err := loadArgs(append(args, "--timezone", "UTC")); err == nil {
			t.Errorf("Expected error for %v", args)
		}
	}
}
