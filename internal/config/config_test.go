package config

import (
	"testing"
	"time"
)

func setBackendEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BACKEND_URL", "https://backend.example.com/")
	t.Setenv("SESSION_TOKEN", "tok-1")
}

func TestLoadDefaults(t *testing.T) {
	setBackendEnv(t)
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("POLL_INTERVAL", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("POLL_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "https://backend.example.com" {
		t.Fatalf("BackendURL=%q want trailing slash trimmed", cfg.BackendURL)
	}
	if cfg.SessionToken != "tok-1" {
		t.Fatalf("SessionToken=%q", cfg.SessionToken)
	}
	if cfg.HTTPAddr != ":8080" || cfg.MetricsAddr != ":9090" {
		t.Fatalf("addrs=%q/%q", cfg.HTTPAddr, cfg.MetricsAddr)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("PollInterval=%v", cfg.PollInterval)
	}
	if cfg.RequestTimeout != 15*time.Second || cfg.PollTimeout != 10*time.Second {
		t.Fatalf("timeouts=%v/%v", cfg.RequestTimeout, cfg.PollTimeout)
	}
}

func TestLoadRequiresValidBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("missing BACKEND_URL should fail")
	}

	t.Setenv("BACKEND_URL", "ftp://backend")
	if _, err := Load(); err == nil {
		t.Fatal("non-http BACKEND_URL should fail")
	}

	t.Setenv("BACKEND_URL", "ftp://backend")
	if _, err := LoadOptionalBackend(); err != nil {
		t.Fatalf("optional-backend load should not validate BACKEND_URL: %v", err)
	}
}

func TestLoadDurationOverrides(t *testing.T) {
	setBackendEnv(t)
	t.Setenv("POLL_INTERVAL", "5s")
	t.Setenv("REQUEST_TIMEOUT", "2s")
	t.Setenv("POLL_TIMEOUT", "junk")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("PollInterval=%v", cfg.PollInterval)
	}
	if cfg.RequestTimeout != 2*time.Second {
		t.Fatalf("RequestTimeout=%v", cfg.RequestTimeout)
	}
	if cfg.PollTimeout != 10*time.Second {
		t.Fatalf("PollTimeout=%v want default for unparseable value", cfg.PollTimeout)
	}

	t.Setenv("POLL_INTERVAL", "-3s")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("PollInterval=%v want default for non-positive value", cfg.PollInterval)
	}
}
