package config

import (
	"errors"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr    = ":8080"
	defaultMetricsAddr = ":9090"

	defaultPollInterval   = 30 * time.Second
	defaultRequestTimeout = 15 * time.Second
	defaultPollTimeout    = 10 * time.Second
)

// Config is the process configuration, loaded from the environment
// (optionally seeded from a .env file).
type Config struct {
	BackendURL   string
	SessionToken string
	HTTPAddr     string
	MetricsAddr  string

	PollInterval   time.Duration
	RequestTimeout time.Duration
	PollTimeout    time.Duration
}

type LoadOptions struct {
	RequireBackendURL bool
}

func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireBackendURL: true})
}

// LoadOptionalBackend loads configuration without demanding BACKEND_URL,
// for commands that only print local information.
func LoadOptionalBackend() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireBackendURL: false})
}

func LoadWithOptions(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}

	cfg := Config{
		BackendURL:     strings.TrimRight(strings.TrimSpace(os.Getenv("BACKEND_URL")), "/"),
		SessionToken:   strings.TrimSpace(os.Getenv("SESSION_TOKEN")),
		HTTPAddr:       getenvDefault("HTTP_ADDR", defaultHTTPAddr),
		MetricsAddr:    getenvDefault("METRICS_ADDR", defaultMetricsAddr),
		PollInterval:   getenvDurationDefault("POLL_INTERVAL", defaultPollInterval),
		RequestTimeout: getenvDurationDefault("REQUEST_TIMEOUT", defaultRequestTimeout),
		PollTimeout:    getenvDurationDefault("POLL_TIMEOUT", defaultPollTimeout),
	}

	if opts.RequireBackendURL {
		if cfg.BackendURL == "" {
			return cfg, errors.New("BACKEND_URL is required")
		}
		u, err := url.Parse(cfg.BackendURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return cfg, errors.New("BACKEND_URL must be an http(s) URL")
		}
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvDurationDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
