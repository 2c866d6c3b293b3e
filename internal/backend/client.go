// Package backend is the HTTP client for the analytics backend that owns
// integration records, sync jobs, and data-point stats. Every call is a
// single round trip with its own timeout; the client never retries and
// never substitutes fabricated data for a failed read.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adbridge/adbridge/internal/apperrors"
)

const (
	defaultRequestTimeout = 15 * time.Second
	defaultPollTimeout    = 10 * time.Second
	maxErrorBodySize      = 1 << 20 // 1 MiB
)

// Session is the caller's bearer credential. It is passed explicitly into
// every call rather than read from ambient state.
type Session struct {
	Token string
}

// Valid reports whether the session carries a usable token.
func (s Session) Valid() bool { return strings.TrimSpace(s.Token) != "" }

// Client talks to the analytics backend.
type Client struct {
	BaseURL        string
	HTTP           *http.Client
	RequestTimeout time.Duration // test/save/probe and other one-shot calls
	PollTimeout    time.Duration // sync-progress poll ticks
}

// New creates a backend client for baseURL.
func New(baseURL string) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("backend base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New("backend base URL must be an http(s) URL")
	}
	return &Client{
		BaseURL:        base,
		HTTP:           &http.Client{},
		RequestTimeout: defaultRequestTimeout,
		PollTimeout:    defaultPollTimeout,
	}, nil
}

// ListProviders fetches the provider catalog, flattened across categories.
func (c *Client) ListProviders(ctx context.Context, session Session) ([]Provider, error) {
	var payload struct {
		Providers map[string][]Provider `json:"providers"`
	}
	if err := c.getJSON(ctx, session, apperrors.StepCatalog, c.RequestTimeout, "/integrations/providers", &payload); err != nil {
		return nil, err
	}
	var out []Provider
	for category, providers := range payload.Providers {
		for _, p := range providers {
			if strings.TrimSpace(p.Category) == "" {
				p.Category = category
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// ListIntegrations fetches the current integration records.
func (c *Client) ListIntegrations(ctx context.Context, session Session) ([]Integration, error) {
	var payload struct {
		Integrations []Integration `json:"integrations"`
	}
	if err := c.getJSON(ctx, session, apperrors.StepIntegrations, c.RequestTimeout, "/integrations", &payload); err != nil {
		return nil, err
	}
	return payload.Integrations, nil
}

// TestCredentials runs the backend's provider-specific credential test.
// A response with valid=false is returned as a TestResult, not an error;
// classifying it is the caller's concern.
func (c *Client) TestCredentials(ctx context.Context, session Session, provider string, req ConnectRequest) (TestResult, error) {
	var result TestResult
	path := "/integrations/" + url.PathEscape(provider) + "/test-credentials"
	if err := c.postJSON(ctx, session, apperrors.StepTesting, c.RequestTimeout, path, req, &result); err != nil {
		return TestResult{}, err
	}
	return result, nil
}

// SaveIntegration persists the connection server-side. The backend keys
// uniqueness on (provider, account identifier) so repeated saves update in
// place rather than duplicating.
func (c *Client) SaveIntegration(ctx context.Context, session Session, provider string, req ConnectRequest) (SaveResult, error) {
	var result SaveResult
	path := "/integrations/" + url.PathEscape(provider) + "/save"
	if err := c.postJSON(ctx, session, apperrors.StepSaving, c.RequestTimeout, path, req, &result); err != nil {
		return SaveResult{}, err
	}
	return result, nil
}

// ProbeAnalyticsEvents runs the optional analytics-events capability probe.
func (c *Client) ProbeAnalyticsEvents(ctx context.Context, session Session, provider string, req ProbeRequest) (ProbeResult, error) {
	var result ProbeResult
	path := "/integrations/" + url.PathEscape(provider) + "/analytics-events"
	if err := c.postJSON(ctx, session, apperrors.StepProbing, c.RequestTimeout, path, req, &result); err != nil {
		return ProbeResult{}, err
	}
	return result, nil
}

// SyncProgress fetches the shared sync-progress snapshot for all
// integrations in one request. Entries are returned raw so a malformed
// entry for one integration cannot poison the rest.
func (c *Client) SyncProgress(ctx context.Context, session Session) (map[string]json.RawMessage, error) {
	var payload struct {
		SyncProgress map[string]json.RawMessage `json:"sync_progress"`
	}
	if err := c.getJSON(ctx, session, apperrors.StepSyncing, c.PollTimeout, "/integrations/sync-progress", &payload); err != nil {
		return nil, err
	}
	return payload.SyncProgress, nil
}

// DataPointsStats fetches the authoritative data-point counts.
func (c *Client) DataPointsStats(ctx context.Context, session Session) (DataPointsStats, error) {
	var stats DataPointsStats
	if err := c.getJSON(ctx, session, apperrors.StepStats, c.RequestTimeout, "/integrations/data-points-stats", &stats); err != nil {
		return DataPointsStats{}, err
	}
	return stats, nil
}

// DeleteIntegration removes an integration record.
func (c *Client) DeleteIntegration(ctx context.Context, session Session, id string) error {
	path := "/integrations/" + url.PathEscape(id)
	_, err := c.do(ctx, session, apperrors.StepDisconnect, c.RequestTimeout, http.MethodDelete, path, nil)
	return err
}

func (c *Client) getJSON(ctx context.Context, session Session, step apperrors.Step, timeout time.Duration, path string, out any) error {
	body, err := c.do(ctx, session, step, timeout, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.decode(step, body, out)
}

func (c *Client) postJSON(ctx context.Context, session Session, step apperrors.Step, timeout time.Duration, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return apperrors.Wrap(apperrors.KindValidation, step, "could not encode request", err)
	}
	body, err := c.do(ctx, session, step, timeout, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	return c.decode(step, body, out)
}

func (c *Client) decode(step apperrors.Step, body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Wrap(apperrors.KindMalformedResponse, step, "backend returned an unreadable response", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, session Session, step apperrors.Step, timeout time.Duration, method, path string, payload []byte) ([]byte, error) {
	if !session.Valid() {
		return nil, apperrors.New(apperrors.KindUnauthenticated, step, "no active session; sign in again")
	}
	if c.HTTP == nil {
		return nil, apperrors.New(apperrors.KindNetwork, step, "backend client is not configured")
	}

	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindNetwork, step, "could not build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(session.Token))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("User-Agent", "adbridge")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.Wrap(apperrors.KindTimeout, step, "the backend did not respond in time", err)
		}
		return nil, apperrors.Wrap(apperrors.KindNetwork, step, "could not reach the backend", err)
	}
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	resp.Body.Close()
	if readErr != nil {
		if isTimeout(readErr) {
			return nil, apperrors.Wrap(apperrors.KindTimeout, step, "the backend did not respond in time", readErr)
		}
		return nil, apperrors.Wrap(apperrors.KindNetwork, step, "could not read backend response", readErr)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apperrors.New(apperrors.KindUnauthenticated, step, "session expired or invalid; sign in again")
	case resp.StatusCode == http.StatusConflict:
		msg := extractAPIErrorMessage(body)
		if msg == "" {
			msg = "the backend reported a conflicting integration"
		}
		return nil, apperrors.New(apperrors.KindConflict, step, msg)
	default:
		msg := extractAPIErrorMessage(body)
		if msg == "" {
			msg = resp.Status
		}
		return nil, apperrors.New(apperrors.KindServer, step, msg)
	}
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if os.IsTimeout(err) {
		return true
	}
	var timeoutErr interface {
		Timeout() bool
	}
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}

// extractAPIErrorMessage pulls a human-readable message out of a backend
// error body, tolerating the usual envelope variants.
func extractAPIErrorMessage(body []byte) string {
	var payload struct {
		Errors  []string `json:"errors"`
		Error   string   `json:"error"`
		Message string   `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Errors) > 0 {
			if first := strings.TrimSpace(payload.Errors[0]); first != "" {
				return first
			}
		}
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return ""
	}
	if strings.HasPrefix(msg, "<!DOCTYPE html") || strings.HasPrefix(msg, "<html") {
		return ""
	}
	msg = strings.Join(strings.Fields(msg), " ")
	const maxLen = 300
	if len(msg) > maxLen {
		msg = msg[:maxLen] + "…"
	}
	return msg
}
