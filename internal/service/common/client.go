//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nudnik/nudnik/internal/challenge"
	"github.com/nudnik/nudnik/internal/config"
	domain "github.com/nudnik/nudnik/internal/domain/alarm"
)

// Client wraps the alarm HTTP API with convenience helpers.
type Client struct {
	// baseURL is the root of the alarm API, e.g. "http://127.0.0.1:8484".
	baseURL string
	// httpClient performs the underlying requests.
	httpClient *http.Client

	// callTimeout is the default timeout for individual API calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// NewClient creates a client for the alarm server at the given address.
// A bare host:port is completed with the http scheme.
func NewClient(address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	client := &Client{
		baseURL:     strings.TrimRight(address, "/"),
		httpClient:  http.DefaultClient,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// snoozeResponse mirrors the API's snooze payload.
type snoozeResponse struct {
	FiresAt time.Time `json:"firesAt"`
}

// toggleRequest mirrors the API's toggle payload.
type toggleRequest struct {
	Enabled bool `json:"enabled"`
}

// errorResponse mirrors the API's error payload.
type errorResponse struct {
	Error string `json:"error"`
}

// ListAlarms retrieves the full alarm collection.
func (c *Client) ListAlarms(ctx context.Context) ([]*domain.Alarm, error) {
	var alarms []*domain.Alarm
	if err := c.call(ctx, http.MethodGet, "/api/v1/alarms", nil, &alarms); err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}

	return alarms, nil
}

// GetAlarm retrieves a single alarm by id.
func (c *Client) GetAlarm(ctx context.Context, id string) (*domain.Alarm, error) {
	var found domain.Alarm
	if err := c.call(ctx, http.MethodGet, "/api/v1/alarms/"+id, nil, &found); err != nil {
		return nil, fmt.Errorf("get alarm: %w", err)
	}

	return &found, nil
}

// AddAlarm creates an alarm from the draft and returns the stored record.
func (c *Client) AddAlarm(ctx context.Context, draft domain.Draft) (*domain.Alarm, error) {
	var created domain.Alarm
	if err := c.call(ctx, http.MethodPost, "/api/v1/alarms", draft, &created); err != nil {
		return nil, fmt.Errorf("add alarm: %w", err)
	}

	return &created, nil
}

// UpdateAlarm replaces the alarm's editable fields.
func (c *Client) UpdateAlarm(ctx context.Context, id string, draft domain.Draft) (*domain.Alarm, error) {
	var updated domain.Alarm
	if err := c.call(ctx, http.MethodPut, "/api/v1/alarms/"+id, draft, &updated); err != nil {
		return nil, fmt.Errorf("update alarm: %w", err)
	}

	return &updated, nil
}

// ToggleAlarm enables or disables the alarm.
func (c *Client) ToggleAlarm(ctx context.Context, id string, enabled bool) (*domain.Alarm, error) {
	var toggled domain.Alarm
	if err := c.call(ctx, http.MethodPost, "/api/v1/alarms/"+id+"/toggle", toggleRequest{Enabled: enabled}, &toggled); err != nil {
		return nil, fmt.Errorf("toggle alarm: %w", err)
	}

	return &toggled, nil
}

// DeleteAlarm removes the alarm from the collection.
func (c *Client) DeleteAlarm(ctx context.Context, id string) error {
	if err := c.call(ctx, http.MethodDelete, "/api/v1/alarms/"+id, nil, nil); err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}

	return nil
}

// SnoozeAlarm arms the alarm's snooze notification and returns its fire time.
func (c *Client) SnoozeAlarm(ctx context.Context, id string) (time.Time, error) {
	var snoozed snoozeResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/alarms/"+id+"/snooze", nil, &snoozed); err != nil {
		return time.Time{}, fmt.Errorf("snooze alarm: %w", err)
	}

	return snoozed.FiresAt, nil
}

// Challenge retrieves the wake-up challenge for the alarm.
func (c *Client) Challenge(ctx context.Context, id string) (challenge.Info, error) {
	var info challenge.Info
	if err := c.call(ctx, http.MethodGet, "/api/v1/alarms/"+id+"/challenge", nil, &info); err != nil {
		return challenge.Info{}, fmt.Errorf("get challenge: %w", err)
	}

	return info, nil
}

// Dismiss submits a dismissal attempt.
func (c *Client) Dismiss(ctx context.Context, id string, attempt challenge.Attempt) (challenge.Outcome, error) {
	var outcome challenge.Outcome
	if err := c.call(ctx, http.MethodPost, "/api/v1/alarms/"+id+"/dismiss", attempt, &outcome); err != nil {
		return challenge.Outcome{}, fmt.Errorf("dismiss alarm: %w", err)
	}

	return outcome, nil
}

// call performs one API request with the default per-call timeout.
func (c *Client) call(ctx context.Context, method, path string, body, into any) error {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, &payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		// 404 is mapped back onto the domain sentinel for callers.
		var failure errorResponse

		_ = json.NewDecoder(resp.Body).Decode(&failure)

		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, failure.Error)
		}

		return fmt.Errorf("server rejected request (%d): %s", resp.StatusCode, failure.Error)
	}

	if into == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
