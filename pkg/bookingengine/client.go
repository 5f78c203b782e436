package bookingengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rentable/rentable-backend/pkg/config"
	pkgerrors "github.com/rentable/rentable-backend/pkg/errors"
	"github.com/rentable/rentable-backend/pkg/logger"
)

const apiKeyHeader = "X-API-Key"

var (
	errBaseURLRequired = errors.New("booking engine base url is required")
	errLoggerRequired  = errors.New("booking engine logger is required")

	// ErrSyncDisabled marks calls made while no API key is configured.
	// Callers treat it as a no-op, not a failure.
	ErrSyncDisabled = errors.New("booking engine sync is disabled")
)

// Client exposes booking-engine primitives with centralized auth, logging, and
// error mapping. When no API key is configured the client stays in disabled
// mode: every call returns ErrSyncDisabled after a single warning log.
type Client struct {
	http         *http.Client
	baseURL      string
	apiKey       string
	adminAPIKey  string
	logger       *logger.Logger
	disabledOnce sync.Once
}

// NewClient initializes the booking engine wrapper.
func NewClient(ctx context.Context, cfg config.BookingEngineConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	c := &Client{
		http:        &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		adminAPIKey: strings.TrimSpace(cfg.AdminAPIKey),
		logger:      logg,
	}

	if c.Enabled() {
		logg.Info(ctx, "booking engine client initialized")
	}
	return c, nil
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

func (c *Client) guardEnabled(ctx context.Context) error {
	if c.Enabled() {
		return nil
	}
	c.disabledOnce.Do(func() {
		c.logger.Warn(ctx, "booking engine API key not configured, sync disabled")
	})
	return ErrSyncDisabled
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding booking engine request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building booking engine request")
	}
	req.Header.Set(apiKeyHeader, c.requestKey(path))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log(ctx, "error", method, path, map[string]any{"error": err.Error()})
		return pkgerrors.Wrap(pkgerrors.CodeRemoteUnreachable, err, "booking engine request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemoteUnreachable, err, "reading booking engine response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log(ctx, "error", method, path, map[string]any{
			"status": resp.StatusCode,
			"body":   truncate(string(raw), 512),
			"error":  fmt.Sprintf("unexpected status %d", resp.StatusCode),
		})
		return pkgerrors.New(
			domainCodeForStatus(resp.StatusCode),
			fmt.Sprintf("booking engine %s %s returned %d", method, path, resp.StatusCode),
		)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeProjection, err, "decoding booking engine response")
		}
	}
	return nil
}

// requestKey picks the admin key for tenant administration paths when one is
// configured.
func (c *Client) requestKey(path string) string {
	if c.adminAPIKey != "" && strings.HasPrefix(path, "/api/tenants") {
		return c.adminAPIKey
	}
	return c.apiKey
}

func (c *Client) log(ctx context.Context, phase, method, path string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"method": method,
		"path":   path,
		"phase":  phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("booking engine %s %s", method, path), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("booking engine %s", phase))
	}
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.CodeValidation
	default:
		if status >= 500 {
			return pkgerrors.CodeRemoteUnreachable
		}
		return pkgerrors.CodeProjection
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
