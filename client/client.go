// Package client talks to a portal backend over HTTP. It fetches form
// definitions, posts submissions and retrieves the submissions listing.
package client

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
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coverleaf/go-portal/pkg/schema"
	"github.com/coverleaf/go-portal/pkg/table"
)

const (
	formsPath       = "/forms"
	submitPath      = "/forms/submit"
	submissionsPath = "/forms/submissions"

	defaultTimeout = 10 * time.Second
)

// Client is safe for concurrent use once constructed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New builds a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, errors.New("client: base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("client: invalid base url: %w", err)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Forms fetches every published form definition.
func (c *Client) Forms(ctx context.Context) ([]schema.Form, error) {
	data, err := c.get(ctx, formsPath)
	if err != nil {
		return nil, err
	}
	forms, err := schema.Decode(data)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Int("forms", len(forms)).Msg("fetched form definitions")
	return forms, nil
}

// Submit posts a completed form's values. A non-2xx response is an error.
func (c *Client) Submit(ctx context.Context, values map[string]any) error {
	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("client: encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submitPath, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().Str("status", resp.Status).Msg("submission rejected")
		return fmt.Errorf("client: submit: unexpected status %s", resp.Status)
	}
	c.logger.Info().Msg("submission accepted")
	return nil
}

// Submissions fetches the listing used by the tabular view. Rows that arrive
// without an id are assigned one so the view can track them.
func (c *Client) Submissions(ctx context.Context) (table.Submissions, error) {
	data, err := c.get(ctx, submissionsPath)
	if err != nil {
		return table.Submissions{}, err
	}

	var subs table.Submissions
	if err := json.Unmarshal(data, &subs); err != nil {
		return table.Submissions{}, fmt.Errorf("client: decode submissions: %w", err)
	}
	for i := range subs.Rows {
		if subs.Rows[i].ID == "" {
			subs.Rows[i].ID = uuid.NewString()
		}
	}
	c.logger.Debug().
		Int("columns", len(subs.Columns)).
		Int("rows", len(subs.Rows)).
		Msg("fetched submissions")
	return subs, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("client: get %s: unexpected status %s", path, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
