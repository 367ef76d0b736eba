// Package notion is a minimal client for the Notion REST API: appending a
// snippet to a page and checking that a page is reachable.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hyperjump/snippetsaver/internal/models"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL    = "https://api.notion.com"
	DefaultAPIVersion = "2022-06-28"

	// localTimeLayout mirrors a browser's default en-US toLocaleString output.
	localTimeLayout = "1/2/2006, 3:04:05 PM"
)

// ErrMissingCredentials is returned before any request when the token or page id is empty.
var ErrMissingCredentials = errors.New("notion credentials are not configured")

// APIError is a non-success response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Payload is a snippet to append to the configured page.
type Payload struct {
	Title       string
	Content     string
	URL         string
	Credentials models.NotionConfig
}

// Client talks to the Notion API. Every call is a single attempt: no retry, no backoff.
type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	now        func() time.Time
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host (tests use httptest servers).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithAPIVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.apiVersion = v
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithClock overrides the time source used for the "Saved:" annotation.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiVersion: DefaultAPIVersion,
		httpClient: &http.Client{},
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizePageID accepts a raw id, a hyphenated id, or a pasted page URL and
// returns the bare id: query string dropped, last path segment kept, hyphens removed.
// NormalizePageID is idempotent.
func NormalizePageID(pageID string) string {
	id := strings.TrimSpace(pageID)
	if i := strings.IndexByte(id, '?'); i >= 0 {
		id = id[:i]
	}
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	return strings.ReplaceAll(id, "-", "")
}

// Send appends p as four blocks to the configured page.
// A non-success status returns *APIError; a transport failure returns the transport error.
func (c *Client) Send(ctx context.Context, p Payload) error {
	if !p.Credentials.Complete() {
		return ErrMissingCredentials
	}
	pageID := NormalizePageID(p.Credentials.TargetPageID)
	saved := c.now().Local().Format(localTimeLayout)
	body, err := json.Marshal(AppendRequest{Children: SnippetBlocks(p.Title, p.Content, p.URL, saved)})
	if err != nil {
		return fmt.Errorf("failed to encode blocks: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/blocks/%s/children", c.baseURL, pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req, p.Credentials.IntegrationToken)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("notion append", zap.String("page_id", pageID), zap.Int("content_len", len(p.Content)))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("notion append failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	apiErr := decodeAPIError(resp, "Failed to save")
	c.logger.Warn("notion append rejected", zap.Int("status", apiErr.Status), zap.String("message", apiErr.Message))
	return apiErr
}

// TestConnection reads the configured page to check the token and page id.
func (c *Client) TestConnection(ctx context.Context, cfg models.NotionConfig) error {
	if !cfg.Complete() {
		return ErrMissingCredentials
	}
	endpoint := fmt.Sprintf("%s/v1/pages/%s", c.baseURL, NormalizePageID(cfg.TargetPageID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, cfg.IntegrationToken)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return decodeAPIError(resp, "Connection failed")
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", c.apiVersion)
}

func decodeAPIError(resp *http.Response, fallback string) *APIError {
	var body struct {
		Message string `json:"message"`
	}
	apiErr := &APIError{Status: resp.StatusCode, Message: fallback}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
