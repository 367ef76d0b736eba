package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/relay"
	"github.com/hyperjump/snippetsaver/internal/server"
)

// ErrNotFound is returned when the daemon answers 404.
var ErrNotFound = errors.New("not found")

// Client talks to a running snippetsaver daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the daemon at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ListSnippets returns stored snippets, filtered by q when non-empty.
func (c *Client) ListSnippets(ctx context.Context, q string, fuzzy bool) (*server.SnippetList, error) {
	v := url.Values{}
	if q != "" {
		v.Set("q", q)
	}
	if fuzzy {
		v.Set("fuzzy", "true")
	}
	path := "/api/v1/snippets"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var out server.SnippetList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search runs a ranked search on the daemon.
func (c *Client) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	v := url.Values{}
	v.Set("q", query.Query)
	if query.Fuzzy {
		v.Set("fuzzy", "true")
	}
	if query.Limit > 0 {
		v.Set("limit", strconv.Itoa(query.Limit))
	}
	var out models.SearchResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/search?"+v.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSnippet fetches one snippet by ID.
func (c *Client) GetSnippet(ctx context.Context, id int64) (*models.Snippet, error) {
	var out models.Snippet
	if err := c.do(ctx, http.MethodGet, "/api/v1/snippets/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSnippet removes the snippet with the given ID.
func (c *Client) DeleteSnippet(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/snippets/"+strconv.FormatInt(id, 10), nil, nil)
}

// Status returns daemon status.
func (c *Client) Status(ctx context.Context) (*server.Status, error) {
	var out server.Status
	if err := c.do(ctx, http.MethodGet, "/api/v1/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NotionConfig returns the masked credential view.
func (c *Client) NotionConfig(ctx context.Context) (*server.NotionConfigView, error) {
	var out server.NotionConfigView
	if err := c.do(ctx, http.MethodGet, "/api/v1/config/notion", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetNotionConfig stores credentials on the daemon.
func (c *Client) SetNotionConfig(ctx context.Context, cfg models.NotionConfig) error {
	return c.do(ctx, http.MethodPut, "/api/v1/config/notion", cfg, nil)
}

// TestNotionConfig asks the daemon to verify the stored credentials.
func (c *Client) TestNotionConfig(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/config/notion/test", nil, nil)
}

// ContextMenu invokes the daemon's selection context-menu entry and returns the
// message the page side should act on.
func (c *Client) ContextMenu(ctx context.Context, selectionText, pageURL string) (*relay.Request, error) {
	var out relay.Request
	in := server.ContextMenuRequest{SelectionText: selectionText, PageURL: pageURL}
	if err := c.do(ctx, http.MethodPost, "/api/v1/context-menu", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, errorMessage(resp.Body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, errorMessage(resp.Body))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// errorMessage extracts the "error" field of a JSON error body, falling back to the raw text.
func errorMessage(r io.Reader) string {
	b, _ := io.ReadAll(r)
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(b))
}
