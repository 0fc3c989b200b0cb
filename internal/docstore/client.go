package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/popcornhub/internal/model"
)

// DefaultTimeout bounds every call to the data service.
const DefaultTimeout = 5 * time.Second

// Client is a Store backed by the data service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a client for the data service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Load fetches the whole document.
func (c *Client) Load(ctx context.Context) (*model.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/data", nil)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StorageError{Op: "load", Err: statusError(resp)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: fmt.Errorf("reading response: %w", err)}
	}

	version, _ := parseETag(resp.Header.Get("ETag"))
	return decode(body, version)
}

// Save replaces the whole document. A document loaded with a version is
// saved conditionally.
func (c *Client) Save(ctx context.Context, doc *model.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+"/data", bytes.NewReader(body))
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if doc.Version > 0 {
		req.Header.Set("If-Match", formatETag(doc.Version))
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
	case http.StatusPreconditionFailed:
		return &StorageError{Op: "save", Err: ErrConflict}
	default:
		return &StorageError{Op: "save", Err: statusError(resp)}
	}

	if version, ok := parseETag(resp.Header.Get("ETag")); ok {
		doc.Version = version
	}
	return nil
}

// Health checks that the data service answers.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
	if body.Error != "" {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
