// Package client calls a running novaform server.
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

	"github.com/goliatone/go-novaform/pkg/api"
	"github.com/goliatone/go-novaform/pkg/demo"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("client: status %d: %s", e.Code, e.Message)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// Client talks to the submission API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("client: invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(parsed.String(), "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Submit posts the form and returns the rendered document handle.
func (c *Client) Submit(ctx context.Context, form demo.DemoForm, meta demo.MetaData) (api.SubmitResponse, error) {
	resp, err := c.post(ctx, api.PathSubmit, "application/json", api.SubmitRequest{FormData: form, MetaData: meta})
	if err != nil {
		return api.SubmitResponse{}, err
	}
	defer resp.Body.Close()

	var out api.SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return api.SubmitResponse{}, fmt.Errorf("client: decode submit response: %w", err)
	}
	return out, nil
}

// Preview returns the read-only HTML fragment for the form.
func (c *Client) Preview(ctx context.Context, form demo.DemoForm, meta demo.MetaData) (string, error) {
	resp, err := c.post(ctx, api.PathPreview, "text/html", api.SubmitRequest{FormData: form, MetaData: meta})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("client: read preview: %w", err)
	}
	return string(body), nil
}

// Download copies the rendered document id into w.
func (c *Client) Download(ctx context.Context, id string, w io.Writer) (int64, error) {
	if strings.TrimSpace(id) == "" {
		return 0, errors.New("client: document id is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+api.RenderPath(url.PathEscape(id)), nil)
	if err != nil {
		return 0, fmt.Errorf("client: create request: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("client: download %s: %w", id, err)
	}
	return n, nil
}

func (c *Client) post(ctx context.Context, path, accept string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("client: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	statusErr := &StatusError{Code: resp.StatusCode}
	var payload api.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err == nil {
		statusErr.Message = payload.Error
	}
	return nil, statusErr
}
