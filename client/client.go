package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-services-teamwork/core"
	"github.com/goliatone/go-services-teamwork/transport"
)

// Client talks to the Teamwork Projects API of a single tenant.
type Client struct {
	baseURL   string
	adapter   core.TransportAdapter
	apiKey    string
	subdomain string
}

type Option func(*Client)

// WithTransport replaces the REST adapter, e.g. with a fake in tests.
func WithTransport(adapter core.TransportAdapter) Option {
	return func(c *Client) {
		if adapter != nil {
			c.adapter = adapter
		}
	}
}

// WithHTTPClient keeps the REST adapter but sends through doer.
func WithHTTPClient(doer transport.HTTPDoer) Option {
	return func(c *Client) {
		c.adapter = newRESTAdapter(doer, c.apiKey)
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if base := strings.TrimRight(strings.TrimSpace(baseURL), "/"); base != "" {
			c.baseURL = base
		}
	}
}

// New builds a client handle. Nothing is sent over the network here.
func New(apiKey, subdomain string, opts ...Option) *Client {
	cfg := core.Config{APIKey: apiKey, Subdomain: subdomain}
	c := &Client{
		baseURL:   cfg.BaseURL(),
		apiKey:    apiKey,
		subdomain: subdomain,
	}
	c.adapter = newRESTAdapter(nil, apiKey)
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Factory is the default core.ClientFactory.
func Factory(opts ...Option) core.ClientFactory {
	return func(cfg core.Config) (core.Client, error) {
		all := append([]Option{WithBaseURL(cfg.APIBaseURL)}, opts...)
		return New(cfg.APIKey, cfg.Subdomain, all...), nil
	}
}

func newRESTAdapter(doer transport.HTTPDoer, apiKey string) *transport.RESTAdapter {
	adapter := transport.NewRESTAdapter(doer)
	if strings.TrimSpace(apiKey) != "" {
		adapter.Auth = &transport.BasicAuth{Username: apiKey, Password: "x"}
	}
	return adapter
}

func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

func (c *Client) Subdomain() string {
	if c == nil {
		return ""
	}
	return c.subdomain
}

// Do sends req as is when req.URL is absolute, otherwise resolves it
// against the base URL.
func (c *Client) Do(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if c == nil || c.adapter == nil {
		return core.TransportResponse{}, clientError("client: teamwork client is not configured",
			goerrors.CategoryInternal, nil)
	}
	req.URL = c.resolve(req.URL)
	return c.adapter.Do(ctx, req)
}

func (c *Client) Get(ctx context.Context, path string, query map[string]string, out any) error {
	return c.call(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in any, out any) error {
	return c.call(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in any, out any) error {
	return c.call(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) call(
	ctx context.Context,
	method string,
	path string,
	query map[string]string,
	in any,
	out any,
) error {
	var body []byte
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return clientWrapError(err, goerrors.CategoryBadInput, "client: encode request body",
				map[string]any{"method": method, "path": path})
		}
		body = encoded
	}
	res, err := c.Do(ctx, core.TransportRequest{
		Method: method,
		URL:    path,
		Query:  query,
		Body:   body,
	})
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return statusError(method, path, res)
	}
	if out == nil || len(bytes.TrimSpace(res.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return clientWrapError(err, goerrors.CategoryExternal, "client: decode response body",
			map[string]any{"method": method, "path": path, "status_code": res.StatusCode})
	}
	return nil
}

func (c *Client) resolve(path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" {
		return c.baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func statusError(method, path string, res core.TransportResponse) error {
	category := goerrors.CategoryExternal
	switch res.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		category = goerrors.CategoryBadInput
	case http.StatusUnauthorized:
		category = goerrors.CategoryAuth
	case http.StatusForbidden:
		category = goerrors.CategoryAuthz
	case http.StatusNotFound:
		category = goerrors.CategoryNotFound
	case http.StatusTooManyRequests:
		category = goerrors.CategoryRateLimit
	}
	metadata := map[string]any{
		"method":      method,
		"path":        path,
		"status_code": res.StatusCode,
	}
	if snippet := strings.TrimSpace(string(res.Body)); snippet != "" {
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		metadata["response"] = snippet
	}
	return clientError(
		fmt.Sprintf("client: teamwork api returned status %d for %s %s", res.StatusCode, method, path),
		category,
		metadata,
	)
}

var _ core.Client = (*Client)(nil)
