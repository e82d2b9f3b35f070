package httpclient

import (
	"context"
	"fmt"
	"net/http"
)

// ClientType represents the type of HTTP client configuration
type ClientType string

const (
	// BrowserClient sends browser-like headers; GitHub Pages serves it the
	// same HTML a visitor sees
	BrowserClient ClientType = "browser"

	// CurlClient sends minimal curl-like headers, for hosts behind Cloudflare
	// that block browser-like User-Agents from CI runners
	CurlClient ClientType = "curl"

	// DefaultClient leaves Go's default User-Agent untouched
	DefaultClient ClientType = "default"
)

// ParseClientType maps a flag value to a ClientType
func ParseClientType(s string) (ClientType, error) {
	switch ClientType(s) {
	case BrowserClient, CurlClient, DefaultClient:
		return ClientType(s), nil
	}
	return "", fmt.Errorf("unknown client type %q (want browser, curl or default)", s)
}

// HTTPClient wraps an http.Client with configuration
type HTTPClient struct {
	client     *http.Client
	clientType ClientType
}

// NewClient creates a new HTTP client with the specified type.
// No timeout is set: the caller (usually a CI job) bounds the run.
func NewClient(clientType ClientType) *HTTPClient {
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Follow up to 10 redirects
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	return &HTTPClient{
		client:     client,
		clientType: clientType,
	}
}

// Do executes an HTTP request with the appropriate headers for the client type
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	return c.client.Do(req)
}

// Get is a convenience method for GET requests
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// setHeaders sets the appropriate headers based on client type
func (c *HTTPClient) setHeaders(req *http.Request) {
	switch c.clientType {
	case BrowserClient:
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9,ko;q=0.8")

	case CurlClient:
		req.Header.Set("User-Agent", "curl/8.7.1")

	default:
	}
}
