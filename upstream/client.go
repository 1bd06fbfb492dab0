package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sounak286/RAKSHA-SATHI/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	apiKeyHeader     = "X-API-Key"
	maxResponseBytes = 10 << 20
	maxErrorBody     = 512
)

var ErrInvalidResponse = errors.New("upstream returned an invalid response")

// StatusError is returned for any non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Client talks to the CCTNS REST API. Every request carries the API key and,
// when client credentials are configured, an OAuth2 bearer token.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the HTTP client. OAuth2 wrapping is skipped.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(cfg config.UpstreamConfig, options ...Option) (*Client, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, errors.Errorf("[upstream New] invalid base url %q", cfg.BaseURL)
	}

	c := &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.OAuthEnabled() {
		c.httpClient = oauthClient(cfg)
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// oauthClient returns an HTTP client that fetches and refreshes client
// credential tokens from cfg.OAuthURL.
func oauthClient(cfg config.UpstreamConfig) *http.Client {
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.OAuthURL,
		Scopes:       strings.Fields(cfg.Scope),
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})
	httpClient := cc.Client(tokenCtx)
	httpClient.Timeout = cfg.Timeout
	return httpClient
}

// Get issues GET path?params and returns the JSON body.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	u := c.baseURL.JoinPath(path)
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "[upstream Get]")
	}
	return c.do(req)
}

// Post sends body as JSON to path and returns the JSON response body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "[upstream Post] encode body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.JoinPath(path).String(), bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "[upstream Post]")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[upstream] %s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, errors.Wrapf(err, "[upstream] read %s", req.URL.Path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(body, maxErrorBody)}
	}
	if len(body) > maxResponseBytes {
		return nil, errors.Wrapf(ErrInvalidResponse, "%s body exceeds %d bytes", req.URL.Path, maxResponseBytes)
	}
	if !json.Valid(body) {
		return nil, errors.Wrapf(ErrInvalidResponse, "%s body is not JSON", req.URL.Path)
	}
	return json.RawMessage(body), nil
}

func truncate(body []byte, n int) string {
	if len(body) > n {
		return string(body[:n]) + "..."
	}
	return string(body)
}
