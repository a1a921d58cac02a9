package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/glitchid/pkg/cache"
	apperr "github.com/matzehuels/glitchid/pkg/errors"
	"github.com/matzehuels/glitchid/pkg/observability"
)

// Client provides shared HTTP functionality for all avatar providers.
// It handles caching, retry logic, and common request headers.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	prefix   string
	ttl      time.Duration
	headers  map[string]string
	maxBytes int64
}

// NewClient creates a Client with the given cache and default headers.
// Cache keys are prefixed with prefix. A nil cache disables caching.
// Pass nil for headers if no default headers are needed.
func NewClient(c cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:     NewHTTPClient(),
		cache:    c,
		prefix:   prefix,
		ttl:      ttl,
		headers:  headers,
		maxBytes: MaxImageBytes,
	}
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored as JSON.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	key = c.prefix + key
	hooks := observability.Cache()
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				hooks.OnCacheHit(ctx, "http")
				return nil
			}
		}
		hooks.OnCacheMiss(ctx, "http")
	}
	if err := cache.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, "http", len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

// FetchImage downloads an image, caching the bytes under its URL.
// Bodies larger than MaxImageBytes fail with an [apperr.TooLargeError].
func (c *Client) FetchImage(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "invalid image URL %q", rawURL)
	}

	var data []byte
	err = c.Cached(ctx, "image:"+cache.Hash([]byte(rawURL)), refresh, &data, func() error {
		var err error
		data, err = c.download(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// FetchAvatar downloads the image at rawURL as an anonymous avatar.
func (c *Client) FetchAvatar(ctx context.Context, rawURL string, refresh bool) (*Avatar, error) {
	data, err := c.FetchImage(ctx, rawURL, refresh)
	if err != nil {
		return nil, err
	}
	return &Avatar{Provider: "url", URL: rawURL, Data: data}, nil
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	body, err := c.doRequest(ctx, url, map[string]string{"Accept": "image/*"})
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(body, c.maxBytes+1))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	if n > c.maxBytes {
		return nil, &apperr.TooLargeError{Limit: c.maxBytes}
	}
	return buf.Bytes(), nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

var _ AvatarSource = (*Client)(nil)
