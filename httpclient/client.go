package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	apperrors "github.com/kbukum/podscribe/errors"
	"github.com/kbukum/podscribe/resilience"
)

// Client is an HTTP client with retries and a circuit breaker.
type Client struct {
	httpClient *http.Client
	config     Config
	retry      resilience.RetryConfig
	breaker    *resilience.CircuitBreaker
	limiter    *rate.Limiter
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		config:  cfg,
		retry:   cfg.Resilience.Retry(),
		breaker: cfg.Resilience.Breaker(cfg.Name),
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)
	}
	return c, nil
}

// Name returns the service name the client was configured with.
func (c *Client) Name() string { return c.config.Name }

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.config.BaseURL }

// Breaker exposes the client's circuit breaker for health reporting.
func (c *Client) Breaker() *resilience.CircuitBreaker { return c.breaker }

// Do executes a request and reads the complete response. Non-2xx statuses
// are returned as errors alongside the response.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	retry := c.retry
	if !replayable(req.Body) {
		retry.MaxAttempts = 1
	}
	return resilience.GuardValue(ctx, retry, c.breaker, func() (*Response, error) {
		return c.doOnce(ctx, req)
	})
}

// DoStream executes a single request and returns the open body. The caller
// must close the returned StreamResponse.
func (c *Client) DoStream(ctx context.Context, req Request) (*StreamResponse, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(c.config.Name, err)
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		return nil, ClassifyStatus(c.config.Name, resp.StatusCode, body)
	}

	return &StreamResponse{
		StatusCode:    resp.StatusCode,
		Headers:       resp.Header,
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
		URL:           resp.Request.URL.String(),
	}, nil
}

func (c *Client) doOnce(ctx context.Context, req Request) (*Response, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	httpReq, err := c.buildRequest(attemptCtx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == nil && attemptCtx.Err() != nil {
			// Only this attempt ran out of time; leave it retryable.
			return nil, apperrors.Timeout(c.config.Name).
				WithCause(fmt.Errorf("no response within %s", c.config.Timeout))
		}
		return nil, classifyTransport(c.config.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ConnectionFailed(c.config.Name).WithCause(fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}
	if err := ClassifyStatus(c.config.Name, resp.StatusCode, body); err != nil {
		return result, err
	}
	return result, nil
}

// wait blocks until the rate limiter admits a request.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.RateLimited().WithDetail("service", c.config.Name).WithCause(err)
	}
	return nil
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, apperrors.InvalidInput("body", err.Error())
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		if body != nil {
			_ = body.Close()
		}
		return nil, apperrors.InvalidInput("url", err.Error())
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

// encodeBody converts a body value into a reader and its content type.
func encodeBody(body any) (io.ReadCloser, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case *MultipartBody:
		return v.open()
	case []byte:
		return io.NopCloser(bytes.NewReader(v)), "", nil
	case string:
		return io.NopCloser(strings.NewReader(v)), "text/plain", nil
	case io.Reader:
		return io.NopCloser(v), "", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return io.NopCloser(bytes.NewReader(data)), "application/json", nil
	}
}
