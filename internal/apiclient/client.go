package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const defaultTimeout = 15 * time.Second

// Client is the shared outbound HTTP client. It is created once at startup
// and closed at shutdown; it is safe for concurrent use.
type Client struct {
	logger      *zap.Logger
	http        *http.Client
	base        *http.Client // owns the connection pool
	timeout     time.Duration
	userAgent   string
	limiter     *rate.Limiter
	credentials *clientcredentials.Config
	closed      atomic.Bool
}

func New(logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{logger: logger, timeout: defaultTimeout}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.http.Timeout == 0 {
		c.http.Timeout = c.timeout
	}
	c.base = c.http
	if c.credentials != nil {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.base)
		c.http = c.credentials.Client(ctx)
		c.http.Timeout = c.base.Timeout
	}
	return c
}

// Request issues route and returns the decoded JSON body (map, slice or
// scalar) when the response declares application/json, or the body as text
// otherwise. Caller headers override the default Accept header.
func (c *Client) Request(ctx context.Context, route Route, headers map[string]string) (any, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, route.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", route, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", route, err)
	}
	defer res.Body.Close()

	c.logger.Debug("http request", zap.String("method", route.Method), zap.String("url", route.URL), zap.Int("status", res.StatusCode))

	data, err := jsonOrText(res)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", route, err)
	}
	c.logger.Debug("http response", zap.String("method", route.Method), zap.String("url", route.URL), zap.Any("body", data))

	if res.StatusCode == http.StatusOK {
		return data, nil
	}

	httpErr := &HTTPError{Method: route.Method, URL: route.URL, Status: res.StatusCode}
	c.logger.Error("http request failed", zap.String("method", route.Method), zap.String("url", route.URL), zap.Int("status", res.StatusCode))
	return nil, httpErr
}

func (c *Client) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.base.CloseIdleConnections()
}

func jsonOrText(res *http.Response) (any, error) {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if strings.Contains(strings.ToLower(res.Header.Get("Content-Type")), "application/json") {
		var out any
		if err := json.Unmarshal(body, &out); err == nil {
			return out, nil
		}
	}
	return string(body), nil
}
