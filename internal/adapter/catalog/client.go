// Package catalog is the HTTP client for the commerce platform's Admin API.
// It covers the three reads the pipeline needs: the audit event log (REST),
// inventory levels by location and the variant behind an inventory item
// (GraphQL). Calls are authenticated per tenant, rate limited per tenant and
// share one circuit breaker.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/heartmarshall/storewatch/internal/config"
	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/metrics"
)

const maxResponseBytes = 4 << 20

// credentials resolves the access token of a tenant.
type credentials interface {
	Get(ctx context.Context, tenant string) (*domain.Tenant, error)
}

// StatusError is a non-2xx response from the platform.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog: unexpected status %d: %s", e.Code, e.Body)
}

// Transient reports whether a retry may succeed.
func (e *StatusError) Transient() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return nil
}

// Client talks to the platform Admin API.
type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	creds      credentials
	breaker    *gobreaker.CircuitBreaker[[]byte]
	log        *slog.Logger

	rateLimit rate.Limit
	rateBurst int
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
}

// New creates a Client. With an empty cfg.BaseURL requests go to
// https://<tenant>.
func New(cfg config.CatalogConfig, creds credentials, logger *slog.Logger) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		creds:      creds,
		log:        logger.With("adapter", "catalog"),
		rateLimit:  rate.Limit(cfg.RateLimit),
		rateBurst:  cfg.RateBurst,
		limiters:   make(map[string]*rate.Limiter),
	}

	failures := cfg.BreakerFailures
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "catalog",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return c
}

// countsAsSuccess keeps client-side errors from tripping the breaker: only
// transport failures, throttling and 5xx mean the platform is unhealthy.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return !se.Transient()
	}
	return false
}

func (c *Client) limiter(tenant string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.limiters[tenant]
	if !ok {
		l = rate.NewLimiter(c.rateLimit, c.rateBurst)
		c.limiters[tenant] = l
	}
	return l
}

func (c *Client) endpoint(tenant, resource string) string {
	base := c.baseURL
	if base == "" {
		base = "https://" + tenant
	}
	return base + "/admin/api/" + c.apiVersion + "/" + resource
}

// do sends one authenticated request and returns the response body.
func (c *Client) do(ctx context.Context, tenant, op, method, resource string, query url.Values, body []byte) ([]byte, error) {
	t, err := c.creds.Get(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("catalog: credentials for %s: %w", tenant, err)
	}

	if err := c.limiter(tenant).Wait(ctx); err != nil {
		return nil, fmt.Errorf("catalog: rate limit wait: %w", err)
	}

	reqURL := c.endpoint(tenant, resource)
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, fmt.Errorf("catalog: create request: %w", err)
		}
		req.Header.Set("X-Shopify-Access-Token", t.AccessToken)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", op, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("catalog: read body: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(data), 200)}
		}
		return data, nil
	})
	metrics.RecordCatalogRequest(op, time.Since(start), err)

	if err != nil {
		c.log.WarnContext(ctx, "catalog request failed",
			slog.String("op", op),
			slog.String("tenant", tenant),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.log.DebugContext(ctx, "catalog request",
		slog.String("op", op),
		slog.String("tenant", tenant),
		slog.Duration("duration", time.Since(start)),
	)
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
