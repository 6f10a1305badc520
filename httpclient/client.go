package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/agentflow/agentcore/agentcoreerr"
	"github.com/agentflow/agentcore/internal/telemetry"
)

const defaultUserAgent = "agentcore-httpclient/1"

// Doer is satisfied by *http.Client, including the Client field of an entry
// handed back from httpclient/pool.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a thin wrapper over a Doer: it builds *http.Request values from
// Request, injects a default User-Agent, serializes JSON bodies, and caps
// response body reads at MaxBodyBytes.
type Client struct {
	doer      Doer
	userAgent string
	limiter   *rate.Limiter
}

// New wraps doer (typically an *http.Client or a pooled connection).
func New(doer Doer) *Client {
	return &Client{doer: doer, userAgent: defaultUserAgent}
}

// WithUserAgent overrides the default User-Agent injected when the request
// doesn't already set one.
func (c *Client) WithUserAgent(ua string) *Client {
	c.userAgent = ua
	return c
}

// WithRateLimit caps outbound requests to rps with the given burst, using a
// token-bucket limiter. A zero rps disables limiting (the default).
func (c *Client) WithRateLimit(rps float64, burst int) *Client {
	if rps <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Execute(ctx, NewRequest(MethodGet, url))
}

// PostJSON marshals body and issues a POST with Content-Type: application/json.
func (c *Client) PostJSON(ctx context.Context, url string, body any) (*Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: marshal json body: %w", err)
	}
	req := NewRequest(MethodPost, url).WithBody(data)
	req.Header.Set("Content-Type", "application/json")
	return c.Execute(ctx, req)
}

func (c *Client) Put(ctx context.Context, url string, body []byte) (*Response, error) {
	return c.Execute(ctx, NewRequest(MethodPut, url).WithBody(body))
}

func (c *Client) Delete(ctx context.Context, url string) (*Response, error) {
	return c.Execute(ctx, NewRequest(MethodDelete, url))
}

// Execute performs a single request/response round trip with no retry
// behavior of its own — retry/backoff is layered on top by
// httpclient/retry.Engine.
func (c *Client) Execute(ctx context.Context, r *Request) (*Response, error) {
	ctx, span := telemetry.StartSpan(ctx, "httpclient", "execute",
		attribute.String("http.method", string(r.Method)),
		attribute.String("http.url", r.URL),
	)
	defer span.End()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, agentcoreerr.New(agentcoreerr.CodeTransport, "rate limit wait").WithCause(err)
		}
	}

	var bodyReader io.Reader
	if len(r.Body) > 0 {
		bodyReader = bytes.NewReader(r.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, string(r.Method), r.URL, bodyReader)
	if err != nil {
		return nil, agentcoreerr.New(agentcoreerr.CodeTransport, "build request").WithCause(err)
	}
	for _, key := range r.Header.Keys() {
		for _, v := range r.Header.Values(key) {
			httpReq.Header.Add(key, v)
		}
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	httpResp, err := c.doer.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, agentcoreerr.New(agentcoreerr.CodeTransport, "execute request").
			WithCause(err).WithRetryable(true)
	}
	defer httpResp.Body.Close()

	limited := io.LimitReader(httpResp.Body, MaxBodyBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, agentcoreerr.New(agentcoreerr.CodeTransport, "read response body").WithCause(err)
	}
	if len(data) > MaxBodyBytes {
		data = data[:MaxBodyBytes]
	}

	respHeader := NewHeader()
	for key, values := range httpResp.Header {
		for _, v := range values {
			respHeader.Add(key, v)
		}
	}

	span.SetAttributes(attribute.Int("http.status_code", httpResp.StatusCode))
	return &Response{Status: httpResp.StatusCode, Header: respHeader, Body: data}, nil
}
