package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/lesson-admin/internal/observability"
	"github.com/yungbote/lesson-admin/internal/platform/ctxutil"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
)

const maxResponseBytes = 8 << 20

type Options struct {
	BaseURL string
	// Token is used when the request context carries no bearer token.
	Token string

	Timeout time.Duration
	// MaxRetries only applies to GET requests.
	MaxRetries int

	HTTPClient *http.Client
	Logger     *logger.Logger
	Observer   Observer
}

// Observer receives one call per backend round trip. status is 0 when no
// response arrived.
type Observer interface {
	ObserveBackend(method, route string, status int, dur time.Duration)
}

// Client talks to the admin REST backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client
	log        *logger.Logger
	tracer     trace.Tracer
	observer   Observer
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(opts.Token),
		timeout:    timeout,
		maxRetries: maxRetries,
		httpClient: hc,
		log:        log.With("service", "BackendClient"),
		tracer:     otel.Tracer("github.com/yungbote/lesson-admin/internal/api"),
		observer:   opts.Observer,
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// WithToken attaches a caller token that takes precedence over Options.Token.
func WithToken(ctx context.Context, token string) context.Context {
	return ctxutil.WithBearerToken(ctx, strings.TrimSpace(token))
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request, contentType string) {
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	tok := ctxutil.BearerToken(ctx)
	if tok == "" {
		tok = c.token
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
		req.Header.Set("X-Request-Id", td.RequestID)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// do sends one request and returns the raw 2xx body. body may be nil, a
// MultipartBody, or any JSON-encodable value.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	payload, contentType, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, "backend "+method+" "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)

	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	retries := 0
	if method == http.MethodGet {
		retries = c.maxRetries
	}

	var lastErr error
	backoff := 250 * time.Millisecond
	for attempt := 0; attempt <= retries; attempt++ {
		if ctx2.Err() != nil {
			return nil, ctx2.Err()
		}
		start := time.Now()
		raw, status, err := c.roundTrip(ctx2, method, target, payload, contentType)
		if c.observer != nil {
			c.observer.ObserveBackend(method, observability.RouteLabel(path), status, time.Since(start))
		}
		if status != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}
		if err == nil {
			return raw, nil
		}
		lastErr = err
		var herr *HTTPError
		if errors.As(err, &herr) && herr.StatusCode < 500 {
			break
		}
		if attempt < retries {
			select {
			case <-ctx2.Done():
				return nil, ctx2.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	c.log.Debug("backend request failed", "method", method, "path", path, "error", lastErr)
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, method, target string, payload []byte, contentType string) ([]byte, int, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, 0, err
	}
	c.setHeaders(ctx, req, contentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	c.log.Debug("backend request", "method", method, "url", target, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, parseHTTPError(resp.StatusCode, raw)
	}
	return raw, resp.StatusCode, nil
}
