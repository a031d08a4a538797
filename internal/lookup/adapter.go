package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"signup/internal/lookup/metrics"
	"signup/internal/lookup/tracer"
	"signup/internal/platform/privacy"
	"signup/pkg/platform/circuit"
)

// maxResponseBytes bounds how much of a lookup response is read.
const maxResponseBytes = 1 << 20

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Call describes one GET JSON request.
type Call struct {
	Endpoint string
	Path     string
	Query    url.Values
	// Key is the lookup input. It is only ever hashed into span attributes.
	Key string
	// Decode parses a 2xx body. Returning a *LookupError keeps its category;
	// any other error is reported as a contract mismatch.
	Decode func(body []byte) error
}

// HTTPAdapter performs GET JSON calls against one lookup service and records every
// outcome on a shared circuit breaker, metrics and spans.
type HTTPAdapter struct {
	baseURL *url.URL
	client  HTTPDoer
	timeout time.Duration
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
}

// HTTPAdapterConfig configures an HTTPAdapter.
type HTTPAdapterConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient HTTPDoer
	Breaker    *circuit.Breaker
	Metrics    *metrics.Metrics
	Tracer     tracer.Tracer
	Logger     *slog.Logger
}

// NewHTTPAdapter validates the base URL and fills defaults.
func NewHTTPAdapter(cfg HTTPAdapterConfig) (*HTTPAdapter, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid lookup base URL %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	a := &HTTPAdapter{
		baseURL: base,
		client:  cfg.HTTPClient,
		timeout: cfg.Timeout,
		breaker: cfg.Breaker,
		metrics: cfg.Metrics,
		tracer:  cfg.Tracer,
		logger:  cfg.Logger,
	}
	if a.client == nil {
		a.client = &http.Client{Timeout: cfg.Timeout}
	}
	if a.breaker == nil {
		a.breaker = circuit.New("lookup")
	}
	if a.tracer == nil {
		a.tracer = tracer.NewNoop()
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	return a, nil
}

// Breaker exposes the adapter's circuit breaker for readiness checks.
func (a *HTTPAdapter) Breaker() *circuit.Breaker {
	return a.breaker
}

// GetJSON executes the call. The breaker is informational: calls are never short-circuited.
func (a *HTTPAdapter) GetJSON(ctx context.Context, call Call) (err error) {
	ctx, span := a.tracer.Start(ctx, tracer.SpanName(call.Endpoint),
		tracer.String(tracer.AttrEndpoint, call.Endpoint),
		tracer.String(tracer.AttrKeyHash, privacy.HashKey(call.Key)),
	)
	start := time.Now()
	defer func() {
		category := "ok"
		if err != nil {
			category = string(GetCategory(err))
			span.SetAttributes(tracer.String(tracer.AttrCategory, category))
		}
		if a.metrics != nil {
			a.metrics.ObserveRequest(call.Endpoint, category, time.Since(start).Seconds())
		}
		a.record(ctx, span, call.Endpoint, err)
		span.End(err)
	}()

	reqCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, a.url(call), nil)
	if err != nil {
		return NewLookupError(ErrorInternal, call.Endpoint, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return a.classifyTransportError(ctx, reqCtx, call.Endpoint, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(tracer.Int64(tracer.AttrStatusCode, int64(resp.StatusCode)))

	if lerr := statusError(call.Endpoint, resp.StatusCode); lerr != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return lerr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return a.classifyTransportError(ctx, reqCtx, call.Endpoint, err)
	}

	if err := call.Decode(body); err != nil {
		var lerr *LookupError
		if errors.As(err, &lerr) {
			return lerr
		}
		return NewLookupError(ErrorContractMismatch, call.Endpoint, "failed to parse response", err)
	}
	return nil
}

func (a *HTTPAdapter) url(call Call) string {
	u := *a.baseURL
	u.Path = u.Path + "/" + strings.TrimLeft(call.Path, "/")
	if len(call.Query) > 0 {
		u.RawQuery = call.Query.Encode()
	}
	return u.String()
}

func (a *HTTPAdapter) classifyTransportError(parent, reqCtx context.Context, endpoint string, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return NewLookupError(ErrorCanceled, endpoint, "request canceled", err)
	}
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return NewLookupError(ErrorTimeout, endpoint, "request timeout", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewLookupError(ErrorTimeout, endpoint, "request timeout", err)
	}
	return NewLookupError(ErrorProviderOutage, endpoint, "failed to execute request", err)
}

func statusError(endpoint string, status int) *LookupError {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return NewLookupError(ErrorAuthentication, endpoint, fmt.Sprintf("authentication failed: %d", status), nil)
	case status == http.StatusNotFound:
		return NewLookupError(ErrorNotFound, endpoint, "record not found", nil)
	case status == http.StatusTooManyRequests:
		return NewLookupError(ErrorRateLimited, endpoint, "rate limit exceeded", nil)
	case status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout, status == http.StatusBadGateway:
		return NewLookupError(ErrorProviderOutage, endpoint, fmt.Sprintf("service unavailable: %d", status), nil)
	default:
		return NewLookupError(ErrorInternal, endpoint, fmt.Sprintf("unexpected status: %d", status), nil)
	}
}

// record feeds the breaker. Cancellations say nothing about the remote and are skipped;
// not-found and bad input are healthy answers.
func (a *HTTPAdapter) record(ctx context.Context, span tracer.Span, endpoint string, err error) {
	var change circuit.StateChange
	switch GetCategory(err) {
	case ErrorCanceled:
		return
	case ErrorNotFound, ErrorBadData:
		change = a.breaker.RecordSuccess()
	default:
		if err == nil {
			change = a.breaker.RecordSuccess()
		} else {
			change = a.breaker.RecordFailure()
		}
	}

	if !change.Changed() {
		return
	}
	if a.metrics != nil {
		a.metrics.SetCircuitOpen(change.Opened)
	}
	if change.Opened {
		span.AddEvent(tracer.EventCircuitOpened)
		a.logger.WarnContext(ctx, "lookup circuit opened",
			"breaker", a.breaker.Name(),
			"endpoint", endpoint,
			"error", err,
		)
		return
	}
	span.AddEvent(tracer.EventCircuitClosed)
	a.logger.InfoContext(ctx, "lookup circuit closed",
		"breaker", a.breaker.Name(),
		"endpoint", endpoint,
	)
}
