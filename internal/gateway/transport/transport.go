// Package transport provides the resilient HTTP layer under the fitness
// API gateway: per-call timeouts, exponential-backoff retries, and a
// circuit breaker so a flaky backend cannot stall every screen.
package transport

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// Transport errors.
var (
	// ErrCircuitOpen is returned while the breaker is rejecting calls.
	ErrCircuitOpen = errors.New("api circuit breaker is open")
)

// Config holds tuning for the resilient transport.
type Config struct {
	// Name identifies the breaker for logging and state inspection.
	Name string

	// Timeout bounds each individual HTTP attempt. Default: 10s.
	Timeout time.Duration

	// MaxRetries caps retry attempts on transient failures. Default: 3.
	MaxRetries uint64

	// InitialInterval is the first retry backoff step. Default: 100ms.
	InitialInterval time.Duration

	// MaxInterval caps the backoff growth. Default: 5s.
	MaxInterval time.Duration

	// BreakerTimeout is how long the breaker stays open before probing
	// half-open. Default: 60s.
	BreakerTimeout time.Duration
}

// Doer is a resilient HTTP client for gateway requests. Server errors
// (5xx) and network failures are retried with exponential backoff and
// counted against the circuit breaker; auth and client errors are
// returned as-is, they are the caller's problem.
type Doer struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     Config
}

// New creates a resilient transport with zero-value defaulting.
func New(cfg Config) *Doer {
	if cfg.Name == "" {
		cfg.Name = "fitness-api"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: readyToTrip,
	})

	return &Doer{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		config:     cfg,
	}
}

// readyToTrip opens the breaker at a 50% failure rate once at least
// five requests have been observed.
func readyToTrip(counts gobreaker.Counts) bool {
	failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
	return counts.Requests >= 5 && failureRatio >= 0.5
}

// Do executes a request with retries and breaker protection. The
// request context bounds the whole retry loop.
func (d *Doer) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = d.config.InitialInterval
	bo.MaxInterval = d.config.MaxInterval
	bo.MaxElapsedTime = 0 // retries bounded by MaxRetries, not wall time

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, d.config.MaxRetries), ctx)

	var lastResp *http.Response

	// discard drains and closes a response superseded by a retry so the
	// retry loop never leaks connections; only the final response is
	// handed to the caller to close.
	discard := func(r *http.Response) {
		if r == nil {
			return
		}
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}

	operation := func() error {
		resp, err := d.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			attempt := req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				attempt.Body = body
			}
			r, err := d.httpClient.Do(attempt)
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				discard(lastResp)
				lastResp = resp
			}
			return err
		}

		discard(lastResp)
		lastResp = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		// Retries exhausted on a 5xx: hand the response back so the
		// gateway can decode the API error body.
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}

	return lastResp, nil
}

// BreakerState exposes the current circuit breaker state.
func (d *Doer) BreakerState() gobreaker.State {
	return d.breaker.State()
}

// ServerError marks an HTTP 5xx response so the breaker and the retry
// loop treat it as a failure.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}
