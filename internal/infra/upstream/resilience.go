package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/yanqian/greenguardian/internal/infra/config"
)

var (
	ErrRateLimited  = errors.New("rate limited")
	ErrServerError  = errors.New("server error")
	ErrUnexpected   = errors.New("unexpected status code")
	ErrCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
	// errAbandoned marks attempts cut short by the caller, not by the upstream.
	errAbandoned = errors.New("request abandoned by caller")
)

// BackoffConfig controls exponential backoff between attempts.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Caller executes GET requests against one upstream API with retries and a circuit breaker.
type Caller struct {
	client  *http.Client
	timeout time.Duration
	backoff BackoffConfig
	breaker *gobreaker.CircuitBreaker
}

// NewCaller builds a Caller named after the upstream it guards.
func NewCaller(name string, timeout time.Duration, cfg config.ResilienceConfig) *Caller {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	initial := cfg.InitialInterval
	if initial <= 0 {
		initial = 300 * time.Millisecond
	}
	return &Caller{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		backoff: BackoffConfig{
			MaxRetries:      cfg.MaxRetries,
			InitialInterval: initial,
			MaxInterval:     cfg.MaxInterval,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: cfg.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, errAbandoned)
			},
		}),
	}
}

// Do runs buildRequest until a 2xx arrives, retries are exhausted, the breaker opens
// or the timeout passed to NewCaller elapses. The timeout bounds the whole call,
// retries and backoff included. The caller owns the returned body.
func (c *Caller) Do(ctx context.Context, buildRequest func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	if c == nil || c.client == nil {
		return nil, errNoHTTPClient
	}

	parent := ctx
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, c.timeout)
	}

	var (
		attempt int
		lastErr error
	)
	for {
		if err := parent.Err(); err != nil {
			cancel()
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			cancel()
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, err
		}

		req, err := buildRequest(ctx)
		if err != nil {
			cancel()
			return nil, err
		}

		result, err := c.breaker.Execute(func() (interface{}, error) {
			resp, execErr := c.client.Do(req)
			if execErr != nil {
				// a caller that went away says nothing about upstream health
				if parent.Err() != nil {
					return nil, fmt.Errorf("%w: %v", errAbandoned, execErr)
				}
				return nil, execErr
			}
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp, nil
			}
			drain(resp)
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				return nil, ErrRateLimited
			case resp.StatusCode >= 500:
				return nil, fmt.Errorf("%w: %d", ErrServerError, resp.StatusCode)
			default:
				return nil, fmt.Errorf("%w: %d", ErrUnexpected, resp.StatusCode)
			}
		})
		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				cancel()
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		}

		if errors.Is(err, errAbandoned) {
			cancel()
			return nil, parent.Err()
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			cancel()
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		// client errors will not change on retry
		if errors.Is(err, ErrUnexpected) {
			cancel()
			return nil, err
		}

		lastErr = err
		if attempt >= c.backoff.MaxRetries {
			cancel()
			return nil, lastErr
		}

		delay := c.backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if c.backoff.MaxInterval > 0 && delay > c.backoff.MaxInterval {
			delay = c.backoff.MaxInterval
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			cancel()
			if parent.Err() != nil {
				return nil, parent.Err()
			}
			return nil, lastErr
		case <-timer.C:
		}
		attempt++
	}
}

func (c *Caller) state() gobreaker.State {
	return c.breaker.State()
}

// cancelOnClose releases the call deadline once the body is consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}
