package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/date-facts/internal/facts"
)

// BreakerConfig controls when the upstream circuit opens.
type BreakerConfig struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a probe.
	OpenTimeout time.Duration
}

// HTTPClientConfig bundles HTTP client and resilience settings.
type HTTPClientConfig struct {
	Client  *http.Client
	Timeout time.Duration
	Breaker BreakerConfig
}

var errNoHTTPClient = errors.New("http client not configured")

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("INFO: circuit %s changed from %s to %s", name, from, to)
		},
	})
}

// doRequest executes exactly one HTTP request through the circuit breaker and
// returns the body of a 2xx response. There are no retries. An explicit
// refresh (facts.IsRefresh) bypasses the breaker so a user can always reach
// the upstream.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) ([]byte, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}

	// Ensure the request obeys context cancellation.
	req = req.WithContext(ctx)

	send := func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, fmt.Errorf("%w: %w", facts.ErrNetwork, execErr)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: unexpected status code %d", facts.ErrNetwork, resp.StatusCode)
		}

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("%w: %w", facts.ErrNetwork, readErr)
		}
		return body, nil
	}

	var result interface{}
	if cb == nil || facts.IsRefresh(ctx) {
		result, err = send()
	} else {
		result, err = cb.Execute(send)
	}
	if err != nil {
		// If circuit is open, no request was made.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", facts.ErrCircuitOpen, err)
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return body, nil
}
