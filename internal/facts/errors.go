package facts

import "errors"

var (
	// ErrInvalidKey is returned when a day is out of range for its month.
	ErrInvalidKey = errors.New("invalid date key")

	// ErrNetwork covers unreachable upstreams, timeouts and non-2xx statuses.
	ErrNetwork = errors.New("network error")

	// ErrUpstreamFormat is returned when the upstream payload is malformed
	// or lacks the text field.
	ErrUpstreamFormat = errors.New("unexpected upstream payload")

	// ErrCircuitOpen is returned when the upstream breaker rejected the call
	// without sending a request.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

const (
	// ReasonTimeout is reported when a fetch exceeds its deadline.
	ReasonTimeout = "timeout"

	// ReasonCancelled is reported to a caller that stopped waiting.
	// It is never cached.
	ReasonCancelled = "cancelled"

	// ReasonCircuitOpen is reported when no request was sent because the
	// upstream circuit is open. It is never cached.
	ReasonCircuitOpen = "temporarily unavailable"
)
