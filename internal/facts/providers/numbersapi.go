package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/date-facts/internal/facts"
)

// DefaultNumbersAPIURL is the public date-trivia service.
const DefaultNumbersAPIURL = "http://numbersapi.com"

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 10 * time.Second

// NumbersAPIProvider implements the facts.Fetcher interface for numbersapi.com.
type NumbersAPIProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewNumbersAPIProvider(baseURL string, cfg HTTPClientConfig) *NumbersAPIProvider {
	if baseURL == "" {
		baseURL = DefaultNumbersAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Breaker.OpenTimeout <= 0 {
		cfg.Breaker.OpenTimeout = 30 * time.Second
	}

	return &NumbersAPIProvider{
		name:    "numbersapi",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: cfg,
		circuit: newBreaker("numbersapi", cfg.Breaker),
	}
}

// Fetch performs one GET /{month}/{day}/date?json and normalizes every
// outcome into a FactResult.
func (p *NumbersAPIProvider) Fetch(ctx context.Context, key facts.DateKey) facts.FactResult {
	text, err := p.fetchText(ctx, key)
	if err != nil {
		log.Printf("provider %s fetch failed for %s: %v", p.name, key.Key(), err)
		return facts.Unavailable(reasonFor(key, err))
	}
	return facts.Available(text)
}

func (p *NumbersAPIProvider) fetchText(ctx context.Context, key facts.DateKey) (string, error) {
	if err := key.Validate(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, p.httpCfg.Timeout)
	defer cancel()

	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/%d/%d/date?json", p.baseURL, key.Month, key.Day)
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	body, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return "", err
	}

	var payload struct {
		Text   *string `json:"text"`
		Number int     `json:"number"`
		Found  *bool   `json:"found"`
		Type   string  `json:"type"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: %v", facts.ErrUpstreamFormat, err)
	}
	if payload.Text == nil || strings.TrimSpace(*payload.Text) == "" {
		return "", fmt.Errorf("%w: missing text field", facts.ErrUpstreamFormat)
	}
	if payload.Found != nil && !*payload.Found {
		return "", fmt.Errorf("%w: no fact found", facts.ErrUpstreamFormat)
	}

	return *payload.Text, nil
}

// reasonFor maps an error onto the message shown to users.
func reasonFor(key facts.DateKey, err error) string {
	if errors.Is(err, facts.ErrCircuitOpen) {
		return facts.ReasonCircuitOpen
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return facts.ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return facts.ReasonTimeout
	}
	return facts.FallbackReason(key)
}
