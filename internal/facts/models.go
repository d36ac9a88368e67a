package facts

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status represents the normalized state of a fact lookup.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusPending     Status = "pending"
)

// DateKey identifies a trivia lookup by calendar month and day.
// The year is deliberately absent: trivia is year-independent.
type DateKey struct {
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Key returns a canonical string key for logging and indexing.
func (k DateKey) Key() string {
	return fmt.Sprintf("%d/%d", k.Month, k.Day)
}

func (k DateKey) String() string {
	return k.Key()
}

// FactResult is the outcome of a fact lookup. Exactly one of Text or Reason
// is meaningful, depending on Status.
type FactResult struct {
	Status Status
	Text   string
	Reason string
}

// Available returns a successfully retrieved fact.
func Available(text string) FactResult {
	return FactResult{Status: StatusAvailable, Text: text}
}

// Unavailable returns a failed lookup carrying a human-readable reason.
func Unavailable(reason string) FactResult {
	return FactResult{Status: StatusUnavailable, Reason: reason}
}

// Pending returns the transient in-flight state.
func Pending() FactResult {
	return FactResult{Status: StatusPending}
}

// cacheable reports whether the result may be stored as the key's settled
// state. Outcomes that involved no upstream answer are not.
func (r FactResult) cacheable() bool {
	if !r.IsTerminal() {
		return false
	}
	return r.Reason != ReasonCancelled && r.Reason != ReasonCircuitOpen
}

// IsTerminal reports whether the result is a settled state.
func (r FactResult) IsTerminal() bool {
	return r.Status == StatusAvailable || r.Status == StatusUnavailable
}

// MarshalJSON renders only the field that belongs to the variant.
func (r FactResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Status Status `json:"status"`
		Text   string `json:"text,omitempty"`
		Reason string `json:"reason,omitempty"`
	}{Status: r.Status}

	switch r.Status {
	case StatusAvailable:
		out.Text = r.Text
	case StatusUnavailable:
		out.Reason = r.Reason
	}
	return json.Marshal(out)
}

// CacheEntry is the most recent settled result for a key.
// FetchedAt allows staleness policies in the store.
type CacheEntry struct {
	Key       DateKey
	Result    FactResult
	FetchedAt time.Time // always UTC
}

// DayFact pairs a key with its result, e.g. one day of a week view.
type DayFact struct {
	Key    DateKey    `json:"date"`
	Result FactResult `json:"fact"`
}
