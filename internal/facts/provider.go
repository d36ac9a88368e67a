package facts

import "context"

type refreshKey struct{}

// WithRefresh marks ctx as an explicit user refresh. Fetchers send the
// request even when their circuit breaker would short-circuit it.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

// IsRefresh reports whether ctx carries an explicit refresh.
func IsRefresh(ctx context.Context) bool {
	v, _ := ctx.Value(refreshKey{}).(bool)
	return v
}

// Fetcher abstracts the date-trivia source. Implementations perform exactly
// one outbound request per call and never return an error: every failure is
// normalized into an Unavailable result.
type Fetcher interface {
	Fetch(ctx context.Context, key DateKey) FactResult
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, key DateKey) FactResult

func (f FetcherFunc) Fetch(ctx context.Context, key DateKey) FactResult {
	return f(ctx, key)
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	Get(key DateKey) (CacheEntry, bool)
	Save(entry CacheEntry)
	Delete(key DateKey)
	Clear()
	Len() int
}
