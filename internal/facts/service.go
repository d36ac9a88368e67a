package facts

import (
	"context"
	"log"
	"sync"
	"time"
)

// Query names a logical UI query whose loading state is tracked.
type Query string

const (
	QueryToday Query = "today"
	QueryWeek  Query = "week"
	QueryDate  Query = "date"
)

// QueryState is the loading flag of one logical query.
type QueryState struct {
	Query   Query `json:"query"`
	Loading bool  `json:"loading"`
}

// Service is the single entry point for UI callers. It resolves dates,
// consults the shared cache and fetches on genuine misses.
type Service struct {
	cache   *Cache
	fetcher Fetcher

	mu      sync.Mutex
	running map[Query]int
}

// NewService creates a new Service. The cache lives as long as the service.
func NewService(cache *Cache, fetcher Fetcher) *Service {
	return &Service{
		cache:   cache,
		fetcher: fetcher,
		running: make(map[Query]int),
	}
}

// GetToday returns the fact for the calendar day of now in loc.
func (s *Service) GetToday(ctx context.Context, now time.Time, loc *time.Location) FactResult {
	defer s.begin(QueryToday)()

	key := Today(now, loc)
	return s.cache.GetOrFetch(ctx, key, s.fetcher)
}

// GetWeek fetches the seven days of the Sunday-first week containing now
// concurrently. Result i always belongs to WeekOf(now, loc)[i]; one failed day
// never blocks or discards the others.
func (s *Service) GetWeek(ctx context.Context, now time.Time, loc *time.Location) []FactResult {
	defer s.begin(QueryWeek)()

	return s.fetchAll(ctx, WeekOf(now, loc))
}

// Prefetch loads the week containing now into the cache without showing up
// in any query's loading state. Used by background warm-up.
func (s *Service) Prefetch(ctx context.Context, now time.Time, loc *time.Location) []FactResult {
	return s.fetchAll(ctx, WeekOf(now, loc))
}

func (s *Service) fetchAll(ctx context.Context, keys []DateKey) []FactResult {
	results := make([]FactResult, len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(i int, key DateKey) {
			defer wg.Done()
			results[i] = s.cache.GetOrFetch(ctx, key, s.fetcher)
		}(i, key)
	}
	wg.Wait()

	sum := Summarize(results)
	log.Printf("DEBUG: week %s..%s: %d available, %d unavailable",
		keys[0].Key(), keys[len(keys)-1].Key(), sum.Available, sum.Unavailable)

	return results
}

// GetForDate returns the fact for a calendar selection. Invalid keys are
// rejected with ErrInvalidKey before any network call.
func (s *Service) GetForDate(ctx context.Context, key DateKey) (FactResult, error) {
	if err := key.Validate(); err != nil {
		return FactResult{}, err
	}

	defer s.begin(QueryDate)()
	return s.cache.GetOrFetch(ctx, key, s.fetcher), nil
}

// Refresh invalidates today's and this week's keys and re-issues both
// queries. Other cached dates are left alone. The re-issued fetches go out
// even while the upstream circuit is open.
func (s *Service) Refresh(ctx context.Context, now time.Time, loc *time.Location) (FactResult, []FactResult) {
	ctx = WithRefresh(ctx)

	s.cache.Invalidate(Today(now, loc))
	for _, key := range WeekOf(now, loc) {
		s.cache.Invalidate(key)
	}
	log.Printf("INFO: refreshing facts for week of %s", Today(now, loc).Key())

	var (
		wg    sync.WaitGroup
		today FactResult
		week  []FactResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		today = s.GetToday(ctx, now, loc)
	}()
	go func() {
		defer wg.Done()
		week = s.GetWeek(ctx, now, loc)
	}()
	wg.Wait()

	return today, week
}

// Loading reports whether any call of query q is unresolved.
func (s *Service) Loading(q Query) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running[q] > 0
}

// State returns the loading flag of every logical query.
func (s *Service) State() []QueryState {
	queries := []Query{QueryToday, QueryWeek, QueryDate}
	out := make([]QueryState, 0, len(queries))
	for _, q := range queries {
		out = append(out, QueryState{Query: q, Loading: s.Loading(q)})
	}
	return out
}

// Peek delegates to the cache without fetching.
func (s *Service) Peek(key DateKey) (FactResult, bool) {
	return s.cache.Peek(key)
}

// Stats delegates to the cache.
func (s *Service) Stats() CacheStats {
	return s.cache.Stats()
}

func (s *Service) begin(q Query) func() {
	s.mu.Lock()
	s.running[q]++
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.running[q]--
		s.mu.Unlock()
	}
}
