package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/date-facts/internal/facts"
	"github.com/i474232898/date-facts/internal/store"
)

func newTestApp(t *testing.T) (*fiber.App, *atomic.Int32) {
	t.Helper()

	calls := &atomic.Int32{}
	fetcher := facts.FetcherFunc(func(ctx context.Context, k facts.DateKey) facts.FactResult {
		calls.Add(1)
		if k.Day == 31 {
			return facts.Unavailable(facts.FallbackReason(k))
		}
		return facts.Available("fact " + k.Key())
	})

	app := fiber.New()
	svc := facts.NewService(facts.NewCache(store.NewMemoryStore(0)), fetcher)
	RegisterRoutes(app, svc, time.UTC)
	return app, calls
}

func doJSON(t *testing.T, app *fiber.App, method, target string, wantStatus int, out any) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected status %d, got %d", method, target, wantStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
}

type factBody struct {
	Status string `json:"status"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

type dayBody struct {
	Date facts.DateKey `json:"date"`
	Fact factBody      `json:"fact"`
}

func TestTodayUsesReferenceInstantAndZone(t *testing.T) {
	app, _ := newTestApp(t)

	var body dayBody
	doJSON(t, app, http.MethodGet, "/api/v1/facts/today?at=2024-07-05T02:00:00Z&tz=America/Los_Angeles", http.StatusOK, &body)

	if body.Date != (facts.DateKey{Month: 7, Day: 4}) {
		t.Fatalf("unexpected date %+v", body.Date)
	}
	if body.Fact.Status != "available" || body.Fact.Text != "fact 7/4" {
		t.Fatalf("unexpected fact %+v", body.Fact)
	}
}

func TestWeekReturnsSevenAlignedDays(t *testing.T) {
	app, calls := newTestApp(t)

	var body struct {
		Days    []dayBody     `json:"days"`
		Summary facts.Summary `json:"summary"`
	}
	doJSON(t, app, http.MethodGet, "/api/v1/facts/week?at=2025-01-01T09:00:00Z", http.StatusOK, &body)

	if len(body.Days) != facts.DaysPerWeek {
		t.Fatalf("expected %d days, got %d", facts.DaysPerWeek, len(body.Days))
	}
	if body.Days[0].Date != (facts.DateKey{Month: 12, Day: 29}) {
		t.Fatalf("week should start on Sunday Dec 29, got %+v", body.Days[0].Date)
	}
	if body.Days[2].Fact.Status != "unavailable" || body.Days[2].Fact.Reason != "No data available for 12/31" {
		t.Fatalf("unexpected Dec 31 entry %+v", body.Days[2])
	}
	if body.Summary.Available != 6 || body.Summary.Unavailable != 1 || body.Summary.Loading {
		t.Fatalf("unexpected summary %+v", body.Summary)
	}

	// A second request is served from the cache.
	doJSON(t, app, http.MethodGet, "/api/v1/facts/week?at=2025-01-01T09:00:00Z", http.StatusOK, nil)
	if calls.Load() != facts.DaysPerWeek {
		t.Fatalf("expected %d fetches, got %d", facts.DaysPerWeek, calls.Load())
	}
}

func TestDateValidation(t *testing.T) {
	app, calls := newTestApp(t)

	// Invalid day for February must fail before any fetch.
	doJSON(t, app, http.MethodGet, "/api/v1/facts/date/2/30", http.StatusBadRequest, nil)
	// Out-of-range and non-numeric params.
	doJSON(t, app, http.MethodGet, "/api/v1/facts/date/13/1", http.StatusBadRequest, nil)
	doJSON(t, app, http.MethodGet, "/api/v1/facts/date/jan/1", http.StatusBadRequest, nil)

	if calls.Load() != 0 {
		t.Fatalf("expected no fetch, got %d", calls.Load())
	}

	var body dayBody
	doJSON(t, app, http.MethodGet, "/api/v1/facts/date/2/29", http.StatusOK, &body)
	if body.Fact.Text != "fact 2/29" {
		t.Fatalf("unexpected fact %+v", body.Fact)
	}
}

func TestDateBySingleKey(t *testing.T) {
	app, calls := newTestApp(t)

	doJSON(t, app, http.MethodGet, "/api/v1/facts/date/02-30", http.StatusBadRequest, nil)
	doJSON(t, app, http.MethodGet, "/api/v1/facts/date/july-4", http.StatusBadRequest, nil)
	if calls.Load() != 0 {
		t.Fatalf("expected no fetch, got %d", calls.Load())
	}

	var body dayBody
	doJSON(t, app, http.MethodGet, "/api/v1/facts/date/07-04", http.StatusOK, &body)
	if body.Date != (facts.DateKey{Month: 7, Day: 4}) || body.Fact.Text != "fact 7/4" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestReferenceQueryValidation(t *testing.T) {
	app, _ := newTestApp(t)

	doJSON(t, app, http.MethodGet, "/api/v1/facts/today?tz=Mars/Olympus", http.StatusBadRequest, nil)
	doJSON(t, app, http.MethodGet, "/api/v1/facts/today?at=yesterday", http.StatusBadRequest, nil)
}

func TestRefreshRefetchesCurrentWeek(t *testing.T) {
	app, calls := newTestApp(t)

	doJSON(t, app, http.MethodGet, "/api/v1/facts/week?at=1735722000", http.StatusOK, nil)
	doJSON(t, app, http.MethodPost, "/api/v1/facts/refresh?at=1735722000", http.StatusOK, nil)

	if calls.Load() != 2*facts.DaysPerWeek {
		t.Fatalf("expected %d fetches, got %d", 2*facts.DaysPerWeek, calls.Load())
	}

	var status struct {
		Queries []facts.QueryState `json:"queries"`
		Cache   facts.CacheStats   `json:"cache"`
	}
	doJSON(t, app, http.MethodGet, "/api/v1/facts/status", http.StatusOK, &status)

	if len(status.Queries) != 3 {
		t.Fatalf("expected 3 queries, got %+v", status.Queries)
	}
	if status.Cache.Entries != facts.DaysPerWeek || status.Cache.InFlight != 0 {
		t.Fatalf("unexpected cache stats %+v", status.Cache)
	}
}
