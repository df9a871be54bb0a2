// Package fetcher orchestrates the fetch-and-cache pipeline: check the
// cache, fall through to the upstream lottery API, normalize, persist,
// and degrade to stale cache when the upstream is unavailable.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/thanawat/thailotto-api/interfaces"
	"github.com/thanawat/thailotto-api/logging"
	"github.com/thanawat/thailotto-api/lotteryparser"
	"github.com/thanawat/thailotto-api/lotteryparser/entities"
	"github.com/thanawat/thailotto-api/metrics"
	"github.com/thanawat/thailotto-api/thaidate"
	"github.com/thanawat/thailotto-api/validation"
)

// Cache TTLs for the latest draw. During the publication window on draw
// days results change quickly; outside it they are static for two weeks.
const (
	drawWindowTTL = 30 * time.Minute
	defaultTTL    = 6 * time.Hour
)

// Result is the outcome of a latest-draw fetch. Cached marks a TTL cache
// hit; Fallback marks stale cache served after an upstream failure.
type Result struct {
	Record   *entities.DrawRecord
	Cached   bool
	Fallback bool
}

// Fetcher coordinates the cache store and the upstream client.
type Fetcher struct {
	store  interfaces.DrawStore
	client interfaces.UpstreamClient

	// now is swappable for tests.
	now func() time.Time
}

// New creates a fetch orchestrator.
func New(store interfaces.DrawStore, client interfaces.UpstreamClient) *Fetcher {
	return &Fetcher{
		store:  store,
		client: client,
		now:    time.Now,
	}
}

// cacheTTL picks the TTL for the latest draw: 30 minutes inside the
// 14:00-17:00 publication window on the 1st and 16th, 6 hours otherwise.
func cacheTTL(now time.Time) time.Duration {
	now = now.In(thaidate.Location())
	isDrawDay := now.Day() == 1 || now.Day() == 16
	isDrawTime := now.Hour() >= 14 && now.Hour() <= 17

	if isDrawDay && isDrawTime {
		return drawWindowTTL
	}
	return defaultTTL
}

// FetchLatest returns the latest draw, serving the cached row while it is
// within TTL. force bypasses the TTL check. On upstream failure the stale
// cached row is returned with Fallback set; with no cache the error
// propagates.
func (f *Fetcher) FetchLatest(ctx context.Context, force bool) (*Result, error) {
	now := f.now()

	if !force {
		cached, err := f.store.GetLatest(ctx)
		if err != nil {
			logging.Warn("Failed to read latest draw from cache", "error", err)
		}
		if cached != nil && now.Sub(cached.FetchedAt) < cacheTTL(now) {
			metrics.CacheHitsTotal.WithLabelValues("latest").Inc()
			logging.Debug("Serving latest draw from cache",
				"draw_date", cached.DrawDate,
				"age", now.Sub(cached.FetchedAt).String())
			return &Result{Record: cached, Cached: true}, nil
		}
	}

	payload, err := f.client.FetchLatest(ctx)
	if err != nil {
		metrics.UpstreamFetchTotal.WithLabelValues("latest", "error").Inc()
		logging.Error("Upstream latest fetch failed", "error", err)

		cached, cacheErr := f.store.GetLatest(ctx)
		if cacheErr == nil && cached != nil {
			metrics.FallbackTotal.WithLabelValues("latest").Inc()
			logging.Warn("Falling back to stale cached draw", "draw_date", cached.DrawDate)
			return &Result{Record: cached, Cached: true, Fallback: true}, nil
		}

		return nil, fmt.Errorf("failed to fetch latest draw: %w", err)
	}
	metrics.UpstreamFetchTotal.WithLabelValues("latest", "success").Inc()

	rec := lotteryparser.Normalize(&payload.Response, true, f.now())
	if report := validation.ValidateDrawRecord(rec); report.HasIssues() {
		logging.Warn("Draw record has quality issues", "draw_date", rec.DrawDate, "issues", report.Issues)
	}

	// Clear-then-write keeps at most one latest row. A write failure is
	// logged but does not fail the request; the fresh data still serves.
	if err := f.store.ClearLatestFlag(ctx); err != nil {
		logging.Error("Failed to clear latest flag", "error", err)
	}
	if err := f.store.Upsert(ctx, rec); err != nil {
		logging.Error("Failed to cache latest draw", "draw_date", rec.DrawDate, "error", err)
	} else {
		logging.Info("Cached latest draw", "draw_date", rec.DrawDate, "draw_date_thai", rec.DrawDateThai)
	}

	return &Result{Record: rec}, nil
}

// FetchByDate returns the draw for an ISO date, or nil when no draw
// exists for it. Date lookups miss often (future dates, non-draw days);
// a missing upstream draw is a negative result, not an error.
func (f *Fetcher) FetchByDate(ctx context.Context, isoDate string) (*entities.DrawRecord, error) {
	cached, err := f.store.GetByDate(ctx, isoDate)
	if err != nil {
		logging.Warn("Failed to read draw from cache", "draw_date", isoDate, "error", err)
	}
	if cached != nil {
		metrics.CacheHitsTotal.WithLabelValues("by_date").Inc()
		return cached, nil
	}

	buddhistDate, err := thaidate.ToBuddhistQueryDate(isoDate)
	if err != nil {
		return nil, err
	}

	payload, err := f.client.FetchByDate(ctx, buddhistDate)
	if errors.Is(err, lotteryparser.ErrNoDataForDate) {
		metrics.UpstreamFetchTotal.WithLabelValues("by_date", "no_data").Inc()
		logging.Info("No draw for requested date", "draw_date", isoDate)
		return nil, nil
	}
	if err != nil {
		metrics.UpstreamFetchTotal.WithLabelValues("by_date", "error").Inc()
		return nil, fmt.Errorf("failed to fetch draw for %s: %w", isoDate, err)
	}
	metrics.UpstreamFetchTotal.WithLabelValues("by_date", "success").Inc()

	rec := lotteryparser.Normalize(&payload.Response, false, f.now())
	if rec.DrawDate == "" {
		// Upstream date text did not parse; key the row by the
		// requested date rather than dropping it.
		rec.DrawDate = isoDate
	}
	if report := validation.ValidateDrawRecord(rec); report.HasIssues() {
		logging.Warn("Draw record has quality issues", "draw_date", rec.DrawDate, "issues", report.Issues)
	}

	if err := f.store.Upsert(ctx, rec); err != nil {
		logging.Error("Failed to cache draw", "draw_date", rec.DrawDate, "error", err)
	}

	return rec, nil
}

// FetchPrevious returns up to limit past draws, newest first. When the
// cache already holds enough non-latest rows no upstream call is made.
// Otherwise the missing draws are fetched date by date; individual
// failures are skipped, not fatal to the batch. The second return value
// reports whether the whole answer came from the cache.
func (f *Fetcher) FetchPrevious(ctx context.Context, limit int) ([]entities.DrawRecord, bool, error) {
	cached, err := f.store.ListPrevious(ctx, limit)
	if err != nil {
		logging.Warn("Failed to list previous draws from cache", "error", err)
		cached = nil
	}
	if len(cached) >= limit {
		metrics.CacheHitsTotal.WithLabelValues("previous").Inc()
		return cached, true, nil
	}

	results := append([]entities.DrawRecord{}, cached...)
	seen := make(map[string]bool, len(results))
	for _, rec := range results {
		seen[rec.DrawDate] = true
	}

	// One extra candidate tolerates a single missing draw upstream.
	candidates := thaidate.RecentDrawDates(f.now(), limit+1)
	logging.Info("Fetching historical draws", "candidates", candidates)

	for _, buddhistDate := range candidates {
		if len(results) >= limit {
			break
		}

		payload, err := f.client.FetchByDate(ctx, buddhistDate)
		if err != nil {
			metrics.UpstreamFetchTotal.WithLabelValues("previous", "error").Inc()
			logging.Warn("Skipping historical draw", "query_date", buddhistDate, "error", err)
			continue
		}
		metrics.UpstreamFetchTotal.WithLabelValues("previous", "success").Inc()

		rec := lotteryparser.Normalize(&payload.Response, false, f.now())
		if seen[rec.DrawDate] {
			continue
		}

		if err := f.store.Upsert(ctx, rec); err != nil {
			// Read success is not coupled to write success.
			logging.Error("Failed to cache historical draw", "draw_date", rec.DrawDate, "error", err)
		}

		results = append(results, *rec)
		seen[rec.DrawDate] = true
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DrawDate > results[j].DrawDate
	})
	if len(results) > limit {
		results = results[:limit]
	}

	return results, false, nil
}

// Now returns the orchestrator's current time; handlers use it so derived
// views and cache decisions share one clock.
func (f *Fetcher) Now() time.Time {
	return f.now()
}
