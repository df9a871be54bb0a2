package fetcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thanawat/thailotto-api/lotteryparser"
	"github.com/thanawat/thailotto-api/lotteryparser/entities"
	"github.com/thanawat/thailotto-api/store"
	"github.com/thanawat/thailotto-api/thaidate"
)

// fakeClient serves canned payloads and counts upstream calls.
type fakeClient struct {
	latest      *entities.UpstreamPayload
	latestErr   error
	byDate      map[string]*entities.UpstreamPayload
	latestCalls int
	byDateCalls int
}

func (c *fakeClient) FetchLatest(context.Context) (*entities.UpstreamPayload, error) {
	c.latestCalls++
	if c.latestErr != nil {
		return nil, c.latestErr
	}
	return c.latest, nil
}

func (c *fakeClient) FetchByDate(_ context.Context, buddhistDate string) (*entities.UpstreamPayload, error) {
	c.byDateCalls++
	payload, ok := c.byDate[buddhistDate]
	if !ok {
		return nil, fmt.Errorf("draw %s: %w", buddhistDate, lotteryparser.ErrNoDataForDate)
	}
	return payload, nil
}

func payloadFor(thaiDate string) *entities.UpstreamPayload {
	return &entities.UpstreamPayload{
		Status: "success",
		Response: entities.UpstreamResponse{
			Date: thaiDate,
			Prizes: []entities.UpstreamPrize{
				{ID: "prizeFirst", Name: "รางวัลที่ 1", Reward: "6000000", Number: []string{"835492"}},
			},
			RunningNumbers: []entities.UpstreamPrize{
				{ID: "runningNumberFrontThree", Reward: "4000", Number: []string{"583", "142"}},
				{ID: "runningNumberBackThree", Reward: "4000", Number: []string{"927", "456"}},
				{ID: "runningNumberBackTwo", Reward: "2000", Number: []string{"81"}},
			},
		},
	}
}

func cachedRecord(date string, latest bool, fetchedAt time.Time) *entities.DrawRecord {
	return &entities.DrawRecord{
		DrawDate:       date,
		DrawDateThai:   thaidate.FormatThaiDate(date),
		FirstPrize:     "472918",
		Front3:         []string{"294", "817"},
		Last3:          []string{"639", "182"},
		Last2:          "47",
		Prizes:         []entities.UpstreamPrize{},
		RunningNumbers: []entities.UpstreamPrize{},
		IsLatest:       latest,
		FetchedAt:      fetchedAt,
	}
}

func newFetcher(s *store.MemoryStore, c *fakeClient, now time.Time) *Fetcher {
	f := New(s, c)
	f.now = func() time.Time { return now }
	return f
}

func TestFetchLatestMiss(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	c := &fakeClient{latest: payloadFor("2 มกราคม 2569")}
	now := time.Date(2026, time.January, 2, 16, 0, 0, 0, thaidate.Location())

	res, err := newFetcher(s, c, now).FetchLatest(ctx, false)
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.False(t, res.Fallback)
	assert.Equal(t, "2026-01-02", res.Record.DrawDate)
	assert.True(t, res.Record.IsLatest)
	assert.Equal(t, 1, c.latestCalls)

	// The row was persisted and flagged latest.
	stored, err := s.GetLatest(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "2026-01-02", stored.DrawDate)
}

func TestFetchLatestCacheHitWithinTTL(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, thaidate.Location())
	require.NoError(t, s.Upsert(ctx, cachedRecord("2026-01-02", true, now.Add(-time.Hour))))

	c := &fakeClient{latest: payloadFor("2 มกราคม 2569")}
	f := newFetcher(s, c, now)

	first, err := f.FetchLatest(ctx, false)
	require.NoError(t, err)
	assert.True(t, first.Cached)

	second, err := f.FetchLatest(ctx, false)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Record.DrawDate, second.Record.DrawDate)
	assert.Equal(t, 0, c.latestCalls, "no upstream call within TTL")
}

func TestFetchLatestTTLShrinksInDrawWindow(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	// 15:00 on the 16th: the publication window, TTL is 30 minutes.
	now := time.Date(2026, time.January, 16, 15, 0, 0, 0, thaidate.Location())
	require.NoError(t, s.Upsert(ctx, cachedRecord("2026-01-01", true, now.Add(-time.Hour))))

	c := &fakeClient{latest: payloadFor("16 มกราคม 2569")}
	res, err := newFetcher(s, c, now).FetchLatest(ctx, false)
	require.NoError(t, err)
	assert.False(t, res.Cached, "hour-old cache is stale inside the draw window")
	assert.Equal(t, 1, c.latestCalls)
	assert.Equal(t, "2026-01-16", res.Record.DrawDate)
}

func TestFetchLatestForceBypassesTTL(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, thaidate.Location())
	require.NoError(t, s.Upsert(ctx, cachedRecord("2026-01-02", true, now.Add(-time.Minute))))

	c := &fakeClient{latest: payloadFor("2 มกราคม 2569")}
	res, err := newFetcher(s, c, now).FetchLatest(ctx, true)
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 1, c.latestCalls)
}

func TestFetchLatestClearsPreviousLatest(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Date(2026, time.January, 2, 16, 0, 0, 0, thaidate.Location())
	require.NoError(t, s.Upsert(ctx, cachedRecord("2025-12-16", true, now.Add(-20*24*time.Hour))))

	c := &fakeClient{latest: payloadFor("2 มกราคม 2569")}
	_, err := newFetcher(s, c, now).FetchLatest(ctx, false)
	require.NoError(t, err)

	latest, err := s.GetLatest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2026-01-02", latest.DrawDate)

	// The demoted row is still cached, just no longer latest.
	previous, err := s.ListPrevious(ctx, 10)
	require.NoError(t, err)
	require.Len(t, previous, 1)
	assert.Equal(t, "2025-12-16", previous[0].DrawDate)
}

func TestFetchLatestFallsBackToStaleCache(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, thaidate.Location())
	require.NoError(t, s.Upsert(ctx, cachedRecord("2026-01-02", true, now.Add(-48*time.Hour))))

	c := &fakeClient{latestErr: errors.New("connection refused")}
	res, err := newFetcher(s, c, now).FetchLatest(ctx, false)
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.True(t, res.Fallback)
	assert.Equal(t, "2026-01-02", res.Record.DrawDate)
}

func TestFetchLatestFailsWithoutCache(t *testing.T) {
	ctx := context.Background()
	c := &fakeClient{latestErr: errors.New("connection refused")}
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, thaidate.Location())

	_, err := newFetcher(store.NewMemoryStore(), c, now).FetchLatest(ctx, false)
	assert.Error(t, err)
}

func TestFetchByDateCacheHit(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, thaidate.Location())
	require.NoError(t, s.Upsert(ctx, cachedRecord("2025-12-16", false, now)))

	c := &fakeClient{}
	rec, err := newFetcher(s, c, now).FetchByDate(ctx, "2025-12-16")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "472918", rec.FirstPrize)
	assert.Equal(t, 0, c.byDateCalls)
}

func TestFetchByDateMissFetchesAndCaches(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, thaidate.Location())
	c := &fakeClient{byDate: map[string]*entities.UpstreamPayload{
		"02012569": payloadFor("2 มกราคม 2569"),
	}}

	rec, err := newFetcher(s, c, now).FetchByDate(ctx, "2026-01-02")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "2026-01-02", rec.DrawDate)
	assert.False(t, rec.IsLatest)

	stored, err := s.GetByDate(ctx, "2026-01-02")
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestFetchByDateAbsentIsNotAnError(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, thaidate.Location())
	c := &fakeClient{byDate: map[string]*entities.UpstreamPayload{}}

	rec, err := newFetcher(store.NewMemoryStore(), c, now).FetchByDate(ctx, "2026-01-09")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFetchByDateRejectsInvalidDate(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	_, err := newFetcher(store.NewMemoryStore(), &fakeClient{}, now).FetchByDate(ctx, "02012569")
	assert.Error(t, err)
}

func TestFetchPreviousServedFromCache(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Date(2026, time.January, 20, 12, 0, 0, 0, thaidate.Location())

	dates := []string{"2026-01-16", "2026-01-01", "2025-12-16", "2025-12-01", "2025-11-16"}
	for _, d := range dates {
		require.NoError(t, s.Upsert(ctx, cachedRecord(d, false, now)))
	}

	c := &fakeClient{}
	results, cached, err := newFetcher(s, c, now).FetchPrevious(ctx, 5)
	require.NoError(t, err)
	assert.True(t, cached)
	require.Len(t, results, 5)
	assert.Equal(t, 0, c.byDateCalls, "no upstream calls when cache suffices")
	assert.Equal(t, "2026-01-16", results[0].DrawDate)
	assert.Equal(t, "2025-11-16", results[4].DrawDate)
}

func TestFetchPreviousFillsFromUpstream(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Date(2026, time.January, 20, 12, 0, 0, 0, thaidate.Location())
	require.NoError(t, s.Upsert(ctx, cachedRecord("2026-01-16", false, now)))

	c := &fakeClient{byDate: map[string]*entities.UpstreamPayload{
		"16012569": payloadFor("16 มกราคม 2569"), // duplicate of the cached row
		"01012569": payloadFor("1 มกราคม 2569"),
		"16122568": payloadFor("16 ธันวาคม 2568"),
	}}

	results, cached, err := newFetcher(s, c, now).FetchPrevious(ctx, 3)
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, results, 3)

	// Sorted descending, deduped against the cached row.
	assert.Equal(t, "2026-01-16", results[0].DrawDate)
	assert.Equal(t, "2026-01-01", results[1].DrawDate)
	assert.Equal(t, "2025-12-16", results[2].DrawDate)

	// The cached duplicate kept its original record.
	assert.Equal(t, "472918", results[0].FirstPrize)
}

func TestFetchPreviousSkipsFailedDates(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Date(2026, time.January, 20, 12, 0, 0, 0, thaidate.Location())

	// 16012569 is missing upstream; the extra candidate covers it.
	c := &fakeClient{byDate: map[string]*entities.UpstreamPayload{
		"01012569": payloadFor("1 มกราคม 2569"),
		"16122568": payloadFor("16 ธันวาคม 2568"),
	}}

	results, cached, err := newFetcher(s, c, now).FetchPrevious(ctx, 2)
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, results, 2)
	assert.Equal(t, "2026-01-01", results[0].DrawDate)
	assert.Equal(t, "2025-12-16", results[1].DrawDate)
}

func TestFetchPreviousReturnsPartialOnTotalFailure(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Date(2026, time.January, 20, 12, 0, 0, 0, thaidate.Location())
	require.NoError(t, s.Upsert(ctx, cachedRecord("2025-12-16", false, now)))

	c := &fakeClient{byDate: map[string]*entities.UpstreamPayload{}}
	results, _, err := newFetcher(s, c, now).FetchPrevious(ctx, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2025-12-16", results[0].DrawDate)
}

func TestCacheTTL(t *testing.T) {
	loc := thaidate.Location()
	tests := []struct {
		name     string
		now      time.Time
		expected time.Duration
	}{
		{"draw day in window", time.Date(2026, time.January, 16, 15, 0, 0, 0, loc), drawWindowTTL},
		{"draw day window start", time.Date(2026, time.January, 1, 14, 0, 0, 0, loc), drawWindowTTL},
		{"draw day window end", time.Date(2026, time.January, 16, 17, 59, 0, 0, loc), drawWindowTTL},
		{"draw day outside window", time.Date(2026, time.January, 16, 9, 0, 0, 0, loc), defaultTTL},
		{"ordinary day in window hours", time.Date(2026, time.January, 10, 15, 0, 0, 0, loc), defaultTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cacheTTL(tt.now))
		})
	}
}
