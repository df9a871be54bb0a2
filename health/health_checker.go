// Package health provides health checking functionality for the lottery API.
package health

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/thanawat/thailotto-api/interfaces"
	"github.com/thanawat/thailotto-api/thaidate"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface.
type HealthCheckerImpl struct {
	store interfaces.DrawStore
	now   func() time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies.
func NewHealthChecker(store interfaces.DrawStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		store: store,
		now:   func() time.Time { return time.Now().In(thaidate.Location()) },
	}
}

// HealthCheck reports health based on the cached latest draw. Draws post
// twice a month, so the thresholds follow the draw calendar rather than
// wall-clock hours: the cache is stale when the flagged latest draw is
// older than the most recent expected draw by more than a day.
func (h *HealthCheckerImpl) HealthCheck(ctx context.Context) (status string, data map[string]any, httpStatus int) {
	now := h.now()

	latest, err := h.store.GetLatest(ctx)
	switch {
	case err != nil:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
		data = map[string]any{"error": "cache store unreachable"}
		return status, data, httpStatus

	case latest == nil:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
		data = map[string]any{"latest_draw": nil}
		return status, data, httpStatus
	}

	fetchAge := now.Sub(latest.FetchedAt)
	expected := thaidate.ExpectedDrawDate(now)
	drawDate, dateErr := time.ParseInLocation("2006-01-02", latest.DrawDate, thaidate.Location())
	drawLag := time.Duration(0)
	if dateErr == nil && drawDate.Before(expected) {
		drawLag = expected.Sub(drawDate)
	}

	switch {
	case dateErr != nil:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case drawLag > 24*time.Hour:
		// The expected draw has been out for over a day and the cache
		// still holds an older one.
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case fetchAge > 7*24*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"latest_draw":     latest.DrawDate,
		"fetched_at":      latest.FetchedAt.Format(time.RFC3339),
		"fetch_age_hours": math.Round(fetchAge.Hours()*10) / 10,
		"next_draw":       h.NextDraw().Format(time.RFC3339),
	}

	return status, data, httpStatus
}

// NextDraw returns the next scheduled draw instant.
func (h *HealthCheckerImpl) NextDraw() time.Time {
	return thaidate.NextDrawDate(h.now())
}
