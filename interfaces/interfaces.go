// Package interfaces defines core abstractions for the lottery API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"time"

	"github.com/thanawat/thailotto-api/lotteryparser/entities"
)

// DrawStore is the contract for the draw-result cache, a table keyed by
// ISO draw date. Lookups return (nil, nil) when no row exists. At most one
// row carries the latest flag; writers must call ClearLatestFlag before
// upserting a new latest row.
type DrawStore interface {
	// GetByDate returns the cached draw for an ISO date, or nil.
	GetByDate(ctx context.Context, isoDate string) (*entities.DrawRecord, error)

	// GetLatest returns the row flagged as latest, or nil. Latest is
	// resolved by the flag, never by max-date, so a transient
	// multi-latest state self-heals on the next successful fetch.
	GetLatest(ctx context.Context) (*entities.DrawRecord, error)

	// ListPrevious returns up to limit non-latest draws, newest first.
	ListPrevious(ctx context.Context, limit int) ([]entities.DrawRecord, error)

	// Upsert inserts or replaces the row with the same draw date.
	Upsert(ctx context.Context, rec *entities.DrawRecord) error

	// ClearLatestFlag unsets the latest flag wherever it is held.
	ClearLatestFlag(ctx context.Context) error
}

// UpstreamClient is the contract for the third-party lottery API.
type UpstreamClient interface {
	// FetchLatest retrieves the most recent draw.
	FetchLatest(ctx context.Context) (*entities.UpstreamPayload, error)

	// FetchByDate retrieves a specific draw by its Buddhist-Era DDMMYYYY
	// form; missing draws yield lotteryparser.ErrNoDataForDate.
	FetchByDate(ctx context.Context, buddhistDate string) (*entities.UpstreamPayload, error)
}

// Scheduler is the contract for the periodic refresh job.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker is the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck(ctx context.Context) (status string, details map[string]any, httpStatus int)

	// NextDraw returns the next scheduled draw instant
	NextDraw() time.Time
}
