// Package scheduler provides the automated result refresh loop and staleness
// monitoring for the lottery API. It keeps the cached latest draw current by
// polling the fetch orchestrator on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/thanawat/thailotto-api/fetcher"
	"github.com/thanawat/thailotto-api/interfaces"
	"github.com/thanawat/thailotto-api/logging"
	"github.com/thanawat/thailotto-api/thaidate"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Draws post twice a month; a latest draw older than this means the
// refresh loop has been failing across a full draw cycle.
const stalenessThreshold = 17 * 24 * time.Hour

// Scheduler refreshes the latest draw on a fixed interval.
type Scheduler struct {
	fetcher   *fetcher.Fetcher
	store     interfaces.DrawStore
	interval  time.Duration
	scheduler *gocron.Scheduler
	done      chan struct{}
}

// NewScheduler creates a new scheduler instance with injected dependencies.
func NewScheduler(f *fetcher.Fetcher, store interfaces.DrawStore, refreshMinutes int) *Scheduler {
	return &Scheduler{
		fetcher:   f,
		store:     store,
		interval:  time.Duration(refreshMinutes) * time.Minute,
		scheduler: gocron.NewScheduler(thaidate.Location()),
		done:      make(chan struct{}),
	}
}

// Start performs an initial fetch and schedules the periodic refresh. An
// initial fetch failure is logged but does not abort startup; the upstream
// may be down right now and the refresh loop recovers on a later tick.
func (s *Scheduler) Start() error {
	if err := s.refresh(); err != nil {
		logging.Error("Initial lottery fetch failed", "error", err)
	}

	_, err := s.scheduler.Every(int(s.interval.Minutes())).Minutes().Do(func() {
		if err := s.refresh(); err != nil {
			logging.Error("Failed to refresh lottery results", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule refresh", "error", err)
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.scheduler.StartAsync()
	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	close(s.done)
	s.scheduler.Stop()
}

// refresh pulls the latest draw through the orchestrator, honoring the
// cache TTL so a tick inside the TTL window is a no-op.
func (s *Scheduler) refresh() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	res, err := s.fetcher.FetchLatest(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to fetch latest draw: %w", err)
	}

	logging.Info("Lottery refresh completed",
		"draw_date", res.Record.DrawDate,
		"cached", res.Cached,
		"fallback", res.Fallback,
		"duration", time.Since(start).String())

	return nil
}

// startStalenessMonitoring watches the cached latest draw and warns when
// it falls behind the draw calendar.
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.checkStaleness()
			}
		}
	}()
}

func (s *Scheduler) checkStaleness() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	latest, err := s.store.GetLatest(ctx)
	if err != nil {
		logging.Warn("Staleness check could not read cache", "error", err)
		return
	}
	if latest == nil {
		logging.Warn("No latest draw cached")
		return
	}

	drawDate, err := time.ParseInLocation("2006-01-02", latest.DrawDate, thaidate.Location())
	if err != nil {
		logging.Warn("Cached latest draw has unparseable date", "draw_date", latest.DrawDate)
		return
	}

	if age := s.fetcher.Now().Sub(drawDate); age > stalenessThreshold {
		logging.Warn("Latest draw is older than a full draw cycle",
			"draw_date", latest.DrawDate,
			"age_days", int(age.Hours()/24))
	}
}
