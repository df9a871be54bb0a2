package lottery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/thanawat/thailotto-api/thaidate"
)

func TestCountdownTo(t *testing.T) {
	loc := thaidate.Location()
	now := time.Date(2026, time.January, 10, 12, 30, 15, 0, loc)
	target := time.Date(2026, time.January, 16, 15, 0, 0, 0, loc)

	cd := CountdownTo(now, target)
	assert.Equal(t, 6, cd.Days)
	assert.Equal(t, 2, cd.Hours)
	assert.Equal(t, 29, cd.Minutes)
	assert.Equal(t, 45, cd.Seconds)
	assert.Equal(t, target, cd.Target)
}

func TestCountdownToPastTarget(t *testing.T) {
	loc := thaidate.Location()
	now := time.Date(2026, time.January, 17, 0, 0, 0, 0, loc)
	target := time.Date(2026, time.January, 16, 15, 0, 0, 0, loc)

	cd := CountdownTo(now, target)
	assert.Zero(t, cd.Days)
	assert.Zero(t, cd.Hours)
	assert.Zero(t, cd.Minutes)
	assert.Zero(t, cd.Seconds)
}

func TestRunTickerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	ticks := make(chan Countdown, 8)
	done := make(chan struct{})
	go func() {
		RunTicker(ctx, func(cd Countdown) { ticks <- cd })
		close(done)
	}()

	// The first snapshot is delivered immediately.
	select {
	case cd := <-ticks:
		assert.False(t, cd.Target.IsZero())
	case <-time.After(time.Second):
		t.Fatal("no countdown delivered")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not stop after cancellation")
	}
}

func TestUntilNextDraw(t *testing.T) {
	loc := thaidate.Location()
	now := time.Date(2026, time.January, 10, 15, 0, 0, 0, loc)

	cd := UntilNextDraw(now)
	assert.Equal(t, time.Date(2026, time.January, 16, 15, 0, 0, 0, loc), cd.Target)
	assert.Equal(t, 6, cd.Days)
	assert.Zero(t, cd.Hours)
	assert.Zero(t, cd.Minutes)
	assert.Zero(t, cd.Seconds)
}
