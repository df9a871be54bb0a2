package lottery

import (
	"context"
	"time"

	"github.com/thanawat/thailotto-api/thaidate"
)

// Countdown is the time remaining until a draw, broken into display units.
type Countdown struct {
	Days    int       `json:"days"`
	Hours   int       `json:"hours"`
	Minutes int       `json:"minutes"`
	Seconds int       `json:"seconds"`
	Target  time.Time `json:"target"`
}

// CountdownTo breaks the interval from now to target into days, hours,
// minutes and seconds. A target already in the past yields all zeros.
func CountdownTo(now, target time.Time) Countdown {
	remaining := target.Sub(now)
	if remaining < 0 {
		remaining = 0
	}

	return Countdown{
		Days:    int(remaining / (24 * time.Hour)),
		Hours:   int(remaining/time.Hour) % 24,
		Minutes: int(remaining/time.Minute) % 60,
		Seconds: int(remaining/time.Second) % 60,
		Target:  target,
	}
}

// UntilNextDraw returns the countdown from now to the next draw at 15:00
// Bangkok time on the 1st or 16th.
func UntilNextDraw(now time.Time) Countdown {
	return CountdownTo(now, thaidate.NextDrawDate(now))
}

// RunTicker delivers a countdown snapshot to fn once per second until ctx
// is cancelled. Each tick recomputes the target, so when a draw instant
// passes the countdown rolls over to the following draw.
func RunTicker(ctx context.Context, fn func(Countdown)) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	fn(UntilNextDraw(time.Now().In(thaidate.Location())))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(UntilNextDraw(time.Now().In(thaidate.Location())))
		}
	}
}
