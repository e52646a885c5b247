package fleetarchiver

import (
	"context"
	"time"

	"github.com/theoremus-urban-solutions/fleet-archiver/storage"
)

// Demand windows, in minutes since local midnight. The feed is idle
// overnight, dense through the commute peaks, sparse in between.
const (
	nightEnd         = 5*60 + 50  // 05:50
	morningPeakEnd   = 9*60 + 30  // 09:30
	eveningPeakStart = 16 * 60    // 16:00
	eveningPeakEnd   = 18*60 + 30 // 18:30
)

const (
	peakInterval    = time.Minute
	offPeakInterval = 10 * time.Minute
	nightRecheck    = 5 * time.Minute
)

// intervalAt maps a wall-clock instant onto the capture cadence. The
// second return is false during the overnight quiet window, when no
// cycles run at all.
func intervalAt(t time.Time) (time.Duration, bool) {
	m := t.Hour()*60 + t.Minute()
	switch {
	case m < nightEnd:
		return 0, false
	case m <= morningPeakEnd:
		return peakInterval, true
	case m >= eveningPeakStart && m <= eveningPeakEnd:
		return peakInterval, true
	default:
		return offPeakInterval, true
	}
}

func intervalLabel(d time.Duration, active bool) string {
	if !active {
		return "night"
	}
	if d == peakInterval {
		return "peak"
	}
	return "off-peak"
}

// Loop runs archive cycles on the demand-window cadence until its
// context is cancelled.
type Loop struct {
	runner    *Runner
	fallback  *storage.FileSink
	retention time.Duration
}

// NewLoop builds the self-scheduling loop. fallback may be nil; it is
// only consulted for retention pruning. Zero retention disables pruning.
func NewLoop(runner *Runner, fallback *storage.FileSink, retention time.Duration) *Loop {
	return &Loop{runner: runner, fallback: fallback, retention: retention}
}

// Run cycles until ctx is cancelled. Cancellation lands on the sleeps
// between cycles; a cycle already under way finishes first.
func (l *Loop) Run(ctx context.Context) {
	lastLabel := ""
	for {
		interval, active := intervalAt(time.Now())
		wait := interval
		if !active {
			wait = nightRecheck
		}
		if label := intervalLabel(interval, active); label != lastLabel {
			logger.Infow("schedule switched", "window", label, "interval", wait)
			lastLabel = label
		}
		if active {
			l.runner.RunCycle(context.WithoutCancel(ctx))
			l.prune()
		}
		if !sleepCtx(ctx, wait) {
			return
		}
	}
}

func (l *Loop) prune() {
	if l.retention <= 0 || l.fallback == nil {
		return
	}
	removed, err := l.fallback.Prune(l.retention)
	if err != nil {
		logger.Warnw("retention prune failed", "error", err)
		return
	}
	if removed > 0 {
		logger.Infow("retention prune removed artifacts", "removed", removed)
	}
}

// sleepCtx waits d or until ctx is done, reporting whether the full wait
// elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
