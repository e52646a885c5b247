package fleetarchiver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/fleet-archiver/fleet"
	"github.com/theoremus-urban-solutions/fleet-archiver/flow"
	"github.com/theoremus-urban-solutions/fleet-archiver/storage"
)

// TestIntervalAt tests the demand-window boundaries
func TestIntervalAt(t *testing.T) {
	day := func(hour, min int) time.Time {
		return time.Date(2026, 3, 9, hour, min, 0, 0, time.Local)
	}
	cases := []struct {
		name   string
		at     time.Time
		want   time.Duration
		active bool
	}{
		{"midnight", day(0, 0), 0, false},
		{"late night", day(5, 49), 0, false},
		{"morning peak opens", day(5, 50), peakInterval, true},
		{"morning peak", day(8, 0), peakInterval, true},
		{"morning peak closes", day(9, 30), peakInterval, true},
		{"midday", day(9, 31), offPeakInterval, true},
		{"afternoon", day(15, 59), offPeakInterval, true},
		{"evening peak opens", day(16, 0), peakInterval, true},
		{"evening peak closes", day(18, 30), peakInterval, true},
		{"evening", day(18, 31), offPeakInterval, true},
		{"before midnight", day(23, 59), offPeakInterval, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, active := intervalAt(tc.at)
			if active != tc.active {
				t.Fatalf("active = %v, want %v", active, tc.active)
			}
			if got != tc.want {
				t.Errorf("interval = %v, want %v", got, tc.want)
			}
		})
	}
	t.Logf("✓ Demand windows map to the expected cadence")
}

// TestIntervalLabel tests the window names used in schedule logs
func TestIntervalLabel(t *testing.T) {
	if got := intervalLabel(0, false); got != "night" {
		t.Errorf("night label = %q", got)
	}
	if got := intervalLabel(peakInterval, true); got != "peak" {
		t.Errorf("peak label = %q", got)
	}
	if got := intervalLabel(offPeakInterval, true); got != "off-peak" {
		t.Errorf("off-peak label = %q", got)
	}
	t.Logf("✓ Window labels match")
}

// TestSleepCtx tests the interruptible wait
func TestSleepCtx(t *testing.T) {
	t.Run("elapses", func(t *testing.T) {
		if !sleepCtx(context.Background(), time.Millisecond) {
			t.Error("full wait should report true")
		}
	})
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan bool, 1)
		go func() { done <- sleepCtx(ctx, time.Hour) }()
		cancel()
		select {
		case ok := <-done:
			if ok {
				t.Error("cancelled wait should report false")
			}
		case <-time.After(5 * time.Second):
			t.Fatal("sleepCtx did not return after cancellation")
		}
	})
	t.Logf("✓ Waits are interruptible")
}

type countingFetcher struct {
	mu    sync.Mutex
	calls int
}

func (c *countingFetcher) Fetch(ctx context.Context) (*fleet.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return snapshotOf(), nil
}

// TestLoop_StopsOnCancel tests that cancellation lands on the waits
// between cycles rather than killing the loop mid-cycle
func TestLoop_StopsOnCancel(t *testing.T) {
	fetcher := &countingFetcher{}
	router := storage.NewRouter(storage.PrimaryWithFallback, newMemSink("mem"))
	runner := NewRunner(fetcher, []flow.Definition{flow.General()}, router, "prenfe-data", nil)
	loop := NewLoop(runner, nil, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	t.Logf("✓ Loop stopped, cycles run: %d", fetcher.calls)
}
