package fleetarchiver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/theoremus-urban-solutions/fleet-archiver/fleet"
	"github.com/theoremus-urban-solutions/fleet-archiver/flow"
	"github.com/theoremus-urban-solutions/fleet-archiver/storage"
)

// Terminal cycle states.
const (
	CycleDone   = "DONE"
	CycleFailed = "FAILED"
)

// Fetcher produces fleet snapshots. *feed.Client is the production
// implementation.
type Fetcher interface {
	Fetch(ctx context.Context) (*fleet.Snapshot, error)
}

// FlowOutcome records what happened to one flow within a cycle.
type FlowOutcome struct {
	Flow     string
	Records  int
	Skipped  int
	Stored   string
	Fallback bool
	Err      error
}

// Succeeded reports whether the flow's artifact reached a backend.
func (o FlowOutcome) Succeeded() bool { return o.Err == nil }

// CycleReport describes one fetch/filter/persist cycle. State is FAILED
// only when the fetch itself failed; flow-level failures leave the cycle
// DONE and surface in Flows.
type CycleReport struct {
	CycleID    string
	StartedAt  time.Time
	State      string
	FetchOK    bool
	FetchErr   error
	FetchMS    int64
	Records    int
	Flows      []FlowOutcome
	DurationMS int64
}

// Runner drives archive cycles: one fetch, then every configured flow
// filtered and persisted independently.
type Runner struct {
	fetcher Fetcher
	flows   []flow.Definition
	router  *storage.Router
	folder  string
	metrics *Metrics
}

// NewRunner wires a runner. A nil metrics gets a private registry so
// tests and one-shot runs need no Prometheus setup.
func NewRunner(fetcher Fetcher, flows []flow.Definition, router *storage.Router, folder string, metrics *Metrics) *Runner {
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}
	return &Runner{
		fetcher: fetcher,
		flows:   flows,
		router:  router,
		folder:  folder,
		metrics: metrics,
	}
}

// RunCycle executes one full cycle. A fetch failure aborts before any
// flow runs; flow failures are isolated from each other.
func (r *Runner) RunCycle(ctx context.Context) *CycleReport {
	rep := &CycleReport{
		CycleID:   uuid.NewString(),
		StartedAt: time.Now(),
	}

	snap, err := r.fetcher.Fetch(ctx)
	rep.FetchMS = time.Since(rep.StartedAt).Milliseconds()
	if err != nil {
		rep.State = CycleFailed
		rep.FetchErr = err
		r.metrics.FetchFailures.Inc()
		r.metrics.CyclesTotal.WithLabelValues("failed").Inc()
		logger.Errorw("fetch failed, no flows attempted",
			"cycle_id", rep.CycleID,
			"error", err,
		)
		return rep
	}
	rep.FetchOK = true
	rep.Records = len(snap.Records)
	r.metrics.RecordsFetched.Add(float64(rep.Records))

	analysis := fleet.Analyze(snap.Records)
	logger.Infow("snapshot fetched",
		"cycle_id", rep.CycleID,
		"total_trains", analysis.TotalTrains,
		"lines", analysis.Summary(),
		"fetch_ms", rep.FetchMS,
	)

	for _, def := range r.flows {
		rep.Flows = append(rep.Flows, r.runFlow(ctx, rep.CycleID, def, snap))
	}

	rep.State = CycleDone
	rep.DurationMS = time.Since(rep.StartedAt).Milliseconds()
	r.metrics.CycleSeconds.Observe(time.Since(rep.StartedAt).Seconds())
	r.metrics.CyclesTotal.WithLabelValues("success").Inc()
	return rep
}

func (r *Runner) runFlow(ctx context.Context, cycleID string, def flow.Definition, snap *fleet.Snapshot) FlowOutcome {
	out := FlowOutcome{Flow: def.Name}

	res := flow.Apply(def, snap)
	out.Records = len(res.Records)
	out.Skipped = res.Skipped
	if res.Skipped > 0 {
		logger.Warnw("records skipped during filtering",
			"cycle_id", cycleID,
			"flow", def.Name,
			"skipped", res.Skipped,
		)
	}

	data, err := fleet.EncodeRecords(res.Records)
	if err != nil {
		out.Err = err
		r.metrics.FlowFailures.WithLabelValues(def.Name).Inc()
		logger.Errorw("flow encode failed",
			"cycle_id", cycleID,
			"flow", def.Name,
			"error", err,
		)
		return out
	}

	art := storage.NewArtifact(r.folder, def.Name, res.GeneratedAt, data)
	sr := r.router.Persist(ctx, art)
	for _, att := range sr.Attempts {
		if att.Err != nil {
			logger.Errorw("storage backend failed",
				"cycle_id", cycleID,
				"flow", def.Name,
				"backend", att.Backend,
				"destination", att.Destination,
				"error", att.Err,
			)
		}
	}
	if !sr.OK() {
		out.Err = sr.Err()
		r.metrics.FlowFailures.WithLabelValues(def.Name).Inc()
		return out
	}
	out.Stored = sr.StoredAt
	if len(sr.Attempts) > 0 && sr.Attempts[0].Err != nil {
		out.Fallback = true
		r.metrics.SinkFallbacks.Inc()
	}
	logger.Infow("flow persisted",
		"cycle_id", cycleID,
		"flow", def.Name,
		"records", out.Records,
		"destination", sr.StoredAt,
		"fallback", out.Fallback,
	)
	return out
}
