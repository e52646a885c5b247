package storage

import (
	"context"
	"errors"
)

// Mode selects how the Router spreads writes across its backends.
type Mode int

const (
	// PrimaryWithFallback writes to the first backend and moves to the
	// next only when the write fails. This is the default policy; it
	// avoids doubling remote cost by accident.
	PrimaryWithFallback Mode = iota
	// Mirror writes to every backend unconditionally.
	Mirror
)

// BackendOutcome records one backend attempt during a persist call.
type BackendOutcome struct {
	Backend     string
	Destination string
	Err         error
}

// Result reports one persist call: every backend attempted, in order,
// and where the artifact first landed. A recovered primary failure
// stays visible in Attempts.
type Result struct {
	Key      string
	Attempts []BackendOutcome
	StoredAt string
}

// OK reports whether at least one backend holds the artifact.
func (r Result) OK() bool { return r.StoredAt != "" }

// Err returns nil when some backend succeeded, otherwise the joined
// per-backend failures.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Attempts))
	for _, a := range r.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	if len(errs) == 0 {
		return errors.New("no storage backends configured")
	}
	return errors.Join(errs...)
}

// Router persists artifacts across an ordered set of backends.
type Router struct {
	mode  Mode
	sinks []Sink
}

// NewRouter builds a router over sinks in priority order.
func NewRouter(mode Mode, sinks ...Sink) *Router {
	return &Router{mode: mode, sinks: sinks}
}

// Persist writes one artifact according to the routing mode. Every
// attempted backend shows up in the result; the call failed only when
// no backend succeeded.
func (rt *Router) Persist(ctx context.Context, art Artifact) Result {
	res := Result{Key: art.Key}
	for _, s := range rt.sinks {
		dest := s.Destination(art.Key)
		err := s.Put(ctx, art.Key, art.Data)
		if err != nil {
			err = &SinkError{Backend: s.Name(), Destination: dest, Err: err}
		}
		res.Attempts = append(res.Attempts, BackendOutcome{
			Backend:     s.Name(),
			Destination: dest,
			Err:         err,
		})
		if err == nil {
			if res.StoredAt == "" {
				res.StoredAt = dest
			}
			if rt.mode == PrimaryWithFallback {
				break
			}
		}
	}
	return res
}
