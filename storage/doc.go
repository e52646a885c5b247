// Package storage persists flow artifacts to durable backends.
//
// A Sink is one backend (Cloud Storage object store, local filesystem).
// The Router spreads one artifact across an ordered set of sinks:
// primary first with fallback on failure by default, or mirrored to
// every backend when configured. Each persist call reports the outcome
// of every backend it touched.
package storage
