package storage

import (
	"context"
	"fmt"
	"path"
	"time"
)

// Artifact is one materialized flow result ready to persist: a
// deterministic key plus the fully serialized payload. Serialization
// happens before any write call so a mid-write crash can never leave a
// truncated object visible under the final key.
type Artifact struct {
	Key  string
	Data []byte
}

// KeyFor derives the storage key for one flow capture:
// "{folder}/{flow}_{YYYYMMDD_HHMMSS}.json". An empty folder yields a
// bare key. Keys sort lexicographically by capture time within one
// flow; two captures in the same wall-clock second share a key and the
// later write wins.
func KeyFor(folder, flowName string, ts time.Time) string {
	name := fmt.Sprintf("%s_%s.json", flowName, ts.Format("20060102_150405"))
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

// NewArtifact builds the artifact for one flow capture.
func NewArtifact(folder, flowName string, ts time.Time, data []byte) Artifact {
	return Artifact{Key: KeyFor(folder, flowName, ts), Data: data}
}

// Sink is one storage backend able to durably persist a named artifact.
type Sink interface {
	Name() string
	// Destination renders where the key lands, for reporting and logs.
	Destination(key string) string
	// Put atomically creates or overwrites the artifact at key.
	Put(ctx context.Context, key string, data []byte) error
}

// SinkError is one backend's write failure.
type SinkError struct {
	Backend     string
	Destination string
	Err         error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s write to %s: %v", e.Backend, e.Destination, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
