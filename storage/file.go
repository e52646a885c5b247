package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileSink persists artifacts under a local directory, creating parent
// directories on demand. It is the fallback backend and the only
// backend when remote storage is disabled.
type FileSink struct {
	dir string
}

// NewFileSink returns a sink rooted at dir. The directory does not need
// to exist yet.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Name() string { return "file" }

// Destination maps a key to its path under the sink directory.
func (s *FileSink) Destination(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key))
}

// Put writes the artifact, creating missing directories first.
func (s *FileSink) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest := s.Destination(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dest), err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

// Prune removes artifacts under the sink directory whose modification
// time is older than age, returning how many were removed. A
// non-positive age disables pruning; a missing directory prunes
// nothing.
func (s *FileSink) Prune(age time.Duration) (int, error) {
	if age <= 0 {
		return 0, nil
	}
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return 0, nil
	}
	cutoff := time.Now().Add(-age)
	removed := 0
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(p); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("prune %s: %w", s.dir, err)
	}
	return removed, nil
}
