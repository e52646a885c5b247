package storage

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
)

// ObjectSink persists artifacts as objects in a Cloud Storage bucket.
// It is the primary backend in the default routing policy.
type ObjectSink struct {
	bucket *gcs.BucketHandle
	name   string
}

// NewObjectSink opens a handle on the named bucket. Credentials resolve
// from the environment (service account or application default).
func NewObjectSink(ctx context.Context, bucket string) (*ObjectSink, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return &ObjectSink{bucket: client.Bucket(bucket), name: bucket}, nil
}

func (s *ObjectSink) Name() string { return "gcs" }

// Destination renders the object URI for a key.
func (s *ObjectSink) Destination(key string) string {
	return fmt.Sprintf("gs://%s/%s", s.name, key)
}

// Put uploads with create-or-overwrite semantics. The object becomes
// visible under the key only when the writer closes cleanly, so a
// failed upload never leaves a truncated object behind.
func (s *ObjectSink) Put(ctx context.Context, key string, data []byte) error {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload %s: %w", s.Destination(key), err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload %s: %w", s.Destination(key), err)
	}
	return nil
}
