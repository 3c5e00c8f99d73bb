package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Opener opens a seed source by location
type Opener interface {
	Open(ctx context.Context, source string) (io.ReadCloser, error)
}

// SourceOpener opens local paths from disk and s3://bucket/key URIs from
// object storage. Objects is nil when no S3 endpoint is configured.
type SourceOpener struct {
	Objects Service
}

// NewSourceOpener creates an opener; objects may be nil
func NewSourceOpener(objects Service) *SourceOpener {
	return &SourceOpener{Objects: objects}
}

// Open implements Opener
func (o *SourceOpener) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	if bucket, key, ok := ParseS3URI(source); ok {
		if o.Objects == nil {
			return nil, fmt.Errorf("cannot open %s: object storage is not configured", source)
		}
		return o.Objects.GetObject(ctx, bucket, key)
	}

	f, err := os.Open(source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", source, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	return f, nil
}

// ParseS3URI splits s3://bucket/key into its parts
func ParseS3URI(source string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(source, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// CheckBuckets runs a health check against every distinct bucket referenced
// by the s3:// sources. Local paths are skipped.
func CheckBuckets(ctx context.Context, objects Service, sources ...string) error {
	seen := make(map[string]bool)
	for _, source := range sources {
		bucket, _, ok := ParseS3URI(source)
		if !ok || seen[bucket] {
			continue
		}
		seen[bucket] = true

		if err := objects.Health(ctx, bucket); err != nil {
			return fmt.Errorf("bucket %s: %w", bucket, err)
		}
	}
	return nil
}
