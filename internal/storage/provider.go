package storage

import (
	"context"
	"io"
	"time"
)

// Object is a metadata descriptor; content is read separately via Open or
// ReadBytes.
type Object struct {
	Path         Path
	SizeBytes    int64
	LastModified time.Time
	ContentType  string
	ETag         string
	IsDir        bool
}

// Provider reads data files for file-type devices. Implementations cover
// local disk, AWS S3, and MinIO; all of them are read-only.
type Provider interface {
	// Type returns the provider identifier, e.g. "s3".
	Type() string

	// List returns descriptors for all objects under the prefix, without
	// loading content.
	List(ctx context.Context, prefix Path) ([]Object, error)

	// Open returns a stream of the object's contents. Callers close it.
	Open(ctx context.Context, path Path) (io.ReadCloser, error)

	// ReadBytes loads the full object into memory.
	ReadBytes(ctx context.Context, path Path) ([]byte, error)

	// Exists reports whether an object is present at the path.
	Exists(ctx context.Context, path Path) (bool, error)

	// Stat returns metadata for a single object.
	Stat(ctx context.Context, path Path) (Object, error)

	// Close releases any clients held by the provider.
	Close() error
}

// readAll is shared by providers whose ReadBytes is Open plus drain.
func readAll(ctx context.Context, p Provider, path Path) ([]byte, error) {
	rc, err := p.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
