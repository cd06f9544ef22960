// Package blob holds the object storage adapters for uploaded videos
// and derived thumbnails. Each adapter instance is bound to a single
// bucket.
package blob

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound means the object key does not exist in the bucket.
var ErrObjectNotFound = errors.New("object not found")

// UploadURLTTL is how long an issued upload URL stays valid.
const UploadURLTTL = 5 * time.Minute

// ObjectInfo is the metadata returned by a head request.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

type ObjectStore interface {
	// IssueUploadURL returns a capability URL valid for a single PUT
	// of the named object with the given content type, expiring after
	// ttl. It has no side effects beyond token generation.
	IssueUploadURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)

	// DescribeObject returns size/type/modification metadata, or
	// ErrObjectNotFound.
	DescribeObject(ctx context.Context, key string) (*ObjectInfo, error)

	// PutObject stores a derived artifact. publicRead marks the object
	// world-readable where the backend supports it.
	PutObject(ctx context.Context, key string, data []byte, contentType string, publicRead bool) error
}
