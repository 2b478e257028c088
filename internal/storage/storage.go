package storage

import (
	"context"
	"io"
)

// Package storage contains the binary-storage capability the asset core
// depends on. Implementations must rely on streaming I/O only; no local disk.

// UploadResult describes where an uploaded object landed.
type UploadResult struct {
	URL    string
	Key    string
	Bucket string
	Region string
}

// BlobStore is the injected binary-storage capability. The private flag
// selects how the backend resolves access (public bucket vs presigned URLs).
type BlobStore interface {
	// Upload stores the content under a backend-chosen key derived from
	// filename and returns the object's location. A result without a URL is
	// treated as a failed upload by callers.
	Upload(ctx context.Context, r io.Reader, size int64, contentType, filename string, private bool) (UploadResult, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string, private bool) error
}
