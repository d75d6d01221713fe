package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no blob exists under the name.
var ErrNotFound = errors.New("blob not found")

// PutResult describes one persisted upload.
type PutResult struct {
	Name      string
	SizeBytes int64
	SHA256    string
}

// BlobStore is the byte-storage abstraction used for record attachments.
// Names are flat, already-sanitized filenames.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader) (PutResult, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

var (
	_ BlobStore = (*LocalDir)(nil)
	_ BlobStore = (*GCS)(nil)
	_ BlobStore = (*HashNamed)(nil)
)
