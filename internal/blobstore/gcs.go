package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const (
	gcsScheme     = "gs"
	uploadTimeout = 2 * time.Minute
)

// GCS stores blobs as objects in a Google Cloud Storage bucket under a prefix.
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

// IsGCSLocation reports whether location is a gs:// URL.
func IsGCSLocation(location string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(location)), gcsScheme+"://")
}

// ParseGCSLocation splits gs://bucket/prefix into its bucket and prefix.
func ParseGCSLocation(location string) (bucket, prefix string, err error) {
	u, err := url.Parse(strings.TrimSpace(location))
	if err != nil {
		return "", "", fmt.Errorf("parse gcs location: %w", err)
	}
	if !strings.EqualFold(u.Scheme, gcsScheme) {
		return "", "", fmt.Errorf("gcs location must start with gs://, got %q", location)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("gcs location %q has no bucket", location)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

// NewGCS creates a storage client for location. Credentials come from the
// environment (application default credentials) unless opts override them.
func NewGCS(ctx context.Context, location string, opts ...option.ClientOption) (*GCS, error) {
	bucket, prefix, err := ParseGCSLocation(location)
	if err != nil {
		return nil, err
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket, prefix: prefix}, nil
}

// Put uploads r as one object, replacing any existing object of the same name.
func (g *GCS) Put(ctx context.Context, name string, r io.Reader) (PutResult, error) {
	var zero PutResult
	if g == nil || g.client == nil {
		return zero, fmt.Errorf("blob store is not configured")
	}
	if err := ValidateName(name); err != nil {
		return zero, err
	}
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := g.client.Bucket(g.bucket).Object(g.objectName(name)).NewWriter(ctx)
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.ContentType = ct
	}
	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(w, h), r)
	if err != nil {
		_ = w.Close()
		return zero, fmt.Errorf("write gcs object: %w", err)
	}
	if err := w.Close(); err != nil {
		return zero, fmt.Errorf("close gcs writer: %w", err)
	}
	return PutResult{Name: name, SizeBytes: n, SHA256: hex.EncodeToString(h.Sum(nil))}, nil
}

// Open streams the named object.
func (g *GCS) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if g == nil || g.client == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	rc, err := g.client.Bucket(g.bucket).Object(g.objectName(name)).NewReader(ctx)
	if err != nil {
		return nil, mapGCSError(name, err)
	}
	return rc, nil
}

// Close releases the storage client.
func (g *GCS) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GCS) objectName(name string) string {
	if g.prefix == "" {
		return name
	}
	return g.prefix + "/" + name
}

func mapGCSError(name string, err error) error {
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fmt.Errorf("open gcs object: %w", err)
}
