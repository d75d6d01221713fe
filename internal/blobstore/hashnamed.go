package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const hashSuffixLen = 12

// HashNamed wraps a BlobStore so stored names carry a content-hash suffix.
// Identical uploads map to one object and different content never collides.
type HashNamed struct {
	next   BlobStore
	tmpDir string
}

// NewHashNamed wraps next. Uploads are spooled under tmpDir (os.TempDir when empty)
// until the digest is known.
func NewHashNamed(next BlobStore, tmpDir string) *HashNamed {
	return &HashNamed{next: next, tmpDir: tmpDir}
}

// Put stores r as "<stem>-<hash><ext>". The returned Name is the stored name.
func (h *HashNamed) Put(ctx context.Context, name string, r io.Reader) (PutResult, error) {
	var zero PutResult
	if h == nil || h.next == nil {
		return zero, fmt.Errorf("blob store is not configured")
	}
	if err := ValidateName(name); err != nil {
		return zero, err
	}

	tmp, err := os.CreateTemp(h.tmpDir, "marine-upload-*")
	if err != nil {
		return zero, err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	digest := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, digest), r); err != nil {
		return zero, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return zero, err
	}

	sum := hex.EncodeToString(digest.Sum(nil))
	return h.next.Put(ctx, HashedName(name, sum), tmp)
}

// Open delegates to the wrapped store.
func (h *HashNamed) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if h == nil || h.next == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	return h.next.Open(ctx, name)
}

// HashedName inserts the first 12 hex chars of digest before the extension.
func HashedName(name, digest string) string {
	if len(digest) > hashSuffixLen {
		digest = digest[:hashSuffixLen]
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// dotfiles such as ".env" have no stem
		return name + "-" + digest
	}
	return stem + "-" + digest + ext
}
