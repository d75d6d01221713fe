package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const tmpPrefix = ".put-"

// LocalDir stores blobs as files in one flat directory.
type LocalDir struct {
	root string
}

// NewLocalDir creates the directory if needed and returns a store rooted there.
func NewLocalDir(root string) (*LocalDir, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &LocalDir{root: abs}, nil
}

// Root returns the absolute directory path.
func (d *LocalDir) Root() string {
	return d.root
}

// Put streams r into a temp file and renames it over name. Existing files are replaced.
func (d *LocalDir) Put(ctx context.Context, name string, r io.Reader) (PutResult, error) {
	var zero PutResult
	if d == nil {
		return zero, fmt.Errorf("blob store is not configured")
	}
	if r == nil {
		return zero, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	dst, err := d.pathFromName(name)
	if err != nil {
		return zero, err
	}

	tmp, err := os.CreateTemp(d.root, tmpPrefix+"*")
	if err != nil {
		return zero, err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), r)
	if err != nil {
		cleanup()
		return zero, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return zero, err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		cleanup()
		return zero, err
	}

	return PutResult{Name: name, SizeBytes: n, SHA256: hex.EncodeToString(h.Sum(nil))}, nil
}

// Open returns a reader for the named file.
func (d *LocalDir) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if d == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := d.pathFromName(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f, nil
}

func (d *LocalDir) pathFromName(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(d.root, name), nil
}

// ValidateName rejects names that could escape a flat namespace.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("blob name is required")
	case name == "." || name == "..":
		return fmt.Errorf("invalid blob name %q", name)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0):
		return fmt.Errorf("blob name %q must not contain path separators", name)
	case strings.HasPrefix(name, tmpPrefix):
		return fmt.Errorf("blob name %q is reserved", name)
	}
	return nil
}
