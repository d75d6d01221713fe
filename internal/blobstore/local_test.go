package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func readAll(t *testing.T, store BlobStore, name string) string {
	t.Helper()
	rc, err := store.Open(context.Background(), name)
	if err != nil {
		t.Fatalf("open %s: %v", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func TestLocalDirPutOpen(t *testing.T) {
	dir, err := NewLocalDir(filepath.Join(t.TempDir(), "static", "uploads"))
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}

	res, err := dir.Put(context.Background(), "otolith.png", bytes.NewBufferString("hello"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if res.Name != "otolith.png" || res.SizeBytes != 5 {
		t.Fatalf("unexpected put result: %#v", res)
	}
	if res.SHA256 != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Fatalf("unexpected digest %s", res.SHA256)
	}
	if got := readAll(t, dir, "otolith.png"); got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}

	entries, err := os.ReadDir(dir.Root())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestLocalDirPutOverwrites(t *testing.T) {
	dir, err := NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}
	ctx := context.Background()
	if _, err := dir.Put(ctx, "log.csv", bytes.NewBufferString("first")); err != nil {
		t.Fatalf("put first: %v", err)
	}
	if _, err := dir.Put(ctx, "log.csv", bytes.NewBufferString("second")); err != nil {
		t.Fatalf("put second: %v", err)
	}
	if got := readAll(t, dir, "log.csv"); got != "second" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestLocalDirOpenMissing(t *testing.T) {
	dir, err := NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}
	if _, err := dir.Open(context.Background(), "missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalDirRejectsUnsafeNames(t *testing.T) {
	dir, err := NewLocalDir(t.TempDir())
	if err != nil {
		t.Fatalf("new local dir: %v", err)
	}
	for _, name := range []string{"", "..", "../etc/passwd", `a\b`, ".put-123", "sub/file.txt"} {
		t.Run(name, func(t *testing.T) {
			if _, err := dir.Put(context.Background(), name, bytes.NewBufferString("x")); err == nil {
				t.Fatalf("expected put %q to fail", name)
			}
			if _, err := dir.Open(context.Background(), name); err == nil {
				t.Fatalf("expected open %q to fail", name)
			}
		})
	}
}

func TestNewLocalDirRequiresRoot(t *testing.T) {
	if _, err := NewLocalDir("  "); err == nil {
		t.Fatal("expected error for blank root")
	}
}
