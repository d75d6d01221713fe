package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"marineportal/internal/blobstore"
	"marineportal/internal/config"
	"marineportal/internal/store"
)

func TestParseStoreURI(t *testing.T) {
	tests := []struct {
		uri         string
		wantBackend storeBackend
		wantTarget  string
		wantErr     bool
	}{
		{uri: "mongodb://localhost:27017/", wantBackend: backendMongo, wantTarget: "mongodb://localhost:27017/"},
		{uri: "mongodb+srv://cluster0.example.net/", wantBackend: backendMongo, wantTarget: "mongodb+srv://cluster0.example.net/"},
		{uri: "memory:", wantBackend: backendMemory},
		{uri: "sqlite:marine.db", wantBackend: backendSQLite, wantTarget: "marine.db"},
		{uri: "sqlite:/var/lib/marine.db", wantBackend: backendSQLite, wantTarget: "/var/lib/marine.db"},
		{uri: "file:///var/lib/marine.db", wantBackend: backendSQLite, wantTarget: "/var/lib/marine.db"},
		{uri: "sqlite:", wantErr: true},
		{uri: "postgres://localhost/db", wantErr: true},
		{uri: "marine.db", wantErr: true},
		{uri: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			backend, target, err := parseStoreURI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s %q", backend, target)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if backend != tt.wantBackend || target != tt.wantTarget {
				t.Fatalf("expected %s %q, got %s %q", tt.wantBackend, tt.wantTarget, backend, target)
			}
		})
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenRecordStoreLocalBackends(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.MongoURI = "memory:"
	st, err := openRecordStore(ctx, &cfg, discardLogger())
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", st)
	}
	st.Close()

	cfg.MongoURI = "sqlite:" + filepath.Join(t.TempDir(), "db", "marine.db")
	st, err = openRecordStore(ctx, &cfg, discardLogger())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer st.Close()
	if _, ok := st.(*store.Store); !ok {
		t.Fatalf("expected sqlite store, got %T", st)
	}
	if err := st.Ping(ctx); err != nil {
		t.Fatalf("ping sqlite: %v", err)
	}
}

func TestOpenBlobStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.UploadDir = filepath.Join(t.TempDir(), "uploads")

	bs, closer, err := openBlobStore(ctx, &cfg, discardLogger())
	if err != nil {
		t.Fatalf("open blob store: %v", err)
	}
	defer closer()
	if _, ok := bs.(*blobstore.LocalDir); !ok {
		t.Fatalf("expected local dir, got %T", bs)
	}

	cfg.Uploads.UniqueNames = true
	bs, closer, err = openBlobStore(ctx, &cfg, discardLogger())
	if err != nil {
		t.Fatalf("open hashed blob store: %v", err)
	}
	defer closer()
	res, err := bs.Put(ctx, "log.csv", strings.NewReader("a,b\n"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if res.Name == "log.csv" || !strings.HasPrefix(res.Name, "log-") {
		t.Fatalf("expected hash-suffixed name, got %q", res.Name)
	}
}
