package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"marineportal/internal/blobstore"
	"marineportal/internal/config"
	"marineportal/internal/store"
	"marineportal/internal/store/mongostore"
)

type storeBackend string

const (
	backendMongo  storeBackend = "mongodb"
	backendSQLite storeBackend = "sqlite"
	backendMemory storeBackend = "memory"
)

// parseStoreURI picks a backend from the scheme of uri. For sqlite the
// returned target is the database path.
func parseStoreURI(uri string) (storeBackend, string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", "", fmt.Errorf("store uri is required")
	}
	if mongostore.IsMongoURI(uri) {
		return backendMongo, uri, nil
	}

	scheme, rest, ok := strings.Cut(uri, ":")
	if !ok {
		return "", "", fmt.Errorf("store uri %q has no scheme (want mongodb://, sqlite:, file: or memory:)", uri)
	}
	switch strings.ToLower(scheme) {
	case "memory":
		return backendMemory, "", nil
	case "sqlite", "file":
		path := rest
		if strings.HasPrefix(rest, "//") {
			u, err := url.Parse(uri)
			if err != nil {
				return "", "", fmt.Errorf("parse store uri: %w", err)
			}
			path = u.Path
		}
		if strings.TrimSpace(path) == "" {
			return "", "", fmt.Errorf("store uri %q has no database path", uri)
		}
		return backendSQLite, path, nil
	default:
		return "", "", fmt.Errorf("unsupported store scheme %q", scheme)
	}
}

func openRecordStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.RecordStore, error) {
	backend, target, err := parseStoreURI(cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	switch backend {
	case backendMongo:
		logger.Info("connecting to mongodb", "database", cfg.MongoDB)
		st, err := mongostore.Connect(ctx, target, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return st, nil
	case backendSQLite:
		logger.Info("opening database", "path", target)
		st, err := store.Open(target)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		logger.Warn("using in-memory store; records are lost on exit")
		return store.NewMemoryStore(), nil
	}
}

// openBlobStore returns the upload store and a closer for any client it owns.
func openBlobStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (blobstore.BlobStore, func() error, error) {
	var (
		bs     blobstore.BlobStore
		closer = func() error { return nil }
	)

	if blobstore.IsGCSLocation(cfg.UploadDir) {
		gcs, err := blobstore.NewGCS(ctx, cfg.UploadDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("storing uploads in cloud storage", "location", cfg.UploadDir)
		bs, closer = gcs, gcs.Close
	} else {
		dir, err := blobstore.NewLocalDir(cfg.UploadDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("storing uploads on disk", "dir", dir.Root())
		bs = dir
	}

	if cfg.Uploads.UniqueNames {
		bs = blobstore.NewHashNamed(bs, "")
	}
	return bs, closer, nil
}

func closeQuietly(logger *slog.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn("close failed", "what", what, "error", err)
	}
}
