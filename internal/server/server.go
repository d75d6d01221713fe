package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marineportal/internal/blobstore"
	"marineportal/internal/stats"
	"marineportal/internal/store"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second

	defaultUploadMaxBody      = 32 << 20 // 32 MiB
	defaultMultipartMaxMemory = 8 << 20  // 8 MiB
)

// UploadOptions bounds form submissions.
type UploadOptions struct {
	MaxUploadBytes     int64
	MultipartMaxMemory int64
}

// Server wraps the HTML pages and JSON endpoints of the portal.
type Server struct {
	addr    string
	store   store.RecordStore
	blobs   blobstore.BlobStore
	records *RecordService
	stats   *stats.Engine
	pages   *pageRenderer
	logger  *slog.Logger

	maxUploadBytes     int64
	multipartMaxMemory int64
}

// New creates a new server instance.
func New(addr string, st store.RecordStore, blobs blobstore.BlobStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:               addr,
		store:              st,
		blobs:              blobs,
		records:            NewRecordService(st, blobs),
		stats:              stats.NewEngine(st),
		pages:              mustPageRenderer(),
		logger:             logger,
		maxUploadBytes:     defaultUploadMaxBody,
		multipartMaxMemory: defaultMultipartMaxMemory,
	}
}

// ConfigureUploadOptions overrides upload limits. Non-positive values keep the defaults.
func (s *Server) ConfigureUploadOptions(opts UploadOptions) {
	if s == nil {
		return
	}
	if opts.MaxUploadBytes > 0 {
		s.maxUploadBytes = opts.MaxUploadBytes
	}
	if opts.MultipartMaxMemory > 0 {
		s.multipartMaxMemory = opts.MultipartMaxMemory
	}
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.withRequestLogging(s.routes())
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log().Info("starting server", "addr", s.addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAddr joins host and port into a listen address.
func ListenAddr(host string, port int) (string, error) {
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("invalid port %d", port)
	}
	return net.JoinHostPort(strings.TrimSpace(host), strconv.Itoa(port)), nil
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
