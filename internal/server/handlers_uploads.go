package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"

	"marineportal/internal/blobstore"
)

func (s *Server) handleUploadedFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if s.blobs == nil {
		s.renderError(w, r, internalError(fmt.Errorf("blob store is not configured")))
		return
	}
	if err := blobstore.ValidateName(name); err != nil {
		s.renderError(w, r, notFoundCode(err, ErrCodeUploadNotFound))
		return
	}

	rc, err := s.blobs.Open(r.Context(), name)
	if errors.Is(err, blobstore.ErrNotFound) {
		s.renderError(w, r, notFoundCode(fmt.Errorf("upload %q not found", name), ErrCodeUploadNotFound))
		return
	}
	if err != nil {
		s.renderError(w, r, blobFailure(err))
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.log().Warn("stream upload", "name", name, "error", err)
	}
}
