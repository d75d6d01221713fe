package server

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"marineportal/internal/models"
)

const uploadFieldName = "file"

func (s *Server) handleListIngestion(w http.ResponseWriter, r *http.Request) {
	s.renderRecordList(w, r, models.KindIngestion, "Data Ingestion", "ingestion.html")
}

func (s *Server) handleListOtolith(w http.ResponseWriter, r *http.Request) {
	s.renderRecordList(w, r, models.KindOtolith, "Otolith Measurements", "otolith.html")
}

func (s *Server) handleListEdna(w http.ResponseWriter, r *http.Request) {
	s.renderRecordList(w, r, models.KindEdna, "eDNA Samples", "edna.html")
}

func (s *Server) renderRecordList(w http.ResponseWriter, r *http.Request, kind models.Kind, title, page string) {
	items, err := s.records.ListRecords(r.Context(), string(kind))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, page, pageData{Title: title, Active: string(kind), Items: items})
}

func (s *Server) handleSubmitIngestion(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, err := s.parseSubmission(w, r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	defer cleanup()

	_, err = s.records.SubmitIngestion(r.Context(), IngestionInput{
		Title:       formField(r, "title"),
		Description: formField(r, "description"),
		File:        upload,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/ingestion", http.StatusSeeOther)
}

func (s *Server) handleSubmitOtolith(w http.ResponseWriter, r *http.Request) {
	upload, cleanup, err := s.parseSubmission(w, r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	defer cleanup()

	_, err = s.records.SubmitOtolith(r.Context(), OtolithInput{
		Species:  formField(r, "species"),
		LengthMM: formField(r, "length_mm"),
		File:     upload,
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/otolith", http.StatusSeeOther)
}

func (s *Server) handleSubmitEdna(w http.ResponseWriter, r *http.Request) {
	_, cleanup, err := s.parseSubmission(w, r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	defer cleanup()

	_, err = s.records.SubmitEdna(r.Context(), EdnaInput{
		SampleID: formField(r, "sample_id"),
		Species:  formField(r, "species"),
	})
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/edna", http.StatusSeeOther)
}

func (s *Server) handleListRecordsJSON(w http.ResponseWriter, r *http.Request) {
	items, err := s.records.ListRecords(r.Context(), r.PathValue("kind"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}

// parseSubmission parses a urlencoded or multipart body and returns the
// attached file, if any. The returned cleanup must always be called.
func (s *Server) parseSubmission(w http.ResponseWriter, r *http.Request) (*Upload, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			return nil, noop, classifyFormError(err)
		}
		return nil, noop, nil
	}

	if err := r.ParseMultipartForm(s.multipartMaxMemory); err != nil {
		return nil, noop, classifyFormError(err)
	}
	cleanup := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	file, header, err := r.FormFile(uploadFieldName)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, cleanup, nil
	}
	if err != nil {
		cleanup()
		return nil, noop, badRequestCode(fmt.Errorf("read upload: %w", err), ErrCodeInvalidForm)
	}
	return uploadFromPart(file, header), func() {
		_ = file.Close()
		cleanup()
	}, nil
}

func uploadFromPart(file multipart.File, header *multipart.FileHeader) *Upload {
	if header == nil || strings.TrimSpace(header.Filename) == "" {
		return nil
	}
	return &Upload{Filename: header.Filename, Content: file}
}

// formField distinguishes an absent field (nil) from one submitted empty.
func formField(r *http.Request, key string) *string {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}
