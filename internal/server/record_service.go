package server

import (
	"context"
	"fmt"
	"io"
	"time"

	"marineportal/internal/blobstore"
	"marineportal/internal/models"
	"marineportal/internal/store"
)

// Upload is one file attached to a submission.
type Upload struct {
	Filename string
	Content  io.Reader
}

// IngestionInput holds the submitted ingestion form. Nil fields were absent.
type IngestionInput struct {
	Title       *string
	Description *string
	File        *Upload
}

// OtolithInput holds the submitted otolith form. LengthMM is the raw text.
type OtolithInput struct {
	Species  *string
	LengthMM *string
	File     *Upload
}

// EdnaInput holds the submitted eDNA form. Species is a comma-separated list.
type EdnaInput struct {
	SampleID *string
	Species  *string
}

// RecordService normalizes submissions and writes them through the stores.
// The blob is always written before the document that references it.
type RecordService struct {
	store store.RecordStore
	blobs blobstore.BlobStore
	now   func() time.Time
}

// NewRecordService constructs a RecordService.
func NewRecordService(st store.RecordStore, blobs blobstore.BlobStore) *RecordService {
	return &RecordService{store: st, blobs: blobs, now: time.Now}
}

func (s *RecordService) SubmitIngestion(ctx context.Context, in IngestionInput) (*models.IngestionRecord, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	filename, err := s.storeUpload(ctx, in.File)
	if err != nil {
		return nil, err
	}
	rec := &models.IngestionRecord{
		Title:       in.Title,
		Description: in.Description,
		Filename:    filename,
		Timestamp:   s.timestamp(),
	}
	if err := s.insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SubmitOtolith rejects a non-numeric length before anything is written.
func (s *RecordService) SubmitOtolith(ctx context.Context, in OtolithInput) (*models.OtolithRecord, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var length *float64
	if in.LengthMM != nil {
		parsed, err := models.ParseLengthMM(*in.LengthMM)
		if err != nil {
			return nil, badRequestCode(fmt.Errorf("length_mm: %w", err), ErrCodeInvalidNumber)
		}
		length = parsed
	}
	filename, err := s.storeUpload(ctx, in.File)
	if err != nil {
		return nil, err
	}
	rec := &models.OtolithRecord{
		Species:   in.Species,
		LengthMM:  length,
		Filename:  filename,
		Timestamp: s.timestamp(),
	}
	if err := s.insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RecordService) SubmitEdna(ctx context.Context, in EdnaInput) (*models.EdnaRecord, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	species := []string{}
	if in.Species != nil {
		species = models.ParseSpeciesCSV(*in.Species)
	}
	rec := &models.EdnaRecord{
		SampleID:        in.SampleID,
		SpeciesDetected: species,
		Timestamp:       s.timestamp(),
	}
	if err := s.insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRecords returns every record of kind, newest first.
func (s *RecordService) ListRecords(ctx context.Context, kind string) ([]models.Record, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	parsed, err := models.ParseKind(kind)
	if err != nil {
		return nil, notFoundCode(err, ErrCodeUnknownKind)
	}
	recs, err := s.store.ListRecords(ctx, parsed)
	if err != nil {
		return nil, storeFailure(fmt.Errorf("list %s: %w", parsed, err))
	}
	return recs, nil
}

func (s *RecordService) ready() error {
	if s == nil || s.store == nil {
		return internalError(fmt.Errorf("record service is not configured"))
	}
	return nil
}

func (s *RecordService) timestamp() time.Time {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().UTC().Truncate(time.Millisecond)
}

func (s *RecordService) storeUpload(ctx context.Context, up *Upload) (*string, error) {
	if up == nil || up.Content == nil || up.Filename == "" {
		return nil, nil
	}
	name := blobstore.SecureFilename(up.Filename)
	if name == "" {
		return nil, badRequestCode(fmt.Errorf("filename %q has no usable characters", up.Filename), ErrCodeInvalidFilename)
	}
	if s.blobs == nil {
		return nil, internalError(fmt.Errorf("blob store is not configured"))
	}

	res, err := s.blobs.Put(ctx, name, up.Content)
	if err != nil {
		return nil, blobFailure(fmt.Errorf("store upload %s: %w", name, err))
	}
	blobBytesWrittenTotal.Add(float64(res.SizeBytes))
	return &res.Name, nil
}

func (s *RecordService) insert(ctx context.Context, rec models.Record) error {
	if err := s.store.InsertRecord(ctx, rec); err != nil {
		return storeFailure(fmt.Errorf("insert %s: %w", rec.Kind(), err))
	}
	recordsSubmittedTotal.WithLabelValues(string(rec.Kind())).Inc()
	return nil
}
