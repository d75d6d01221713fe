package store

import (
	"context"
	"errors"
	"fmt"

	"marineportal/internal/models"
)

// ErrKindMismatch is returned when a record is written to another kind's collection.
var ErrKindMismatch = errors.New("record kind does not match collection")

// RecordStore abstracts document storage backends for the three record collections.
type RecordStore interface {
	// InsertRecord writes one record into its kind's collection.
	InsertRecord(ctx context.Context, rec models.Record) error
	// InsertRecords bulk-writes records into the kind's collection. Used for seeding.
	InsertRecords(ctx context.Context, kind models.Kind, recs []models.Record) error
	CountRecords(ctx context.Context, kind models.Kind) (int64, error)
	// ListRecords returns every record of kind, most recent timestamp first.
	ListRecords(ctx context.Context, kind models.Kind) ([]models.Record, error)
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ RecordStore = (*Store)(nil)
	_ RecordStore = (*MemoryStore)(nil)
)

// CheckKinds verifies that every record belongs to kind.
func CheckKinds(kind models.Kind, recs []models.Record) error {
	if _, err := models.ParseKind(string(kind)); err != nil {
		return err
	}
	for i, rec := range recs {
		if rec == nil {
			return fmt.Errorf("record %d is nil", i)
		}
		if rec.Kind() != kind {
			return fmt.Errorf("%w: record %d is %s, collection is %s", ErrKindMismatch, i, rec.Kind(), kind)
		}
	}
	return nil
}
