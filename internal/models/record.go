package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies one record collection.
type Kind string

const (
	KindIngestion Kind = "ingestion"
	KindOtolith   Kind = "otolith"
	KindEdna      Kind = "edna"
)

// UnknownSpecies labels otolith records submitted without a species.
const UnknownSpecies = "Unknown"

// ErrUnknownKind is returned for record kinds outside the three collections.
var ErrUnknownKind = errors.New("unknown record kind")

var allKinds = []Kind{KindIngestion, KindOtolith, KindEdna}

// Kinds returns every record kind in display order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind validates and normalizes a record kind.
func ParseKind(value string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(value)))
	switch kind {
	case KindIngestion, KindOtolith, KindEdna:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
	}
}

// Collection returns the document-store collection holding records of this kind.
func (k Kind) Collection() string {
	return string(k)
}

// Record is one immutable submission of any kind.
type Record interface {
	Kind() Kind
	CreatedAt() time.Time
}

// IngestionRecord is a free-form data ingestion log entry.
type IngestionRecord struct {
	Title       *string   `json:"title" bson:"title"`
	Description *string   `json:"description" bson:"description"`
	Filename    *string   `json:"filename" bson:"filename"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}

func (r *IngestionRecord) Kind() Kind           { return KindIngestion }
func (r *IngestionRecord) CreatedAt() time.Time { return r.Timestamp }

// OtolithRecord is one otolith measurement.
type OtolithRecord struct {
	Species   *string   `json:"species" bson:"species"`
	LengthMM  *float64  `json:"length_mm" bson:"length_mm"`
	Filename  *string   `json:"filename" bson:"filename"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

func (r *OtolithRecord) Kind() Kind           { return KindOtolith }
func (r *OtolithRecord) CreatedAt() time.Time { return r.Timestamp }

// SpeciesLabel returns the species used for frequency counts. Blank species
// strings count as UnknownSpecies, the same as a missing one.
func (r *OtolithRecord) SpeciesLabel() string {
	if r.Species == nil || strings.TrimSpace(*r.Species) == "" {
		return UnknownSpecies
	}
	return *r.Species
}

// EdnaRecord is one environmental DNA sample with the species detected in it.
type EdnaRecord struct {
	SampleID        *string   `json:"sample_id" bson:"sample_id"`
	SpeciesDetected []string  `json:"species_detected" bson:"species_detected"`
	Timestamp       time.Time `json:"timestamp" bson:"timestamp"`
}

func (r *EdnaRecord) Kind() Kind           { return KindEdna }
func (r *EdnaRecord) CreatedAt() time.Time { return r.Timestamp }

// NewRecord returns an empty record of kind, ready to be decoded into.
func NewRecord(kind Kind) (Record, error) {
	switch kind {
	case KindIngestion:
		return &IngestionRecord{}, nil
	case KindOtolith:
		return &OtolithRecord{}, nil
	case KindEdna:
		return &EdnaRecord{SpeciesDetected: []string{}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Normalize fills the zero-value invariants a decoded record must satisfy.
func Normalize(rec Record) {
	switch r := rec.(type) {
	case *EdnaRecord:
		if r.SpeciesDetected == nil {
			r.SpeciesDetected = []string{}
		}
		r.Timestamp = r.Timestamp.UTC()
	case *IngestionRecord:
		r.Timestamp = r.Timestamp.UTC()
	case *OtolithRecord:
		r.Timestamp = r.Timestamp.UTC()
	}
}

// SetTimestamp replaces the creation time of rec with t in UTC.
func SetTimestamp(rec Record, t time.Time) {
	switch r := rec.(type) {
	case *IngestionRecord:
		r.Timestamp = t.UTC()
	case *OtolithRecord:
		r.Timestamp = t.UTC()
	case *EdnaRecord:
		r.Timestamp = t.UTC()
	}
}

// StringPtr returns a pointer to value.
func StringPtr(value string) *string {
	return &value
}
