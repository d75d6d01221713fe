package seed

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"marineportal/internal/models"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// DecodeRecord converts one loosely typed seed document into a record of kind.
// Documents without a timestamp are stamped with now.
func DecodeRecord(kind models.Kind, doc map[string]any, now time.Time) (models.Record, error) {
	ts, err := timestampField(doc, now)
	if err != nil {
		return nil, err
	}

	switch kind {
	case models.KindIngestion:
		rec := &models.IngestionRecord{Timestamp: ts}
		if rec.Title, err = stringField(doc, "title"); err != nil {
			return nil, err
		}
		if rec.Description, err = stringField(doc, "description"); err != nil {
			return nil, err
		}
		if rec.Filename, err = stringField(doc, "filename"); err != nil {
			return nil, err
		}
		return rec, nil
	case models.KindOtolith:
		rec := &models.OtolithRecord{Timestamp: ts}
		if rec.Species, err = stringField(doc, "species"); err != nil {
			return nil, err
		}
		if rec.LengthMM, err = lengthField(doc, "length_mm"); err != nil {
			return nil, err
		}
		if rec.Filename, err = stringField(doc, "filename"); err != nil {
			return nil, err
		}
		return rec, nil
	case models.KindEdna:
		rec := &models.EdnaRecord{Timestamp: ts}
		if rec.SampleID, err = stringField(doc, "sample_id"); err != nil {
			return nil, err
		}
		if rec.SpeciesDetected, err = speciesField(doc, "species_detected"); err != nil {
			return nil, err
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownKind, kind)
	}
}

func stringField(doc map[string]any, key string) (*string, error) {
	switch v := doc[key].(type) {
	case nil:
		return nil, nil
	case string:
		return models.StringPtr(v), nil
	case int, int64, float64, bool, json.Number:
		return models.StringPtr(fmt.Sprint(v)), nil
	default:
		return nil, fmt.Errorf("field %s: unsupported type %T", key, v)
	}
}

func lengthField(doc map[string]any, key string) (*float64, error) {
	var value float64
	switch v := doc[key].(type) {
	case nil:
		return nil, nil
	case float64:
		value = v
	case int:
		value = float64(v)
	case int64:
		value = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, models.ErrInvalidLength)
		}
		value = f
	case string:
		parsed, err := models.ParseLengthMM(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("field %s: unsupported type %T", key, v)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("field %s: %w", key, models.ErrInvalidLength)
	}
	return &value, nil
}

func speciesField(doc map[string]any, key string) ([]string, error) {
	switch v := doc[key].(type) {
	case nil:
		return []string{}, nil
	case string:
		return models.ParseSpeciesCSV(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("field %s[%d]: expected string, got %T", key, i, item)
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("field %s: unsupported type %T", key, v)
	}
}

func timestampField(doc map[string]any, now time.Time) (time.Time, error) {
	switch v := doc["timestamp"].(type) {
	case nil:
		return now, nil
	case time.Time:
		return v.UTC(), nil
	case string:
		return ParseTimestamp(v)
	default:
		return time.Time{}, fmt.Errorf("field timestamp: unsupported type %T", v)
	}
}

// ParseTimestamp accepts RFC 3339 and the naive ISO forms without a zone.
// Values without a zone are read as UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("field timestamp: unrecognized format %q", raw)
}
