// Package seed loads bundled sample records into empty collections.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"marineportal/internal/models"
	"marineportal/internal/store"
)

// Report summarizes one EnsureSeeded run.
type Report struct {
	Path     string         `json:"path"`
	Found    bool           `json:"found"`
	Inserted map[string]int `json:"inserted"`
	Skipped  []string       `json:"skipped"`
	Unknown  []string       `json:"unknown"`
}

// Total returns the number of inserted records.
func (r Report) Total() int {
	total := 0
	for _, n := range r.Inserted {
		total += n
	}
	return total
}

// EnsureSeeded inserts the documents in path into every known collection that is
// currently empty. Non-empty collections are never touched, so repeated calls are safe.
// A missing file is not an error.
func EnsureSeeded(ctx context.Context, st store.RecordStore, path string, logger *slog.Logger) (Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	report := Report{Path: path, Inserted: map[string]int{}, Skipped: []string{}, Unknown: []string{}}
	if st == nil {
		return report, fmt.Errorf("record store is required")
	}
	if strings.TrimSpace(path) == "" {
		return report, nil
	}

	collections, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("seed file not found", "path", path)
		return report, nil
	}
	if err != nil {
		return report, err
	}
	report.Found = true

	for name := range collections {
		if _, err := models.ParseKind(name); err != nil {
			report.Unknown = append(report.Unknown, name)
		}
	}
	sort.Strings(report.Unknown)
	for _, name := range report.Unknown {
		logger.Warn("skipping unknown seed collection", "collection", name)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	for _, kind := range models.Kinds() {
		docs, ok := collections[kind.Collection()]
		if !ok {
			continue
		}
		count, err := st.CountRecords(ctx, kind)
		if err != nil {
			return report, fmt.Errorf("count %s: %w", kind, err)
		}
		if count > 0 {
			report.Skipped = append(report.Skipped, kind.Collection())
			logger.Debug("collection already populated", "collection", kind.Collection(), "count", count)
			continue
		}

		recs := make([]models.Record, 0, len(docs))
		for i, doc := range docs {
			rec, err := DecodeRecord(kind, doc, now)
			if err != nil {
				return report, fmt.Errorf("%s document %d: %w", kind, i, err)
			}
			recs = append(recs, rec)
		}
		if err := st.InsertRecords(ctx, kind, recs); err != nil {
			return report, fmt.Errorf("seed %s: %w", kind, err)
		}
		report.Inserted[kind.Collection()] = len(recs)
		logger.Info("seeded collection", "collection", kind.Collection(), "count", len(recs))
	}
	return report, nil
}

// Load reads a seed file mapping collection name to a list of documents.
// Files ending in .yaml or .yml are parsed as YAML, everything else as JSON.
func Load(path string) (map[string][]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var collections map[string][]map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &collections)
	default:
		err = json.Unmarshal(data, &collections)
	}
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if collections == nil {
		collections = map[string][]map[string]any{}
	}
	return collections, nil
}
