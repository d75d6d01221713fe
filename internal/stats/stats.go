// Package stats reduces the three record collections into dashboard summaries.
package stats

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"marineportal/internal/models"
	"marineportal/internal/store"
)

const dateLayout = "2006-01-02"

// TimeseriesPoint is the number of ingestion records on one UTC calendar date.
type TimeseriesPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary is the aggregate view rendered by the dashboard.
type Summary struct {
	IngestionCount int64             `json:"ingestion_count"`
	OtolithCount   int64             `json:"otolith_count"`
	EdnaCount      int64             `json:"edna_count"`
	SpeciesCounts  map[string]int    `json:"species_counts"`
	Timeseries     []TimeseriesPoint `json:"timeseries"`
}

// Engine computes summaries from a record store. Nothing is cached.
type Engine struct {
	store store.RecordStore
}

// NewEngine returns an engine reading from st.
func NewEngine(st store.RecordStore) *Engine {
	return &Engine{store: st}
}

// Summarize reads every collection and reduces it. Store errors are returned as-is.
func (e *Engine) Summarize(ctx context.Context) (Summary, error) {
	var zero Summary
	if e == nil || e.store == nil {
		return zero, fmt.Errorf("record store is not configured")
	}

	counts := make(map[models.Kind]int64, 3)
	for _, kind := range models.Kinds() {
		n, err := e.store.CountRecords(ctx, kind)
		if err != nil {
			return zero, fmt.Errorf("count %s: %w", kind, err)
		}
		counts[kind] = n
	}

	ingestion, err := e.store.ListRecords(ctx, models.KindIngestion)
	if err != nil {
		return zero, fmt.Errorf("list ingestion: %w", err)
	}
	otoliths, err := e.store.ListRecords(ctx, models.KindOtolith)
	if err != nil {
		return zero, fmt.Errorf("list otolith: %w", err)
	}
	ednas, err := e.store.ListRecords(ctx, models.KindEdna)
	if err != nil {
		return zero, fmt.Errorf("list edna: %w", err)
	}

	summary := Reduce(ingestion, otoliths, ednas)
	summary.IngestionCount = counts[models.KindIngestion]
	summary.OtolithCount = counts[models.KindOtolith]
	summary.EdnaCount = counts[models.KindEdna]
	return summary, nil
}

// Reduce builds a summary from already-loaded records. Counts are the slice lengths.
func Reduce(ingestion, otoliths, ednas []models.Record) Summary {
	return Summary{
		IngestionCount: int64(len(ingestion)),
		OtolithCount:   int64(len(otoliths)),
		EdnaCount:      int64(len(ednas)),
		SpeciesCounts:  SpeciesFrequency(otoliths, ednas),
		Timeseries:     Timeseries(ingestion),
	}
}

// SpeciesFrequency counts one per otolith record (by species, "Unknown" when unset)
// plus one per species token detected in each eDNA record.
func SpeciesFrequency(otoliths, ednas []models.Record) map[string]int {
	counts := map[string]int{}
	for _, rec := range otoliths {
		if oto, ok := rec.(*models.OtolithRecord); ok {
			counts[oto.SpeciesLabel()]++
		}
	}
	for _, rec := range ednas {
		edna, ok := rec.(*models.EdnaRecord)
		if !ok {
			continue
		}
		for _, sp := range edna.SpeciesDetected {
			if strings.TrimSpace(sp) == "" {
				continue
			}
			counts[sp]++
		}
	}
	return counts
}

// Timeseries buckets records by UTC date, ascending. Dates without records are omitted.
func Timeseries(records []models.Record) []TimeseriesPoint {
	byDate := map[string]int{}
	for _, rec := range records {
		byDate[DateKey(rec.CreatedAt())]++
	}

	points := make([]TimeseriesPoint, 0, len(byDate))
	for date, count := range byDate {
		points = append(points, TimeseriesPoint{Date: date, Count: count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points
}

// DateKey formats t as its UTC calendar date.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
