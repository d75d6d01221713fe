package stats

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"marineportal/internal/models"
	"marineportal/internal/store"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSpeciesFrequency(t *testing.T) {
	otoliths := []models.Record{
		&models.OtolithRecord{Species: models.StringPtr("Cod")},
		&models.OtolithRecord{},
	}
	ednas := []models.Record{
		&models.EdnaRecord{SpeciesDetected: []string{"Cod", "Tuna"}},
	}

	got := SpeciesFrequency(otoliths, ednas)
	want := map[string]int{"Cod": 2, "Unknown": 1, "Tuna": 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSpeciesFrequencyEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		otoliths []models.Record
		ednas    []models.Record
		want     map[string]int
	}{
		{name: "empty", want: map[string]int{}},
		{
			name:     "blank species is unknown",
			otoliths: []models.Record{&models.OtolithRecord{Species: models.StringPtr("  ")}},
			want:     map[string]int{"Unknown": 1},
		},
		{
			name:  "duplicates within one sample count twice",
			ednas: []models.Record{&models.EdnaRecord{SpeciesDetected: []string{"Cod", "Cod"}}},
			want:  map[string]int{"Cod": 2},
		},
		{
			name:  "empty tokens ignored",
			ednas: []models.Record{&models.EdnaRecord{SpeciesDetected: []string{"", "Shark"}}},
			want:  map[string]int{"Shark": 1},
		},
		{
			name:     "case sensitive",
			otoliths: []models.Record{&models.OtolithRecord{Species: models.StringPtr("cod")}},
			ednas:    []models.Record{&models.EdnaRecord{SpeciesDetected: []string{"Cod"}}},
			want:     map[string]int{"cod": 1, "Cod": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpeciesFrequency(tt.otoliths, tt.ednas); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTimeseriesOmitsGaps(t *testing.T) {
	records := []models.Record{
		&models.IngestionRecord{Timestamp: day("2024-01-03 09:00")},
		&models.IngestionRecord{Timestamp: day("2024-01-01 23:59")},
		&models.IngestionRecord{Timestamp: day("2024-01-01 00:00")},
	}

	got := Timeseries(records)
	want := []TimeseriesPoint{{Date: "2024-01-01", Count: 2}, {Date: "2024-01-03", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTimeseriesUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	records := []models.Record{
		&models.IngestionRecord{Timestamp: time.Date(2024, 1, 2, 5, 0, 0, 0, loc)},
	}
	got := Timeseries(records)
	if len(got) != 1 || got[0].Date != "2024-01-01" {
		t.Fatalf("expected UTC date 2024-01-01, got %v", got)
	}
}

func TestSummaryJSONNeverNull(t *testing.T) {
	data, err := json.Marshal(Reduce(nil, nil, nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"ingestion_count":0,"otolith_count":0,"edna_count":0,"species_counts":{},"timeseries":[]}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestEngineSummarize(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	length := 40.0

	seed := []models.Record{
		&models.IngestionRecord{Title: models.StringPtr("a"), Timestamp: day("2024-01-01 08:00")},
		&models.IngestionRecord{Title: models.StringPtr("b"), Timestamp: day("2024-01-01 10:00")},
		&models.IngestionRecord{Title: models.StringPtr("c"), Timestamp: day("2024-01-03 12:00")},
		&models.OtolithRecord{Species: models.StringPtr("Cod"), LengthMM: &length, Timestamp: day("2024-01-02 00:00")},
		&models.OtolithRecord{Timestamp: day("2024-01-02 00:00")},
		&models.EdnaRecord{SampleID: models.StringPtr("S1"), SpeciesDetected: []string{"Cod", "Tuna"}, Timestamp: day("2024-01-02 00:00")},
	}
	for _, rec := range seed {
		if err := st.InsertRecord(ctx, rec); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	engine := NewEngine(st)
	first, err := engine.Summarize(ctx)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	want := Summary{
		IngestionCount: 3,
		OtolithCount:   2,
		EdnaCount:      1,
		SpeciesCounts:  map[string]int{"Cod": 2, "Unknown": 1, "Tuna": 1},
		Timeseries:     []TimeseriesPoint{{Date: "2024-01-01", Count: 2}, {Date: "2024-01-03", Count: 1}},
	}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("expected %+v, got %+v", want, first)
	}

	second, err := engine.Summarize(ctx)
	if err != nil {
		t.Fatalf("summarize again: %v", err)
	}
	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Fatalf("expected identical output, got %s and %s", firstJSON, secondJSON)
	}
}

type failingStore struct {
	store.RecordStore
	err error
}

func (f failingStore) CountRecords(context.Context, models.Kind) (int64, error) {
	return 0, f.err
}

func TestEngineSummarizePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("store unavailable")
	_, err := NewEngine(failingStore{err: boom}).Summarize(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
