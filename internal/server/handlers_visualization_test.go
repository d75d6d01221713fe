package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"marineportal/internal/api"
	"marineportal/internal/models"
	"marineportal/internal/store"
)

func TestVisualizationData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2024, 1, d, 9, 0, 0, 0, time.UTC) }

	for _, rec := range []models.Record{
		&models.IngestionRecord{Title: models.StringPtr("a"), Timestamp: day(1)},
		&models.IngestionRecord{Title: models.StringPtr("b"), Timestamp: day(1)},
		&models.IngestionRecord{Title: models.StringPtr("c"), Timestamp: day(3)},
		&models.OtolithRecord{Species: models.StringPtr("Cod"), Timestamp: day(2)},
		&models.OtolithRecord{Timestamp: day(2)},
		&models.EdnaRecord{SpeciesDetected: []string{"Cod", "Tuna"}, Timestamp: day(2)},
	} {
		if err := env.store.InsertRecord(ctx, rec); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	w := env.do(t, httptest.NewRequest(http.MethodGet, "/api/visualization_data", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got api.VisualizationData
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := api.VisualizationData{
		IngestionCount: 3,
		OtolithCount:   2,
		EdnaCount:      1,
		SpeciesCounts:  map[string]int{"Cod": 2, "Unknown": 1, "Tuna": 1},
		Timeseries:     []api.TimeseriesPoint{{Date: "2024-01-01", Count: 2}, {Date: "2024-01-03", Count: 1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	again := env.do(t, httptest.NewRequest(http.MethodGet, "/api/visualization_data", nil))
	if again.Body.String() != w.Body.String() {
		t.Fatalf("expected idempotent output:\n%s\n%s", w.Body.String(), again.Body.String())
	}
}

func TestVisualizationDataEmpty(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, httptest.NewRequest(http.MethodGet, "/api/visualization_data", nil))
	want := `{"ingestion_count":0,"otolith_count":0,"edna_count":0,"species_counts":{},"timeseries":[]}` + "\n"
	if w.Body.String() != want {
		t.Fatalf("expected %s, got %s", want, w.Body.String())
	}
}

type failingStore struct {
	*store.MemoryStore
	err error
}

func (f failingStore) CountRecords(context.Context, models.Kind) (int64, error) {
	return 0, f.err
}

func (f failingStore) InsertRecord(context.Context, models.Record) error {
	return f.err
}

func TestVisualizationDataStoreFailure(t *testing.T) {
	st := failingStore{MemoryStore: store.NewMemoryStore(), err: errors.New("connection refused")}
	srv := New("127.0.0.1:0", st, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/visualization_data", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	errResp := decodeErrorResponse(t, w)
	if errResp.Error != "internal error" || errResp.ErrorCode != ErrCodeStoreFailure {
		t.Fatalf("expected masked store failure, got %+v", errResp)
	}
}
