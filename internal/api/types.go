package api

import "time"

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// TimeseriesPoint is one date bucket of ingestion records.
type TimeseriesPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// VisualizationData is the dashboard aggregate returned by /api/visualization_data.
type VisualizationData struct {
	IngestionCount int64             `json:"ingestion_count"`
	OtolithCount   int64             `json:"otolith_count"`
	EdnaCount      int64             `json:"edna_count"`
	SpeciesCounts  map[string]int    `json:"species_counts"`
	Timeseries     []TimeseriesPoint `json:"timeseries"`
}

// IngestionResponse is one ingestion log entry.
type IngestionResponse struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Filename    *string   `json:"filename"`
	Timestamp   time.Time `json:"timestamp"`
}

// OtolithResponse is one otolith measurement.
type OtolithResponse struct {
	Species   *string   `json:"species"`
	LengthMM  *float64  `json:"length_mm"`
	Filename  *string   `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
}

// EdnaResponse is one eDNA sample.
type EdnaResponse struct {
	SampleID        *string   `json:"sample_id"`
	SpeciesDetected []string  `json:"species_detected"`
	Timestamp       time.Time `json:"timestamp"`
}
