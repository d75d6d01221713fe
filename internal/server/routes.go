package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and metrics.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Pages.
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /visualization", s.handleVisualizationPage)

	// Record collections.
	mux.HandleFunc("GET /ingestion", s.handleListIngestion)
	mux.HandleFunc("POST /ingestion", s.handleSubmitIngestion)
	mux.HandleFunc("GET /otolith", s.handleListOtolith)
	mux.HandleFunc("POST /otolith", s.handleSubmitOtolith)
	mux.HandleFunc("GET /edna", s.handleListEdna)
	mux.HandleFunc("POST /edna", s.handleSubmitEdna)

	// JSON.
	mux.HandleFunc("GET /api/visualization_data", s.handleVisualizationData)
	mux.HandleFunc("GET /api/records/{kind}", s.handleListRecordsJSON)

	// Uploaded files.
	mux.HandleFunc("GET /static/uploads/{name}", s.handleUploadedFile)

	return mux
}
