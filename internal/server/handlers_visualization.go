package server

import (
	"net/http"

	"marineportal/internal/api"
	"marineportal/internal/stats"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "index.html", pageData{Title: "Home", Active: "home"})
}

func (s *Server) handleVisualizationPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "visualization.html", pageData{Title: "Dashboard", Active: "visualization"})
}

func (s *Server) handleVisualizationData(w http.ResponseWriter, r *http.Request) {
	summary, err := s.stats.Summarize(r.Context())
	if err != nil {
		s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
		return
	}
	s.writeJSON(w, http.StatusOK, visualizationResponse(summary))
}

func visualizationResponse(summary stats.Summary) api.VisualizationData {
	points := make([]api.TimeseriesPoint, 0, len(summary.Timeseries))
	for _, p := range summary.Timeseries {
		points = append(points, api.TimeseriesPoint{Date: p.Date, Count: p.Count})
	}
	species := summary.SpeciesCounts
	if species == nil {
		species = map[string]int{}
	}
	return api.VisualizationData{
		IngestionCount: summary.IngestionCount,
		OtolithCount:   summary.OtolithCount,
		EdnaCount:      summary.EdnaCount,
		SpeciesCounts:  species,
		Timeseries:     points,
	}
}
