package main

import (
	"encoding/json"
	"net/http"

	"github.com/muhammadchandra19/historical-data/internal/usecase/pipeline"
	"github.com/muhammadchandra19/historical-data/pkg/httplib/healthcheck"
)

// newHandler serves GET /health, GET /stats and GET /patterns. These are
// diagnostics; the data API itself is served elsewhere.
func newHandler(p *pipeline.Pipeline, hc healthcheck.HealthCheck) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, p.Stats())
	})
	mux.HandleFunc("GET /patterns", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, p.AnalyzePatterns())
	})
	return hc.Handler(mux)
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
