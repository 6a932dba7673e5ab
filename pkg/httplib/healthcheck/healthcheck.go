package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// HealthCheck is the health check handler. Every registered Checker is run on
// each GET /health request; any failure turns the response into 503.
type HealthCheck struct {
	Checkers map[string]Checker
	Timeout  time.Duration
}

// Report is the JSON body written by the handler.
type Report struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Handler is used to control the flow of GET /health endpoint
func (hc HealthCheck) Handler(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if IsHealthCheckRequest(r) {
			hc.ServeHTTP(w, r)

			return
		}

		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// ServeHTTP serve http request for health check
func (hc HealthCheck) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := hc.Check(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if report.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(report)
}

// Check runs every checker and builds the report.
func (hc HealthCheck) Check(ctx context.Context) Report {
	report := Report{Status: "ok"}
	if len(hc.Checkers) == 0 {
		return report
	}

	timeout := hc.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	report.Dependencies = make(map[string]string, len(hc.Checkers))
	for name, check := range hc.Checkers {
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		err := check(checkCtx)
		cancel()

		if err != nil {
			report.Status = "degraded"
			report.Dependencies[name] = err.Error()
			continue
		}
		report.Dependencies[name] = "ok"
	}

	return report
}

// IsHealthCheckRequest is used to check if the request is a health check request
func IsHealthCheckRequest(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == "/health"
}
