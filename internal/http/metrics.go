package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// MetricsRecorder records request-level metrics
type MetricsRecorder interface {
	RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64)
	RecordResourceOperation(ctx context.Context, resource, operation string)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware records a counter and duration per request, plus a
// per-resource operation counter for the FHIR routes.
func MetricsMiddleware(metrics MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if metrics == nil {
				next.ServeHTTP(w, r)
				return
			}

			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			durationMs := float64(time.Since(started).Microseconds()) / 1000.0
			metrics.RecordHTTPRequest(r.Context(), r.Method, route, rec.status, durationMs)

			if resource := fhirResource(route); resource != "" && rec.status < 400 {
				metrics.RecordResourceOperation(r.Context(), resource, operationFor(r.Method, route))
			}
		})
	}
}

// fhirResource extracts the resource name from a /fhir/{Resource} route
func fhirResource(route string) string {
	if !strings.HasPrefix(route, "/fhir/") {
		return ""
	}
	rest := strings.TrimPrefix(route, "/fhir/")
	if i := strings.IndexByte(rest, '/'); i > 0 {
		return rest[:i]
	}
	return rest
}

func operationFor(method, route string) string {
	// Workflow actions are POSTs on a subresource path
	if method == http.MethodPost && strings.Count(route, "/") > 2 {
		return "action"
	}
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodGet:
		if strings.Contains(route, "{id}") {
			return "read"
		}
		return "search"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return strings.ToLower(method)
	}
}
