package metrics

import (
	"net/http"
	"time"
)

// statusRecorder captures the status code a handler writes so the
// request counter can be labelled with it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware instruments every request with the registry's
// in-flight gauge, request counter and latency histogram.
func HTTPMiddleware(reg *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reg.InFlightInc()
			defer reg.InFlightDec()

			start := time.Now()

			// Handlers that never call WriteHeader implicitly send 200.
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			reg.RecordRequest(r.Method, r.URL.Path, rec.status, time.Since(start).Seconds())
		})
	}
}
