package request

import (
	"net/http"
)

// BodyLimit caps request bodies at maxBytes using http.MaxBytesReader.
// Reads beyond the limit fail with *http.MaxBytesError. Apply before any body parsing.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
