package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with the service's listener timeouts.
// Write timeout leaves room for a settled field change (?wait=true) on top of requestTimeout.
func New(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
