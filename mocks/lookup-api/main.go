// Package main serves a deterministic stand-in for the five remote lookup endpoints,
// for local runs of the sign-up server without network access.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"signup/internal/lookup/fake"
	"signup/internal/platform/logger"
)

const (
	defaultPort      = "8081"
	defaultLatencyMs = "0"
)

func main() {
	log := logger.New(getEnv("LOG_LEVEL", "info"))
	port := getEnv("PORT", defaultPort)

	latencyMs, err := strconv.Atoi(getEnv("LATENCY_MS", defaultLatencyMs))
	if err != nil || latencyMs < 0 {
		log.Error("invalid LATENCY_MS", "value", os.Getenv("LATENCY_MS"))
		os.Exit(1)
	}

	server := fake.New(fake.DefaultData())
	server.SetLatency(time.Duration(latencyMs) * time.Millisecond)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("mock lookup API starting",
		"port", port,
		"latency_ms", latencyMs,
		"paths", []string{fake.PathStates, fake.PathCity, fake.PathCounties, fake.PathUsername, fake.PathPassword},
	)
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("mock lookup API stopped", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
