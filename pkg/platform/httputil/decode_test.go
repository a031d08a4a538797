package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "signup/pkg/domain-errors"
)

type fieldChange struct {
	Value string `json:"value"`
}

type lengthRequest struct {
	Length int `json:"length"`
}

func (r *lengthRequest) Validate() error {
	if r.Length < 6 {
		return errors.New("length must be at least 6")
	}
	return nil
}

type trimmedRequest struct {
	Username   string `json:"username"`
	sanitized  bool
	normalized bool
}

func (r *trimmedRequest) Sanitize() {
	r.sanitized = true
	r.Username = strings.TrimSpace(r.Username)
}

func (r *trimmedRequest) Normalize() {
	r.normalized = true
	r.Username = strings.ToLower(r.Username)
}

func (r *trimmedRequest) Validate() error {
	if r.Username == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "username is required")
	}
	return nil
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestDecodeJSON(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("decodes a field change", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"value":"93955"}`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[fieldChange](w, req, logger, ctx, "req-1")

		assert.True(t, ok)
		require.NotNil(t, result)
		assert.Equal(t, "93955", result.Value)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{value}`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[fieldChange](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w)["error"])
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"value":"x","extra":1}`))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[fieldChange](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized body reports size", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"value":"`+strings.Repeat("a", 64)+`"}`))
		w := httptest.NewRecorder()
		req.Body = http.MaxBytesReader(w, req.Body, 16)

		_, ok := DecodeJSON[fieldChange](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "request body too large", decodeError(t, w)["error_description"])
	})
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("runs sanitize then normalize then validate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"  Alice "}`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[trimmedRequest](w, req, logger, ctx, "req-1")

		require.True(t, ok)
		assert.True(t, result.sanitized)
		assert.True(t, result.normalized)
		assert.Equal(t, "alice", result.Username)
	})

	t.Run("domain error from Validate keeps its code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"   "}`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[trimmedRequest](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "bad_request", body["error"])
		assert.Equal(t, "username is required", body["error_description"])
	})

	t.Run("plain error from Validate becomes validation_error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"length":3}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[lengthRequest](w, req, logger, ctx, "req-1")

		assert.False(t, ok)
		body := decodeError(t, w)
		assert.Equal(t, "validation_error", body["error"])
		assert.Contains(t, body["error_description"], "at least 6")
	})

	t.Run("types without hooks pass through", func(t *testing.T) {
		assert.NoError(t, PrepareRequest(&fieldChange{}))
	})
}

func TestWriteError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", dErrors.New(dErrors.CodeNotFound, "session not found"), http.StatusNotFound, "not_found"},
		{"invalid input", dErrors.New(dErrors.CodeInvalidInput, "unknown field"), http.StatusBadRequest, "bad_request"},
		{"unauthorized", dErrors.New(dErrors.CodeUnauthorized, "ticket expired"), http.StatusUnauthorized, "unauthorized"},
		{"timeout", dErrors.New(dErrors.CodeTimeout, "lookup timed out"), http.StatusGatewayTimeout, "lookup_timeout"},
		{"unavailable", dErrors.New(dErrors.CodeUnavailable, "lookup service down"), http.StatusServiceUnavailable, "service_unavailable"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tc.code, decodeError(t, w)["error"])
		})
	}
}
