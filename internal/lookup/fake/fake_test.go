package fake

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestFakeCity(t *testing.T) {
	s := New(DefaultData())

	rec := get(t, s, PathCity+"?zip=93955")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Seaside", body["city"])
	assert.InDelta(t, 36.6122, body["latitude"], 0.0001)

	rec = get(t, s, PathCity+"?zip=00000")
	assert.Equal(t, "false", trimmed(rec))
}

func TestFakeCountiesAndUsername(t *testing.T) {
	s := New(DefaultData())

	rec := get(t, s, PathCounties+"?state=or")
	assert.JSONEq(t, `[{"county":"Multnomah"}]`, rec.Body.String())

	rec = get(t, s, PathCounties+"?state=ZZ")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = get(t, s, PathUsername+"?username=Admin")
	assert.JSONEq(t, `{"available":false}`, rec.Body.String())
}

func TestFakePasswordLength(t *testing.T) {
	s := New(DefaultData())

	var body struct {
		Password string `json:"password"`
	}
	rec := get(t, s, PathPassword+"?length=16")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Password, 16)
}

func TestFakeFaultInjection(t *testing.T) {
	s := New(DefaultData())

	s.FailWith(PathStates, http.StatusBadGateway)
	assert.Equal(t, http.StatusBadGateway, get(t, s, PathStates).Code)

	s.FailWith(PathStates, 0)
	assert.Equal(t, http.StatusOK, get(t, s, PathStates).Code)
	assert.EqualValues(t, 2, s.Calls(PathStates))
	assert.Zero(t, s.Calls(PathCity))
}

func trimmed(rec *httptest.ResponseRecorder) string {
	b := rec.Body.Bytes()
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == ' ') {
		b = b[:len(b)-1]
	}
	return string(b)
}
