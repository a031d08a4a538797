// Package fake serves deterministic versions of the remote lookup endpoints.
// It backs the mock lookup API binary and HTTP-level tests.
package fake

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

// City is a fixture row for the city endpoint. Numeric coordinates are encoded as JSON numbers.
type City struct {
	City      string
	State     string
	Latitude  string
	Longitude string
	Numeric   bool
}

// Data is the fixture set served by the fake.
type Data struct {
	States         [][2]string // name, usps code
	Cities         map[string]City
	Counties       map[string][]string // keyed by upper-case state code
	TakenUsernames map[string]bool     // lower-case
}

// DefaultData returns a small, stable fixture set.
func DefaultData() Data {
	return Data{
		States: [][2]string{
			{"California", "CA"},
			{"New York", "NY"},
			{"Oregon", "OR"},
			{"Texas", "TX"},
		},
		Cities: map[string]City{
			"93955": {City: "Seaside", State: "CA", Latitude: "36.6122", Longitude: "-121.8504", Numeric: true},
			"95060": {City: "Santa Cruz", State: "CA", Latitude: "36.9741", Longitude: "-122.0308"},
			"10001": {City: "New York", State: "NY", Latitude: "40.7506", Longitude: "-73.9972"},
			"73301": {City: "Austin", State: "TX", Latitude: "30.2672", Longitude: "-97.7431", Numeric: true},
		},
		Counties: map[string][]string{
			"CA": {"Alameda", "Monterey", "Santa Cruz"},
			"NY": {"Kings", "New York", "Queens"},
			"OR": {"Multnomah"},
			"TX": {"Harris", "Travis"},
		},
		TakenUsernames: map[string]bool{"admin": true, "alice": true, "root": true},
	}
}

// Server is an http.Handler with fault injection and call counting.
type Server struct {
	router chi.Router
	data   Data

	mu       sync.RWMutex
	latency  time.Duration
	failures map[string]int

	calls sync.Map // path -> *atomic.Int64
}

// Paths mirrors the default remote layout.
const (
	PathStates   = "/allStatesAPI.php"
	PathCity     = "/cityInfoAPI.php"
	PathCounties = "/countyListAPI.php"
	PathUsername = "/usernamesAPI.php"
	PathPassword = "/suggestedPassword.php"
)

// New builds a fake over data.
func New(data Data) *Server {
	s := &Server{data: data, failures: make(map[string]int)}
	r := chi.NewRouter()
	r.Use(s.inject)
	r.Get(PathStates, s.handleStates)
	r.Get(PathCity, s.handleCity)
	r.Get(PathCounties, s.handleCounties)
	r.Get(PathUsername, s.handleUsername)
	r.Get(PathPassword, s.handlePassword)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "lookup-api"})
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetLatency delays every response by d.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// FailWith makes path answer with status. Status 0 clears the failure.
func (s *Server) FailWith(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, path)
		return
	}
	s.failures[path] = status
}

// Calls returns how many requests reached path.
func (s *Server) Calls(path string) int64 {
	if v, ok := s.calls.Load(path); ok {
		return v.(*atomic.Int64).Load()
	}
	return 0
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter, _ := s.calls.LoadOrStore(r.URL.Path, new(atomic.Int64))
		counter.(*atomic.Int64).Add(1)

		s.mu.RLock()
		latency := s.latency
		status := s.failures[r.URL.Path]
		s.mu.RUnlock()

		if latency > 0 {
			select {
			case <-time.After(latency):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStates(w http.ResponseWriter, _ *http.Request) {
	out := make([]map[string]string, 0, len(s.data.States))
	for _, st := range s.data.States {
		out = append(out, map[string]string{"state": st[0], "usps": st[1]})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCity(w http.ResponseWriter, r *http.Request) {
	zip := strings.TrimSpace(r.URL.Query().Get("zip"))
	city, ok := s.data.Cities[zip]
	if !ok {
		writeJSON(w, http.StatusOK, false)
		return
	}
	body := map[string]any{"zip": zip, "city": city.City, "state": city.State}
	if city.Numeric {
		lat, _ := strconv.ParseFloat(city.Latitude, 64)
		long, _ := strconv.ParseFloat(city.Longitude, 64)
		body["latitude"], body["longitude"] = lat, long
	} else {
		body["latitude"], body["longitude"] = city.Latitude, city.Longitude
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCounties(w http.ResponseWriter, r *http.Request) {
	state := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("state")))
	out := []map[string]string{}
	for _, name := range s.data.Counties[state] {
		out = append(out, map[string]string{"county": name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUsername(w http.ResponseWriter, r *http.Request) {
	username := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("username")))
	writeJSON(w, http.StatusOK, map[string]bool{"available": !s.data.TakenUsernames[username]})
}

const passwordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func (s *Server) handlePassword(w http.ResponseWriter, r *http.Request) {
	length, err := strconv.Atoi(r.URL.Query().Get("length"))
	if err != nil || length < 1 || length > 128 {
		length = 8
	}
	buf := make([]byte, length)
	limit := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "entropy unavailable"})
			return
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	writeJSON(w, http.StatusOK, map[string]string{"password": string(buf)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
