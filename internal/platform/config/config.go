// Package config loads service configuration: defaults, then an optional YAML file, then environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable holding the optional YAML config path.
const ConfigFileEnv = "SIGNUP_CONFIG_FILE"

// Config is the complete service configuration.
type Config struct {
	Server Server `yaml:"server"`
	Lookup Lookup `yaml:"lookup"`
	Form   Form   `yaml:"form"`
	Redis  Redis  `yaml:"redis"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	Environment     string        `yaml:"environment"`
	LogLevel        string        `yaml:"log_level"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
	SecureCookies   bool          `yaml:"secure_cookies"`
	TicketKey       string        `yaml:"ticket_key"`
	TicketTTL       time.Duration `yaml:"ticket_ttl"`
	TrustedProxies  []string      `yaml:"trusted_proxies"`
}

// Lookup configures the remote lookup endpoints.
type Lookup struct {
	BaseURL          string        `yaml:"base_url"`
	StatesPath       string        `yaml:"states_path"`
	CityPath         string        `yaml:"city_path"`
	CountiesPath     string        `yaml:"counties_path"`
	UsernamePath     string        `yaml:"username_path"`
	PasswordPath     string        `yaml:"password_path"`
	Timeout          time.Duration `yaml:"timeout"`
	StatesCacheTTL   time.Duration `yaml:"states_cache_ttl"`
	CountiesCacheTTL time.Duration `yaml:"counties_cache_ttl"`
	CityCacheTTL     time.Duration `yaml:"city_cache_ttl"`
	FailureThreshold int           `yaml:"failure_threshold"`
	SuccessThreshold int           `yaml:"success_threshold"`
}

// Form configures the form controller.
type Form struct {
	Debounce                time.Duration `yaml:"debounce"`
	MinPasswordLength       int           `yaml:"min_password_length"`
	SuggestedPasswordLength int           `yaml:"suggested_password_length"`
	ClearStaleCounty        bool          `yaml:"clear_stale_county"`
}

// Redis configures the optional lookup cache backend. Empty URL selects the in-memory cache.
type Redis struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Enabled reports whether a Redis URL is configured.
func (r Redis) Enabled() bool {
	return r.URL != ""
}

// IsProduction reports whether the service runs in the production environment.
func (s Server) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

const devTicketKey = "dev-ticket-key-change-in-production"

// UsesDevTicketKey reports whether the built-in development signing key is still configured.
func (s Server) UsesDevTicketKey() bool {
	return s.TicketKey == devTicketKey
}

// Default returns a Config with development defaults.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:            ":8080",
			Environment:     "development",
			LogLevel:        "info",
			RequestTimeout:  15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			SessionTTL:      30 * time.Minute,
			SweepInterval:   time.Minute,
			TicketKey:       devTicketKey,
			TicketTTL:       10 * time.Minute,
		},
		Lookup: Lookup{
			BaseURL:          "https://csumb.space/api",
			StatesPath:       "/allStatesAPI.php",
			CityPath:         "/cityInfoAPI.php",
			CountiesPath:     "/countyListAPI.php",
			UsernamePath:     "/usernamesAPI.php",
			PasswordPath:     "/suggestedPassword.php",
			Timeout:          5 * time.Second,
			StatesCacheTTL:   24 * time.Hour,
			CountiesCacheTTL: 6 * time.Hour,
			CityCacheTTL:     time.Hour,
			FailureThreshold: 5,
			SuccessThreshold: 2,
		},
		Form: Form{
			Debounce:                300 * time.Millisecond,
			MinPasswordLength:       6,
			SuggestedPasswordLength: 8,
			ClearStaleCounty:        true,
		},
		Redis: Redis{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by SIGNUP_CONFIG_FILE
// (if set) and environment variables, then validates it.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads defaults overlaid with a YAML file, without environment overrides.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds the Server section from environment variables so callers that only
// need listener settings stay lean. Invalid values fall back to defaults.
func FromEnv() Server {
	cfg := Default()
	_ = cfg.applyEnv(os.LookupEnv)
	return cfg.Server
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("SIGNUP_ADDR", &c.Server.Addr)
	str("SIGNUP_ENV", &c.Server.Environment)
	str("LOG_LEVEL", &c.Server.LogLevel)
	dur("REQUEST_TIMEOUT", &c.Server.RequestTimeout)
	dur("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	dur("SESSION_TTL", &c.Server.SessionTTL)
	dur("SESSION_SWEEP_INTERVAL", &c.Server.SweepInterval)
	flag("SECURE_COOKIES", &c.Server.SecureCookies)
	str("TICKET_SIGNING_KEY", &c.Server.TicketKey)
	dur("TICKET_TTL", &c.Server.TicketTTL)
	if v, ok := lookup("TRUSTED_PROXIES"); ok && v != "" {
		c.Server.TrustedProxies = strings.Split(v, ",")
	}

	str("LOOKUP_BASE_URL", &c.Lookup.BaseURL)
	dur("LOOKUP_TIMEOUT", &c.Lookup.Timeout)
	dur("LOOKUP_STATES_CACHE_TTL", &c.Lookup.StatesCacheTTL)
	dur("LOOKUP_COUNTIES_CACHE_TTL", &c.Lookup.CountiesCacheTTL)
	dur("LOOKUP_CITY_CACHE_TTL", &c.Lookup.CityCacheTTL)
	num("LOOKUP_FAILURE_THRESHOLD", &c.Lookup.FailureThreshold)
	num("LOOKUP_SUCCESS_THRESHOLD", &c.Lookup.SuccessThreshold)

	dur("FORM_DEBOUNCE", &c.Form.Debounce)
	num("FORM_MIN_PASSWORD_LENGTH", &c.Form.MinPasswordLength)
	num("FORM_SUGGESTED_PASSWORD_LENGTH", &c.Form.SuggestedPasswordLength)
	flag("FORM_CLEAR_STALE_COUNTY", &c.Form.ClearStaleCounty)

	str("REDIS_URL", &c.Redis.URL)
	num("REDIS_POOL_SIZE", &c.Redis.PoolSize)

	return errors.Join(errs...)
}

// Validate rejects nonsensical values.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	for name, d := range map[string]time.Duration{
		"server.request_timeout":    c.Server.RequestTimeout,
		"server.session_ttl":        c.Server.SessionTTL,
		"server.sweep_interval":     c.Server.SweepInterval,
		"server.ticket_ttl":         c.Server.TicketTTL,
		"lookup.timeout":            c.Lookup.Timeout,
		"lookup.states_cache_ttl":   c.Lookup.StatesCacheTTL,
		"lookup.counties_cache_ttl": c.Lookup.CountiesCacheTTL,
		"lookup.city_cache_ttl":     c.Lookup.CityCacheTTL,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.Form.Debounce < 0 {
		errs = append(errs, errors.New("form.debounce must not be negative"))
	}
	if c.Form.MinPasswordLength < 1 {
		errs = append(errs, errors.New("form.min_password_length must be at least 1"))
	}
	if c.Form.SuggestedPasswordLength < c.Form.MinPasswordLength {
		errs = append(errs, errors.New("form.suggested_password_length must not be below form.min_password_length"))
	}
	if c.Lookup.BaseURL == "" {
		errs = append(errs, errors.New("lookup.base_url is required"))
	}
	if c.Server.TicketKey == "" {
		errs = append(errs, errors.New("server.ticket_key is required"))
	}
	if c.Server.IsProduction() && c.Server.TicketKey == devTicketKey {
		errs = append(errs, errors.New("server.ticket_key must be set in production"))
	}
	return errors.Join(errs...)
}
