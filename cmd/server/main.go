package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"signup/internal/lookup"
	"signup/internal/lookup/cache"
	lookupmetrics "signup/internal/lookup/metrics"
	"signup/internal/lookup/tracer"
	"signup/internal/platform/config"
	"signup/internal/platform/health"
	"signup/internal/platform/httpserver"
	"signup/internal/platform/logger"
	"signup/internal/platform/metrics"
	redisclient "signup/internal/platform/redis"
	"signup/internal/signup/controller"
	"signup/internal/signup/handler"
	"signup/internal/signup/registration"
	"signup/internal/signup/session"
	"signup/internal/signup/ticket"
	"signup/internal/signup/view"
	"signup/pkg/platform/circuit"
	"signup/pkg/platform/middleware/metadata"
	"signup/pkg/platform/middleware/request"
	"signup/pkg/secrets"
)

const maxBodyBytes = 64 << 10

// main wires the lookup stack, form sessions and HTTP surface, then serves until
// SIGINT or SIGTERM.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Server.LogLevel)
	slog.SetDefault(log)

	log.Info("initializing signup",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment,
		"lookup_base_url", cfg.Lookup.BaseURL,
		"redis", cfg.Redis.Enabled(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	formMetrics := metrics.New(reg)
	lookupMetrics := lookupmetrics.New(reg)

	rdb, err := redisclient.New(ctx, cfg.Redis, reg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close() //nolint:errcheck // shutdown path
	}

	lookups, memCache, lookupClient, err := buildLookups(cfg, rdb, lookupMetrics, log)
	if err != nil {
		return err
	}

	store := session.New(func(nav controller.Navigator) *controller.Controller {
		return controller.New(lookups, nav,
			controller.WithLogger(log),
			controller.WithMetrics(formMetrics),
			controller.WithDebounce(cfg.Form.Debounce),
			controller.WithMinPasswordLength(cfg.Form.MinPasswordLength),
			controller.WithSuggestedPasswordLength(cfg.Form.SuggestedPasswordLength),
			controller.WithClearStaleCounty(cfg.Form.ClearStaleCounty),
		)
	}, session.WithTTL(cfg.Server.SessionTTL), session.WithMetrics(formMetrics))
	defer store.CloseAll()

	sweeper, err := session.NewSweeper(store,
		session.WithSweepInterval(cfg.Server.SweepInterval),
		session.WithSweepLogger(log),
	)
	if err != nil {
		return err
	}
	go func() {
		if err := sweeper.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("session sweeper stopped", "error", err)
		}
	}()
	go housekeeping(ctx, cfg.Server.SweepInterval, memCache, rdb)

	ticketKey := cfg.Server.TicketKey
	if cfg.Server.UsesDevTicketKey() {
		ticketKey, err = secrets.Generate()
		if err != nil {
			return err
		}
		log.Warn("using a per-process ticket signing key; set TICKET_SIGNING_KEY to keep tickets valid across restarts")
	}
	tickets, err := ticket.NewIssuer(ticketKey, cfg.Server.TicketTTL)
	if err != nil {
		return err
	}
	views, err := view.New()
	if err != nil {
		return err
	}
	signupHandler := handler.New(store, views, registration.NewBuilder(0), tickets, log, handler.Config{
		SecureCookies:           cfg.Server.SecureCookies,
		SuggestedPasswordLength: cfg.Form.SuggestedPasswordLength,
	})

	healthHandler := health.New(cfg.Server.Environment)
	healthHandler.RegisterCheck("lookup", lookupClient.Health)
	if rdb != nil {
		healthHandler.RegisterCheck("redis", rdb.Health)
	}

	proxies, err := metadata.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.Recovery(log))
	r.Use(metadata.NewMiddleware(&metadata.Config{TrustedProxies: proxies}).Handler)
	r.Use(request.Logger(log))
	r.Use(request.LatencyMiddleware(request.NewMetrics(reg)))
	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Group(func(r chi.Router) {
		r.Use(request.BodyLimit(maxBodyBytes))
		r.Use(request.Timeout(cfg.Server.RequestTimeout))
		signupHandler.Register(r)
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/signup", http.StatusFound)
	})

	srv := httpserver.New(cfg.Server.Addr, r, cfg.Server.RequestTimeout)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

// buildLookups assembles HTTP adapter, client and cache. The memory cache is returned
// when Redis is not configured so housekeeping can purge it.
func buildLookups(cfg *config.Config, rdb *redisclient.Client, m *lookupmetrics.Metrics, log *slog.Logger) (lookup.Lookups, *cache.MemoryCache, *lookup.Client, error) {
	breaker := circuit.New("lookup",
		circuit.WithFailureThreshold(cfg.Lookup.FailureThreshold),
		circuit.WithSuccessThreshold(cfg.Lookup.SuccessThreshold),
	)
	adapter, err := lookup.NewHTTPAdapter(lookup.HTTPAdapterConfig{
		BaseURL: cfg.Lookup.BaseURL,
		Timeout: cfg.Lookup.Timeout,
		Breaker: breaker,
		Metrics: m,
		Tracer:  tracer.NewOTel(),
		Logger:  log,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	client := lookup.NewClient(adapter, lookup.Paths{
		States:   cfg.Lookup.StatesPath,
		City:     cfg.Lookup.CityPath,
		Counties: cfg.Lookup.CountiesPath,
		Username: cfg.Lookup.UsernamePath,
		Password: cfg.Lookup.PasswordPath,
	})

	var (
		backend  cache.Cache
		memCache *cache.MemoryCache
	)
	if rdb != nil {
		backend = cache.NewRedisCache(rdb.Client, cache.DefaultKeyPrefix)
	} else {
		memCache = cache.NewMemoryCache()
		backend = memCache
	}
	ttls := lookup.CacheTTLs{
		States:   cfg.Lookup.StatesCacheTTL,
		Counties: cfg.Lookup.CountiesCacheTTL,
		City:     cfg.Lookup.CityCacheTTL,
	}
	return lookup.NewCachingClient(client, backend, ttls, m, log), memCache, client, nil
}

// housekeeping purges expired in-memory cache entries and exports Redis pool stats.
func housekeeping(ctx context.Context, interval time.Duration, memCache *cache.MemoryCache, rdb *redisclient.Client) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if memCache != nil {
				memCache.Purge()
			}
			if rdb != nil {
				rdb.RecordPoolStats()
			}
		case <-ctx.Done():
			return
		}
	}
}
