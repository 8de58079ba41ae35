package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/mr1hm/go-hazard-watch/internal/accounts"
	"github.com/mr1hm/go-hazard-watch/internal/api"
	"github.com/mr1hm/go-hazard-watch/internal/config"
	"github.com/mr1hm/go-hazard-watch/internal/ingestion"
	"github.com/mr1hm/go-hazard-watch/internal/logging"
	"github.com/mr1hm/go-hazard-watch/internal/monitor"
	"github.com/mr1hm/go-hazard-watch/internal/notify"
	"github.com/mr1hm/go-hazard-watch/internal/observability"
	"github.com/mr1hm/go-hazard-watch/internal/repository"
	"github.com/mr1hm/go-hazard-watch/internal/resilience"
	"github.com/mr1hm/go-hazard-watch/internal/sink"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()
	broadcaster := notify.NewBroadcaster(cfg.Worker.BufferSize, metrics)

	upstream := func(name string) *resilience.Client {
		c := resilience.DefaultClientConfig(name)
		c.Timeout = cfg.Upstream.Timeout
		c.MaxRetries = uint64(cfg.Upstream.MaxRetries)
		c.Metrics = metrics
		return resilience.NewClient(c)
	}

	geocoder := ingestion.NewCachedGeocoder(
		ingestion.NewNominatimClient(cfg.Sources.NominatimURL, cfg.Sources.NominatimCountry, upstream("nominatim")),
		cfg.Sources.GeocodeCacheSize,
		metrics,
	)
	backend := ingestion.NewBackendClient(cfg.Sources.BackendURL, upstream("backend"))
	if !backend.Enabled() {
		slog.Warn("BACKEND_URL not set, flood, heatwave and monitor data disabled")
	}

	svc := monitor.NewService(monitor.Deps{
		Earthquakes: ingestion.NewUSGSClient(cfg.Sources.USGSURL, upstream("usgs"), clock),
		Weather:     ingestion.NewWeatherClient(cfg.Sources.OpenMeteoURL, upstream("open-meteo")),
		Geocoder:    geocoder,
		Backend:     backend,
		Publisher:   broadcaster,
		Metrics:     metrics,
		Clock:       clock,
	})

	var background sync.WaitGroup

	var kafkaSink *sink.KafkaSink
	if cfg.Kafka.Enabled() {
		kafkaSink = sink.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.AlertTopic)
		background.Add(1)
		go func() {
			defer background.Done()
			kafkaSink.Run(ctx, broadcaster)
		}()
	}

	// Start dashboard poller for watched locations
	var poller *monitor.Poller
	deps := api.Deps{
		Monitor:     svc,
		Geocoder:    geocoder,
		Accounts:    accounts.NewService(db, clock, 0),
		Watches:     db,
		Broadcaster: broadcaster,
	}
	if cfg.Poll.Enabled {
		poller = monitor.NewPoller(monitor.PollerConfig{
			Interval:   cfg.Poll.Interval,
			Workers:    cfg.Worker.Count,
			BufferSize: cfg.Worker.BufferSize,
		}, db, svc, clock, metrics)
		poller.Start(ctx)
		deps.Snapshots = poller
	}

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestIDMiddleware())
	router.Use(api.MetricsMiddleware(metrics))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", api.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", api.RequestIDHeader},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(api.NewRateLimiter(cfg.Server.RateLimitRPS)))

	handler := api.NewHandler(deps)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	if poller != nil {
		poller.Stop()
	}
	broadcaster.Close() // Close all streams gracefully
	background.Wait()
	if kafkaSink != nil {
		if err := kafkaSink.Close(); err != nil {
			slog.Error("kafka sink close error", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
