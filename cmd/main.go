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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/soratobu/departure-planner/internal/config"
	"github.com/soratobu/departure-planner/internal/handler"
	"github.com/soratobu/departure-planner/internal/health"
	"github.com/soratobu/departure-planner/internal/infra/gcal"
	"github.com/soratobu/departure-planner/internal/infra/holiday"
	"github.com/soratobu/departure-planner/internal/infra/planrecorder"
	"github.com/soratobu/departure-planner/internal/infra/repository"
	"github.com/soratobu/departure-planner/internal/infra/route"
	"github.com/soratobu/departure-planner/internal/infra/transitinfo"
	"github.com/soratobu/departure-planner/internal/infra/weather"
	"github.com/soratobu/departure-planner/internal/observability/logging"
	"github.com/soratobu/departure-planner/internal/observability/metrics"
	"github.com/soratobu/departure-planner/internal/observability/middleware"
	"github.com/soratobu/departure-planner/internal/service/event"
	"github.com/soratobu/departure-planner/internal/service/planner"
	"github.com/soratobu/departure-planner/internal/service/weatheradj"
	"github.com/soratobu/departure-planner/internal/worker"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.Notifier.Validate(); err != nil {
		slog.Error("notifier configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	plannerMetrics, err := metrics.NewPlannerMetrics()
	if err != nil {
		slog.Error("failed to initialize planner metrics", slog.String("error", err.Error()))
		return 1
	}

	// Plan outcome recorder (InfluxDB for local, BigQuery for gcloud)
	recorderCfg := planrecorder.LoadConfig()
	outcomeRecorder, err := planrecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize plan outcome recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := outcomeRecorder.Close(); err != nil {
			slog.Warn("failed to close plan outcome recorder", slog.String("error", err.Error()))
		}
	}()

	// Notification backend (push gateway for local, Cloud Tasks for gcloud)
	notificationBackend, cleanup, err := initNotifier(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize notifier", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("notifier cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	eventRepo := repository.NewEventRepository(redisClient)
	policyRepo := repository.NewPolicyRepository(redisClient)

	weatherProvider := weather.NewClient(cfg.Weather)

	googleClient := route.NewGoogleClient(cfg.Route)
	transitEstimator, err := route.NewEstimator(cfg.Route)
	if err != nil {
		slog.Error("failed to initialize transit estimator", slog.String("error", err.Error()))
		return 1
	}
	routeSearcher := route.NewSearcher(googleClient, transitEstimator)

	adjuster := weatheradj.NewAdjuster(weatherProvider, plannerMetrics)
	notificationPlanner := planner.NewPlanner(notificationBackend, plannerMetrics, cfg.Planner)
	eventService := event.NewService(eventRepo, policyRepo, adjuster, notificationPlanner, outcomeRecorder)

	holidayClient := holiday.NewClient(*cfg.Holiday, redisClient)
	transitClient := transitinfo.NewClient(cfg.Transit.ODPTAPIKey)
	calendarClient := gcal.NewClient(cfg.Calendar)

	holidayRefresher := worker.NewHolidayRefresher(ctx, holidayClient)
	if err := holidayRefresher.Start(); err != nil {
		slog.Error("failed to start holiday refresh worker", slog.String("error", err.Error()))
		return 1
	}
	defer holidayRefresher.Stop()

	eventHandler := handler.NewEventHandler(eventService, cfg.Planner.DefaultLeadMinutes)
	routeHandler := handler.NewRouteHandler(routeSearcher)
	weatherHandler := handler.NewWeatherHandler(weatherProvider)
	settingsHandler := handler.NewSettingsHandler(policyRepo)
	transitHandler := handler.NewTransitHandler(transitClient)
	holidayHandler := handler.NewHolidayHandler(holidayClient)
	calendarHandler := handler.NewCalendarHandler(calendarClient)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:      logging.Module("departure-planner"),
		TracerName:  "github.com/soratobu/departure-planner/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		users := v1.Group("/users/:userID")
		{
			users.GET("/events", eventHandler.HandleList)
			users.POST("/events", eventHandler.HandleCreate)
			users.PUT("/events/:eventID", eventHandler.HandleUpdate)
			users.DELETE("/events/:eventID", eventHandler.HandleDelete)
			users.GET("/events/export.ics", eventHandler.HandleExportICS)

			users.GET("/settings/weather", settingsHandler.HandleGetWeatherPolicy)
			users.PUT("/settings/weather", settingsHandler.HandlePutWeatherPolicy)

			users.GET("/calendar/auth-url", calendarHandler.HandleAuthURL)
			users.POST("/calendar/token", calendarHandler.HandleToken)
			users.POST("/calendar/events", calendarHandler.HandleEvents)
		}

		v1.POST("/routes/search", routeHandler.HandleSearch)
		v1.GET("/weather", weatherHandler.HandleCurrent)
		v1.GET("/transit/delays", transitHandler.HandleDelays)
		v1.GET("/holidays", holidayHandler.HandleList)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("safety_margin_seconds", cfg.Planner.SafetyMarginSeconds),
			slog.Int("default_lead_minutes", cfg.Planner.DefaultLeadMinutes),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
