package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"edge-gateway/internal/config"
	"edge-gateway/internal/controller"
	"edge-gateway/internal/database"
	"edge-gateway/internal/device"
	"edge-gateway/internal/middleware"
	"edge-gateway/internal/model"
	"edge-gateway/internal/pushdown"
	"edge-gateway/internal/query"
	"edge-gateway/internal/security"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := newLogger(cfg.Logging)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Core wiring: registry, drivers, optimizer, executor, engine.
	registry := device.NewRegistry(logger)
	drivers := database.NewDriverRegistry()
	optimizer := pushdown.NewOptimizer(logger)
	executor := query.NewRelationalExecutor(drivers, logger)
	engine := query.NewEngine(registry, optimizer, executor, logger)

	if err := bootstrapDevices(cfg.Devices, registry, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to bootstrap devices")
	}

	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)

	checker := device.NewHealthChecker(registry, drivers, cfg.Health.Timeout, logger)
	checker.OnProbe = func(r device.ProbeResult) {
		metrics.SetDeviceUp(r.DeviceName, r.DeviceType, r.Status)
	}
	go checker.Run(ctx, cfg.Health.Interval)

	jwtManager := security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTExpiration)
	guard := security.NewSQLGuard(cfg.Security.MaxQueryLength)

	deviceController := controller.NewDeviceController(registry)
	queryController := controller.NewQueryController(engine, registry, guard, metrics)
	healthController := controller.NewHealthController(registry, checker, version)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(metrics.Middleware())

	if cfg.Security.EnableRateLimit {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPM:             cfg.Security.RateLimitPerMinute,
			Burst:           cfg.Security.RateLimitBurst,
			CleanupInterval: 5 * time.Minute,
		})
		router.Use(rateLimiter.RateLimit())
	}

	router.GET("/health", healthController.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	if cfg.Security.EnableAuth {
		api.Use(middleware.RequireAuth(jwtManager))
	}
	{
		devices := api.Group("/devices")
		{
			devices.POST("", deviceController.Register)
			devices.GET("", deviceController.List)
			devices.GET("/:id", deviceController.Get)
			devices.DELETE("/:id", deviceController.Deregister)
			devices.PUT("/:id/status", deviceController.UpdateStatus)
		}
		api.POST("/query", queryController.Execute)
		api.GET("/health/devices", healthController.DeviceHealth)
	}

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stderr
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if cfg.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: out})
	}
	return logger
}

func bootstrapDevices(configs []config.DeviceConfig, registry *device.Registry, logger zerolog.Logger) error {
	for _, dc := range configs {
		properties := make([]model.DeviceProperty, 0, len(dc.Properties))
		for key, value := range dc.Properties {
			properties = append(properties, model.DeviceProperty{Key: key, Value: value})
		}

		var (
			dev *model.Device
			err error
		)
		if dc.ID != "" {
			id, parseErr := uuid.Parse(dc.ID)
			if parseErr != nil {
				return parseErr
			}
			dev, err = model.NewDeviceWithID(id, dc.Name, model.DeviceType(dc.Type), dc.Connection, properties...)
		} else {
			dev, err = model.NewDevice(dc.Name, model.DeviceType(dc.Type), dc.Connection, properties...)
		}
		if err != nil {
			return err
		}
		if err := registry.Register(dev); err != nil {
			return err
		}
		logger.Info().
			Str("device_name", dev.Name()).
			Str("device_type", string(dev.Type())).
			Msg("device registered from configuration")
	}
	return nil
}
