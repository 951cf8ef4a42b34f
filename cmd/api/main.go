package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getmentor/registration-api/config"
	"github.com/getmentor/registration-api/internal/database/postgres"
	"github.com/getmentor/registration-api/internal/handlers"
	"github.com/getmentor/registration-api/internal/middleware"
	"github.com/getmentor/registration-api/internal/repository"
	"github.com/getmentor/registration-api/internal/services"
	"github.com/getmentor/registration-api/pkg/logger"
	"github.com/getmentor/registration-api/pkg/metrics"
	"github.com/getmentor/registration-api/pkg/profiling"
	"github.com/getmentor/registration-api/pkg/storage"
	"github.com/getmentor/registration-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// newFileStore picks the photo storage backend. A missing upload directory
// is only reported: the first photo upload will fail, not startup.
func newFileStore(cfg config.UploadsConfig) services.FileStore {
	if cfg.Backend == config.StorageBackendS3 {
		return storage.NewS3Store(cfg.S3)
	}

	store := storage.NewDiskStore(cfg.Dir)
	if err := store.CheckDir(); err != nil {
		logger.Warn("Upload directory is not usable, photo uploads will fail",
			zap.String("dir", store.Dir()),
			zap.Error(err))
	}
	return store
}

// newRouter wires middleware and routes onto a fresh gin engine
func newRouter(
	cfg *config.Config,
	registrationHandler *handlers.RegistrationHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.MaxMultipartMemory = cfg.Uploads.MaxBytes

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))

	// Registration form is posted cross-origin from any frontend
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	api := router.Group("/api")
	api.POST("/register", middleware.BodySizeLimitMiddleware(cfg.Uploads.MaxBytes), registrationHandler.Register)
	api.GET("/healthcheck", healthHandler.Healthcheck)
	api.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	return router
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
		MaxSizeMB:   cfg.Logging.MaxSizeMB,
		MaxBackups:  cfg.Logging.MaxBackups,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting registration API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("storage_backend", cfg.Uploads.Backend),
	)

	tracerShutdown, err := tracing.InitTracer(cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.Start(cfg.Profiling, cfg.Observability, cfg.Uploads, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	metrics.RecordInfrastructureMetrics()

	// The server starts listening whether or not the database is reachable
	dbClient, err := postgres.NewClient(context.Background(), cfg.Database)
	if err != nil {
		logger.Error("Invalid database configuration, registrations will fail", zap.Error(err))
		dbClient = postgres.NewDisconnectedClient(err)
	}
	defer dbClient.Close()

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelConnect()
	go func() {
		_ = dbClient.Connect(connectCtx) //nolint:errcheck // logged inside Connect
	}()

	registrationRepo := repository.NewRegistrationRepository(dbClient)
	registrationService := services.NewRegistrationService(registrationRepo, newFileStore(cfg.Uploads))

	router := newRouter(cfg,
		handlers.NewRegistrationHandler(registrationService),
		handlers.NewHealthHandler(dbClient.Ping),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
