package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/bookstore/backend/internal/application/catalog"
	invoicingapp "github.com/bookstore/backend/internal/application/invoicing"
	partnerapp "github.com/bookstore/backend/internal/application/partner"
	reportapp "github.com/bookstore/backend/internal/application/report"
	"github.com/bookstore/backend/internal/domain/invoicing"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/cache"
	"github.com/bookstore/backend/internal/infrastructure/config"
	"github.com/bookstore/backend/internal/infrastructure/event"
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/bookstore/backend/internal/infrastructure/persistence"
	"github.com/bookstore/backend/internal/infrastructure/telemetry"
	"github.com/bookstore/backend/internal/interfaces/http/handler"
	"github.com/bookstore/backend/internal/interfaces/http/middleware"
	"github.com/bookstore/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting bookstore backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Tracing goes first so the GORM plugin and otelgin pick up the global provider
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Database.SlowThreshold)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.Bool("auto_migrate", cfg.Database.AutoMigrate))

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem(cfg.Database.Driver),
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		metrics = telemetry.NewMetrics()
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
		}
		dbName := cfg.Database.DBName
		if dbName == "" {
			dbName = cfg.Database.Driver
		}
		if err := metrics.RegisterDBStats(sqlDB, dbName); err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
	}

	factory, err := persistence.NewGormUnitOfWorkFactory(db.DB)
	if err != nil {
		log.Fatal("Failed to create unit of work factory", zap.Error(err))
	}
	clock := shared.Clock(shared.UTCNow)

	authorService := catalogapp.NewAuthorService(factory, clock)
	bookService := catalogapp.NewBookService(factory, clock)
	customerService := partnerapp.NewCustomerService(factory, clock)
	invoiceService := invoicingapp.NewInvoiceService(factory, clock, log)
	lineService := invoicingapp.NewLineService(factory, clock)
	reportService := reportapp.NewReportService(persistence.NewGormBookstoreReportRepository(db.DB), log)

	if metrics != nil {
		invoiceService.SetBusinessMetrics(metrics)
	}

	reportCache, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).CreateCache()
	if err != nil {
		log.Fatal("Failed to create report cache", zap.Error(err))
	}
	reportService.SetCache(reportCache, cfg.Redis.ReportTTL)

	checks := []handler.HealthCheck{{Name: "database", Check: db.Ping}}

	var publisher interface {
		invoicingapp.EventPublisher
		Close() error
	}
	if cfg.Events.Enabled {
		rabbit, err := event.NewRabbitMQPublisher(cfg.Events.URL, cfg.Events.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to event broker", zap.Error(err))
		}
		checks = append(checks, handler.HealthCheck{Name: "events", Check: func(context.Context) error {
			if !rabbit.IsHealthy() {
				return errors.New("event broker connection closed")
			}
			return nil
		}})
		publisher = rabbit
	} else {
		bus := event.NewInMemoryBus(log)
		bus.Subscribe(invoicing.EventTypeInvoiceCreated, event.LogHandler(log))
		publisher = bus
	}
	invoiceService.SetEventPublisher(publisher)

	engine, err := router.NewEngine(router.EngineConfig{
		Logger: log,
		CORS: middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
			MaxAge:       middleware.DefaultCORSConfig().MaxAge,
		},
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Metrics:        metrics,
		MetricsPath:    cfg.Metrics.Path,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, router.Handlers{
		Authors:   handler.NewAuthorHandler(authorService),
		Books:     handler.NewBookHandler(bookService),
		Customers: handler.NewCustomerHandler(customerService),
		Invoices:  handler.NewInvoiceHandler(invoiceService),
		Lines:     handler.NewLineHandler(lineService),
		Reports:   handler.NewReportHandler(reportService),
		Health:    handler.NewHealthHandler(clock, checks...),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// In-flight requests are done, so the remaining resources can be released
	if err := publisher.Close(); err != nil {
		log.Error("Error closing event publisher", zap.Error(err))
	}
	if err := reportCache.Close(); err != nil {
		log.Error("Error closing report cache", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracing", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func dbSystem(driver string) string {
	switch driver {
	case config.DriverMySQL:
		return "mysql"
	case config.DriverSQLite:
		return "sqlite"
	default:
		return "postgresql"
	}
}
