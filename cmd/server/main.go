package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	leasingapp "github.com/Uaq907/estateflow-sub003/internal/application/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/leasing"
	"github.com/Uaq907/estateflow-sub003/internal/domain/shared"
	"github.com/Uaq907/estateflow-sub003/internal/infrastructure/config"
	"github.com/Uaq907/estateflow-sub003/internal/infrastructure/logger"
	"github.com/Uaq907/estateflow-sub003/internal/infrastructure/persistence"
	"github.com/Uaq907/estateflow-sub003/internal/infrastructure/persistence/models"
	"github.com/Uaq907/estateflow-sub003/internal/infrastructure/telemetry"
	"github.com/Uaq907/estateflow-sub003/internal/interfaces/http/handler"
	"github.com/Uaq907/estateflow-sub003/internal/interfaces/http/middleware"
	"github.com/Uaq907/estateflow-sub003/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting EstateFlow backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := db.DB.AutoMigrate(&models.LeaseModel{}, &models.InstallmentModel{}); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories and services
	leaseRepo := persistence.NewGormLeaseRepository(db.DB)
	installmentRepo := persistence.NewGormInstallmentRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)
	clock := shared.SystemClock{}

	leaseService := leasingapp.NewLeaseService(leaseRepo, installmentRepo, txManager, clock).WithLogger(log)
	paymentService := leasingapp.NewPaymentService(installmentRepo, clock).WithLogger(log)
	extensionService := leasingapp.NewExtensionService(installmentRepo, clock).WithLogger(log)
	renewalService := leasingapp.NewRenewalAppService(
		leaseRepo, installmentRepo, leasing.NewRenewalService(), txManager, clock).WithLogger(log)

	leasingHandler := handler.NewLeasingHandler(leaseService, paymentService, extensionService, renewalService, clock)

	// Start the expiry sweep if enabled
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Scheduler.ExpirySweepEnabled {
		go runExpirySweep(sweepCtx, leaseService, cfg.Scheduler.ExpirySweepInterval, log)
		log.Info("Lease expiry sweep started",
			zap.Duration("interval", cfg.Scheduler.ExpirySweepInterval))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(routePrefix{prefix: "/leasing", registrar: leasingHandler})
	r.Setup()

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// routePrefix mounts a registrar under an extra path prefix
type routePrefix struct {
	prefix    string
	registrar router.RouteRegistrar
}

func (p routePrefix) RegisterRoutes(rg *gin.RouterGroup) {
	p.registrar.RegisterRoutes(rg.Group(p.prefix))
}

// runExpirySweep periodically marks active leases past their end date as
// expired. One immediate pass on startup, then one per interval.
func runExpirySweep(ctx context.Context, leaseService *leasingapp.LeaseService, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sweep := func() {
		count, err := leaseService.ExpireLeases(ctx)
		if err != nil {
			log.Error("Lease expiry sweep failed", zap.Error(err))
			return
		}
		if count > 0 {
			log.Info("Leases expired", zap.Int("count", count))
		}
	}

	sweep()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
