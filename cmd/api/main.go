package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/hissterical/MindfulPay/internal/config"
	"github.com/hissterical/MindfulPay/internal/database"
	"github.com/hissterical/MindfulPay/internal/events"
	"github.com/hissterical/MindfulPay/internal/handlers"
	"github.com/hissterical/MindfulPay/internal/kvstore"
	"github.com/hissterical/MindfulPay/internal/logger"
	"github.com/hissterical/MindfulPay/internal/metrics"
	"github.com/hissterical/MindfulPay/internal/middleware"
	"github.com/hissterical/MindfulPay/internal/models"
	"github.com/hissterical/MindfulPay/internal/resilience"
	"github.com/hissterical/MindfulPay/internal/services"
	"github.com/hissterical/MindfulPay/internal/tracing"
	"github.com/hissterical/MindfulPay/internal/upi"
	"github.com/hissterical/MindfulPay/internal/validator"

	_ "github.com/hissterical/MindfulPay/internal/docs" // Import swagger docs
)

// @title           MindfulPay API
// @version         1.0
// @description     MindfulPay guards UPI payments with a vendor blocklist, spending limits and an audited emergency override.

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.OTLPEndpoint, "mindfulpay")
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warnw("tracing shutdown failed", "error", err)
		}
	}()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, err := openPublisher(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnw("event publisher close failed", "error", err)
		}
	}()

	m := metrics.New()
	repo := kvstore.NewRepository(store)
	clock := services.NewClock(time.Now, cfg.Location)

	// Initialize services
	ledgerService := services.NewLedgerService(repo, clock, m)
	limitService := services.NewLimitService(repo, ledgerService, clock, services.LimitConfig{
		Defaults: models.LimitSettings{
			DailyLimit:   cfg.DailyLimit,
			MonthlyLimit: cfg.MonthlyLimit,
		},
		DuplicatePolicy: cfg.LimitDuplicatePolicy,
	}, m)
	blocklistService := services.NewBlocklistService(repo, m)
	counter := services.NewDailyCounter(repo, clock, m)
	goalService := services.NewGoalService(repo, m)
	auditService := services.NewAuditService(repo, clock)
	dataService := services.NewDataService(repo, clock, m)
	overviewService := services.NewOverviewService(ledgerService, goalService, counter, clock)
	gate := services.NewPaymentGate(services.PaymentGateDeps{
		Repo:       repo,
		Blocklist:  blocklistService,
		Limits:     limitService,
		Ledger:     ledgerService,
		Counter:    counter,
		Dispatcher: newDispatcher(cfg),
		Publisher:  publisher,
		Metrics:    m,
		Clock:      clock,
	}, services.PaymentGateConfig{
		FailMode:                   cfg.BlocklistFailMode,
		RecheckBlocklistOnOverride: cfg.OverrideRecheckBlocklist,
		UPIScheme:                  cfg.UPIScheme,
		Retention:                  cfg.PaymentAttemptRetention,
	})

	if cfg.SeedDemoData {
		if err := dataService.Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging(m))
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	router.NoRoute(middleware.NoRoute())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(router.Group("/api/v1"), handlers.Handlers{
		Payment:     handlers.NewPaymentHandler(gate, auditService),
		Transaction: handlers.NewTransactionHandler(ledgerService, auditService),
		Goal:        handlers.NewGoalHandler(goalService),
		Limit:       handlers.NewLimitHandler(limitService, auditService),
		Blocklist:   handlers.NewBlocklistHandler(blocklistService, auditService),
		Overview:    handlers.NewOverviewHandler(overviewService),
		Data:        handlers.NewDataHandler(dataService, auditService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting MindfulPay server on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
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

	log.Info("Shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

// openStore returns the key-value store selected by STORAGE_DRIVER and a
// function that releases it.
func openStore(cfg *config.Config) (kvstore.Store, func(), error) {
	if cfg.StorageDriver == "memory" {
		logger.Get().Warn("Using in-memory storage; data is lost on restart")
		return kvstore.NewMemory(), func() {}, nil
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		_ = dbManager.Close()
		return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	closeFn := func() {
		if err := dbManager.Close(); err != nil {
			logger.Get().Warnw("database close failed", "error", err)
		}
	}
	return kvstore.NewGormStore(dbManager.DB()), closeFn, nil
}

func openPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		return events.NopPublisher{}, nil
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to message broker: %w", err)
	}
	return p, nil
}

// newDispatcher hands payments to the device bridge when one is configured
// and otherwise logs the payment URI.
func newDispatcher(cfg *config.Config) upi.Dispatcher {
	var opener upi.Opener = upi.LogOpener{}
	if cfg.UPIBridgeURL != "" {
		opener = upi.NewBridgeOpener(
			&http.Client{Timeout: cfg.HTTPTimeout},
			cfg.UPIBridgeURL,
			resilience.NewCircuitBreaker("upi-bridge"),
		)
	}
	return upi.NewLauncher(opener, cfg.UPIScheme, cfg.Currency)
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Content-Type", middleware.RequestIDHeader}
	c.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}
