package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kiosk-settlement/config"
	httpHandler "kiosk-settlement/internal/adapter/http/handler"
	"kiosk-settlement/internal/adapter/messaging/kafka"
	memStorage "kiosk-settlement/internal/adapter/storage/memory"
	pgStorage "kiosk-settlement/internal/adapter/storage/postgres"
	redisStorage "kiosk-settlement/internal/adapter/storage/redis"
	"kiosk-settlement/internal/core/ports"
	"kiosk-settlement/internal/service"
	"kiosk-settlement/pkg/logger"
	"kiosk-settlement/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// repositories groups the storage ports so the memory and PostgreSQL
// backends can be swapped by configuration.
type repositories struct {
	wallets     ports.WalletRepository
	walletTxs   ports.WalletTransactionRepository
	idempotency ports.IdempotencyRepository
	invoices    ports.InvoiceRepository
	settlements ports.SettlementRepository
	devices     ports.DeviceRepository
	commands    ports.CommandRepository
	audits      ports.AuditRepository
	transactor  ports.DBTransactor
	health      ports.HealthChecker
	close       func()
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*repositories, error) {
	if cfg.AutoMigrate {
		if err := pgStorage.RunMigrations(cfg.DSN(), log); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	pool, err := pgStorage.NewPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &repositories{
		wallets:     pgStorage.NewWalletRepo(pool),
		walletTxs:   pgStorage.NewWalletTransactionRepo(pool),
		idempotency: pgStorage.NewIdempotencyRepo(pool),
		invoices:    pgStorage.NewInvoiceRepo(pool),
		settlements: pgStorage.NewSettlementRepo(pool),
		devices:     pgStorage.NewDeviceRepo(pool),
		commands:    pgStorage.NewCommandRepo(pool),
		audits:      pgStorage.NewAuditRepo(pool),
		transactor:  pgStorage.NewTransactor(pool),
		health:      pgStorage.NewHealthCheck(pool),
		close:       pool.Close,
	}, nil
}

func openMemory() *repositories {
	store := memStorage.NewStore()
	return &repositories{
		wallets:     memStorage.NewWalletRepo(store),
		walletTxs:   memStorage.NewWalletTransactionRepo(store),
		idempotency: memStorage.NewIdempotencyRepo(store),
		invoices:    memStorage.NewInvoiceRepo(store),
		settlements: memStorage.NewSettlementRepo(store),
		devices:     memStorage.NewDeviceRepo(store),
		commands:    memStorage.NewCommandRepo(store),
		audits:      memStorage.NewAuditRepo(store),
		transactor:  store,
		health:      store,
		close:       func() {},
	}
}

func main() {
	cfgPath := os.Getenv("KSP_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("driver", cfg.Database.Driver).
		Int("port", cfg.Server.Port).
		Msg("Starting kiosk settlement service")

	ctx := context.Background()

	// Storage
	var repos *repositories
	switch cfg.Database.Driver {
	case config.DriverMemory:
		repos = openMemory()
		log.Warn().Msg("Using in-memory storage; state is lost on restart")
	default:
		repos, err = openPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		log.Info().Msg("PostgreSQL connected")
	}
	defer repos.close()

	healthCheckers := []ports.HealthChecker{repos.health}

	// Redis backs the top-up idempotency cache and the rate limiter. Without
	// it the limiter is disabled and top-ups rely on idempotency_logs alone.
	var (
		idempotencyCache ports.IdempotencyCache
		rateLimitStore   *redisStorage.RateLimitStore
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		idempotencyCache = redisStorage.NewIdempotencyCache(rdb)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
		log.Info().Msg("Redis connected")
	}

	// Settlement events
	var publisher ports.EventPublisher
	if cfg.Kafka.Enabled {
		p, err := kafka.NewPublisher(kafka.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		publisher = p
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka publisher ready")
	}
	eventSvc, err := service.NewEventService(publisher, service.EventServiceConfig{Workers: cfg.Kafka.Workers}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start event service")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	settlementMetrics := metrics.NewSettlementMetrics(registry)

	// Core services
	tokenSvc, err := service.NewHMACCapabilityTokenService(cfg.Token.Secret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize capability tokens")
	}
	identitySvc := service.NewJWTIdentityService(cfg.JWT.Secret, cfg.JWT.Issuer)

	ledgerSvc := service.NewLedgerService(
		repos.wallets,
		repos.walletTxs,
		repos.transactor,
		repos.idempotency,
		idempotencyCache,
		settlementMetrics,
		service.LedgerConfig{
			MinTopup: cfg.Wallet.MinTopupAmount(),
			MaxTopup: cfg.Wallet.MaxTopupAmount(),
			Presets:  cfg.Wallet.Presets,
		},
		log,
	)
	queueSvc := service.NewCommandQueueService(
		repos.devices,
		repos.commands,
		repos.transactor,
		settlementMetrics,
		service.CommandQueueConfig{RequireSecret: cfg.Device.RequireSecret},
		log,
	)
	invoiceSvc := service.NewInvoiceService(
		repos.invoices,
		repos.devices,
		repos.transactor,
		tokenSvc,
		service.InvoiceConfig{
			TTL:               cfg.Invoice.TTL,
			TokenTTL:          cfg.Token.TTL,
			PayURLBase:        cfg.Invoice.PayURLBase,
			AutoCreateDevices: cfg.Device.AutoCreate,
		},
		log,
	)
	settlementSvc := service.NewSettlementService(
		repos.invoices,
		repos.settlements,
		repos.devices,
		ledgerSvc,
		queueSvc,
		tokenSvc,
		repos.transactor,
		eventSvc,
		settlementMetrics,
		service.SettlementConfig{
			AutoCreateDevices:  cfg.Device.AutoCreate,
			GuestRequiresToken: cfg.Pay.GuestRequiresToken,
		},
		log,
	)
	auditSvc := service.NewAuditService(repos.audits, log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		InvoiceSvc:     invoiceSvc,
		SettlementSvc:  settlementSvc,
		LedgerSvc:      ledgerSvc,
		QueueSvc:       queueSvc,
		IdentitySvc:    identitySvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		AuditSvc:       auditSvc,
		Gatherer:       registry,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := eventSvc.Shutdown(5 * time.Second); err != nil {
		log.Warn().Err(err).Msg("Event publisher did not drain in time")
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Kafka publisher")
		}
	}

	log.Info().Msg("Server exited")
}
