package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"

	"github.com/manan0901/Vibecoder-sub002/internal/adapters/cache"
	"github.com/manan0901/Vibecoder-sub002/internal/adapters/events"
	"github.com/manan0901/Vibecoder-sub002/internal/adapters/gateway"
	httpadapter "github.com/manan0901/Vibecoder-sub002/internal/adapters/http"
	"github.com/manan0901/Vibecoder-sub002/internal/adapters/postgres"
	"github.com/manan0901/Vibecoder-sub002/internal/adapters/security"
	"github.com/manan0901/Vibecoder-sub002/internal/adapters/storage"
	"github.com/manan0901/Vibecoder-sub002/internal/application"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

// Runtime holds every wired component. Both binaries build one and then run
// the subset they own.
type Runtime struct {
	Config   Config
	Logger   *slog.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Service  *application.Service
	Verifier ports.SignatureVerifier

	publisher interface {
		Close() error
	}
}

func setupLogger(cfg Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	return logger
}

// NewRuntime connects infrastructure and assembles the application service.
func NewRuntime(ctx context.Context, cfg Config) (*Runtime, error) {
	logger := setupLogger(cfg)

	db, err := postgres.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return nil, err
	}
	repos := postgres.NewRepositories(db)

	var redisClient *redis.Client
	var sessionCache ports.DownloadSessionCache
	if cfg.Redis.URL != "" {
		redisClient, err = cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WarnContext(ctx, "redis unreachable, session cache disabled",
				"module", "bootstrap",
				"operation", "connect_redis",
				"outcome", "failure",
				"error", err,
			)
			redisClient = nil
		} else {
			sessionCache = cache.NewRedisDownloadSessionStore(redisClient)
		}
	}

	signer, err := buildSigner(cfg, logger)
	if err != nil {
		return nil, err
	}

	gatewayClient := gateway.NewRazorpayClient(gateway.RazorpayConfig{
		BaseURL:   cfg.Gateway.BaseURL,
		KeyID:     cfg.Gateway.KeyID,
		KeySecret: cfg.Gateway.KeySecret,
		Timeout:   cfg.Gateway.Timeout.Std(),
	})
	verifier := gateway.NewHMACVerifier(cfg.Gateway.KeySecret, cfg.Gateway.WebhookSecret)

	var publisher ports.EventPublisher
	var closer interface{ Close() error }
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		publisher = kp
		closer = kp
	} else {
		publisher = events.NewLoggingPublisher(logger)
	}

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:            cfg.ServiceName,
			DefaultCurrency:        cfg.Payments.DefaultCurrency,
			PlatformFeeBasisPoints: cfg.Payments.PlatformFeeBasisPoints,
			DownloadTTL:            cfg.Downloads.TTL.Std(),
			MaxDownloads:           cfg.Downloads.MaxDownloads,
			TokenTTL:               cfg.Auth.TokenTTL.Std(),
			OutboxFlushBatchSize:   cfg.Outbox.BatchSize,
		},
		Transactions: repos.Transactions,
		Downloads:    repos.Downloads,
		Projects:     repos.Projects,
		Users:        repos.Users,
		Webhooks:     repos.Webhooks,
		Outbox:       repos.Outbox,
		Gateway:      gatewayClient,
		Verifier:     verifier,
		SessionCache: sessionCache,
		Files:        storage.NewLocalFileStore(cfg.Storage.Root),
		Tokens:       security.NewDownloadTokenGenerator(),
		Signer:       signer,
		Hasher:       security.NewBcryptHasher(cfg.Auth.BcryptCost),
		Publisher:    publisher,
	})

	return &Runtime{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Redis:     redisClient,
		Service:   service,
		Verifier:  verifier,
		publisher: closer,
	}, nil
}

func buildSigner(cfg Config, logger *slog.Logger) (ports.TokenSigner, error) {
	if cfg.Auth.PrivateKeyPEM != "" && cfg.Auth.PublicKeyPEM != "" {
		return security.NewJWTSigner(orDefault(cfg.Auth.KeyID, "api-key-1"), cfg.Auth.PrivateKeyPEM, cfg.Auth.PublicKeyPEM)
	}
	logger.Warn("no jwt keypair configured, using ephemeral keys",
		"module", "bootstrap",
		"operation", "build_signer",
	)
	return security.NewEphemeralJWTSigner(cfg.Auth.KeyID)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func (rt *Runtime) ready(ctx context.Context) error {
	sqlDB, err := rt.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// RunAPI serves HTTP plus the standard gRPC health endpoint until the context
// is canceled or a termination signal arrives.
func (rt *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := httpadapter.NewRouter(rt.Service, rt.Verifier, rt.Logger, rt.ready)
	server := &http.Server{
		Addr:              rt.Config.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	errCh := make(chan error, 2)
	go func() {
		rt.Logger.InfoContext(ctx, "http server listening",
			"module", "bootstrap",
			"operation", "run_api",
			"addr", rt.Config.HTTPAddr,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		lis, err := net.Listen("tcp", rt.Config.GRPCAddr)
		if err != nil {
			errCh <- fmt.Errorf("grpc listen: %w", err)
			return
		}
		rt.Logger.InfoContext(ctx, "grpc health server listening",
			"module", "bootstrap",
			"operation", "run_api",
			"addr", rt.Config.GRPCAddr,
		)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		rt.Logger.Error("http shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	rt.Close()
	rt.Logger.Info("api stopped",
		"module", "bootstrap",
		"operation", "run_api",
		"outcome", "success",
	)
	return nil
}

// RunWorker drives the outbox and reconciliation loops.
func (rt *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	outboxWorker := events.NewOutboxWorker(rt.Service, rt.Config.Outbox.FlushInterval.Std(), rt.Logger)
	reconcileWorker := events.NewReconcileWorker(
		rt.Service,
		rt.Config.Reconcile.Interval.Std(),
		rt.Config.Reconcile.OlderThan.Std(),
		rt.Config.Reconcile.AbandonAfter.Std(),
		rt.Config.Reconcile.BatchSize,
		rt.Logger,
	)

	done := make(chan struct{}, 2)
	go func() {
		outboxWorker.Run(ctx)
		done <- struct{}{}
	}()
	go func() {
		reconcileWorker.Run(ctx)
		done <- struct{}{}
	}()

	<-ctx.Done()
	<-done
	<-done
	rt.Close()
	rt.Logger.Info("worker stopped",
		"module", "bootstrap",
		"operation", "run_worker",
		"outcome", "success",
	)
	return nil
}

// Close releases broker and store connections.
func (rt *Runtime) Close() {
	if rt.publisher != nil {
		_ = rt.publisher.Close()
	}
	if rt.Redis != nil {
		_ = rt.Redis.Close()
	}
	if sqlDB, err := rt.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
