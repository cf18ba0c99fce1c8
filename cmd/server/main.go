package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taxfiling/internal/auth"
	"taxfiling/internal/cache"
	"taxfiling/internal/config"
	"taxfiling/internal/domain"
	"taxfiling/internal/email/noop"
	"taxfiling/internal/email/ses"
	"taxfiling/internal/handler"
	"taxfiling/internal/logging"
	"taxfiling/internal/port"
	"taxfiling/internal/repository/postgres"
	"taxfiling/internal/router"
	"taxfiling/internal/service"
	s3storage "taxfiling/internal/storage/s3"
	"taxfiling/internal/tin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log, cfg.Server.Environment)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	ledgerRepo := postgres.NewLedgerRepo(db)
	payeeRepo := postgres.NewTaxPayeeRepo(db)
	formRepo := postgres.NewTaxFormRepo(db)
	auditRepo := postgres.NewTaxAuditRepo(db)
	payerRepo := postgres.NewPayerProfileRepo(db)
	trackingRepo := postgres.NewW9TrackingRepo(db)

	vault, err := tin.NewVault(cfg.TIN.Key, auditRepo)
	if err != nil {
		return fmt.Errorf("failed to initialize TIN vault: %w", err)
	}

	deps := map[string]handler.Pinger{"database": db}

	// Stats cache: Redis when configured so replicas share invalidations
	var statsCache cache.Cache = cache.NewMemory()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		redisCache := cache.NewRedis(rdb, "taxfiling:")
		statsCache = redisCache
		deps["redis"] = handler.PingFunc(redisCache.Ping)
	}

	// Export archive storage
	var storage port.ArchiveStorage
	if cfg.S3.Enabled() {
		storage, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	sender, err := newEmailSender(ctx, cfg.Email, logger)
	if err != nil {
		return err
	}

	// Initialize services
	aggregationSvc := service.NewAggregationService(ledgerRepo, payeeRepo, formRepo, statsCache, cfg.Cache.StatsTTL, logger)
	formSvc := service.NewFormService(formRepo, payeeRepo, payerRepo, auditRepo, aggregationSvc, defaultPayer(cfg.Payer), logger)
	correctionSvc := service.NewCorrectionService(formRepo, aggregationSvc, logger)
	payeeSvc := service.NewPayeeService(payeeRepo, auditRepo, trackingRepo, vault, logger)
	trackingSvc := service.NewW9TrackingService(trackingRepo, payeeRepo, sender, logger)
	filingSvc := service.NewFilingService(formRepo, payeeRepo, auditRepo, vault, formSvc, storage,
		service.ArchiveConfig{Bucket: cfg.S3.Bucket, Prefix: cfg.S3.ExportPrefix}, logger)

	// Initialize handlers
	r := router.Setup(auth.NewValidator(cfg.JWT), router.Handlers{
		Payee:      handler.NewPayeeHandler(payeeSvc),
		Form:       handler.NewFormHandler(formSvc),
		Correction: handler.NewCorrectionHandler(correctionSvc),
		Filing:     handler.NewFilingHandler(filingSvc),
		Aggregate:  handler.NewAggregateHandler(aggregationSvc),
		W9:         handler.NewW9Handler(trackingSvc),
		Health:     handler.NewHealthHandler(deps),
	}, cfg.Server.CORSOrigins, logger)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}
	return nil
}

func newEmailSender(ctx context.Context, cfg config.EmailConfig, logger *zap.Logger) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		sender, err := ses.NewSESSender(ctx, cfg.Region, cfg.FromAddress, cfg.FromName, cfg.PortalURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	case "", "noop":
		return noop.NewNoopSender(cfg.PortalURL, logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

func defaultPayer(cfg config.PayerConfig) domain.PayerProfile {
	return domain.PayerProfile{
		Name: cfg.Name,
		TIN:  cfg.TIN,
		Address: domain.Address{
			Line1:      cfg.Line1,
			City:       cfg.City,
			State:      cfg.State,
			PostalCode: cfg.PostalCode,
		},
		Phone: cfg.Phone,
	}
}
