package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dsdaea/aerovault-backend/internal/certificate"
	"github.com/dsdaea/aerovault-backend/internal/config"
	"github.com/dsdaea/aerovault-backend/internal/database"
	"github.com/dsdaea/aerovault-backend/internal/handler"
	"github.com/dsdaea/aerovault-backend/internal/logger"
	"github.com/dsdaea/aerovault-backend/internal/repository"
	"github.com/dsdaea/aerovault-backend/internal/router"
	"github.com/dsdaea/aerovault-backend/internal/service"
	"github.com/dsdaea/aerovault-backend/internal/validator"
	"github.com/dsdaea/aerovault-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting AeroVault Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	recordRepo := repository.NewRecordRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	registrationRepo := repository.NewRegistrationRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)

	// ─── Initialize Certificate Pipeline ───────────────────────────────
	assets := certificate.NewAssetLibrary(cfg.AssetsDir, log)
	rasterizer := certificate.NewGGRasterizer(assets, log)
	exporter := certificate.NewExporter(rasterizer, log)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)

	var source service.RecordSource
	if cfg.LookupSource == "remote" {
		source = service.NewRemoteRecordSource(cfg.RemoteLookupURL, log)
	} else {
		source = service.NewPostgresRecordSource(recordRepo)
	}

	lookupService := service.NewLookupService(source, rdb, cfg, log)
	certService := service.NewCertificateService(lookupService, eventRepo, exporter, rdb, cfg, log)
	eventService := service.NewEventService(eventRepo, rdb, log)
	recordService := service.NewRecordService(recordRepo, lookupService, log)
	registrationService := service.NewRegistrationService(registrationRepo, eventRepo, rdb, cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, adminRepo),
		Vault:        handler.NewVaultHandler(certService),
		Event:        handler.NewEventHandler(eventService),
		Registration: handler.NewRegistrationHandler(registrationService),
		Record:       handler.NewRecordHandler(recordService),
		System:       handler.NewSystemHandler(rdb, log),
		WS:           handler.NewWSHandler(rdb, certService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	exportWorker := worker.NewExportWorker(certService, rdb, log)
	submissionWorker := worker.NewSubmissionWorker(registrationRepo, rdb, cfg, log)

	go exportWorker.Start(workerCtx)
	go submissionWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers. In-flight export jobs finish via the
	// job state in Redis; queued ones survive the restart.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
