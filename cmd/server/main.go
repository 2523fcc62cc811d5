package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ninjaskull/dacreation-sub001/internal/config"
	"github.com/ninjaskull/dacreation-sub001/internal/infra"
	"github.com/ninjaskull/dacreation-sub001/internal/repository"
	"github.com/ninjaskull/dacreation-sub001/internal/router"
	"github.com/ninjaskull/dacreation-sub001/internal/service"
	"github.com/ninjaskull/dacreation-sub001/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	files, err := infra.NewLocalFileStore(cfg.UploadStoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init upload storage")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so the pool has
	// full access to infrastructure. Decision emails go through a circuit
	// breaker so a flapping SMTP relay cannot pile up goroutines.
	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	workerHandlers := &worker.WorkerHandlers{
		Notification: worker.NewNotificationWorker(mailer, smtpCB, cfg.PDFStoragePath),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	// Background sweep: verified documents whose expiry date has passed.
	documentSvc := service.NewDocumentService(
		repository.NewDocumentRepository(db),
		repository.NewRegistrationRepository(db),
		repository.NewApprovalLogRepository(db),
		files,
		cfg.MaxDocumentSizeMB,
	)
	worker.StartExpiryCron(ctx, documentSvc, time.Duration(cfg.DocExpiryCheckMinutes)*time.Minute)

	r := router.New(cfg, db, rdb, files)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("vendor registration API listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
