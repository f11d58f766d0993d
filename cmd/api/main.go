package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lpworks/lp-intake-backend/config"
	"github.com/lpworks/lp-intake-backend/internal/auth"
	"github.com/lpworks/lp-intake-backend/internal/bootstrap"
	"github.com/lpworks/lp-intake-backend/internal/jobs"
	"github.com/lpworks/lp-intake-backend/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.LogLevel, cfg.App.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetBase(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}
	defer func() { _ = app.Close() }()

	deps := bootstrap.RouterDeps{
		ServiceName:  cfg.App.ServiceName,
		Version:      cfg.App.Version,
		CORSOrigins:  cfg.Server.CORSOrigins,
		App:          app,
		IntakeAPIKey: cfg.Server.IntakeAPIKey,
	}
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			logger.Fatal("firebase init failed", zap.Error(err))
		}
		deps.Auth = authClient
	} else {
		logger.Warn("FIREBASE_CREDENTIALS_PATH not set; API is unauthenticated")
	}

	scheduler := jobs.NewScheduler(5 * time.Minute)
	if cfg.Drive.Enabled() && cfg.Jobs.RegistryBackupSpec != "" {
		backup := &jobs.RegistryBackup{Registry: app.Registry, Drive: app.Drive, FolderID: cfg.Drive.RootFolderID}
		if err := scheduler.Add("registry_backup", cfg.Jobs.RegistryBackupSpec, backup.Job()); err != nil {
			logger.Fatal("scheduler", zap.Error(err))
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	bootstrap.SetGinMode(cfg.App.Environment)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           bootstrap.BuildRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
