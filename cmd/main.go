package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/quantum-mirror/internal/api/cli/handler"
	"github.com/dtroode/quantum-mirror/internal/api/cli/router"
	"github.com/dtroode/quantum-mirror/internal/config"
	"github.com/dtroode/quantum-mirror/internal/events"
	"github.com/dtroode/quantum-mirror/internal/logger"
	"github.com/dtroode/quantum-mirror/internal/model"
	"github.com/dtroode/quantum-mirror/internal/random"
	"github.com/dtroode/quantum-mirror/internal/repository"
	"github.com/dtroode/quantum-mirror/internal/service"
	"github.com/dtroode/quantum-mirror/internal/storage/local"
	storage "github.com/dtroode/quantum-mirror/internal/storage/minio"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// Media backends selectable with MEDIA_BACKEND.
const (
	mediaBackendLocal = "local"
	mediaBackendMinio = "minio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)

	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Printf("failed to parse config: %v", err)
		return handler.ExitInternal
	}
	logger := logger.NewWithWriter(os.Stderr, cfg.LogLevel)

	backend, err := repository.OpenBackend(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize store", "engine", cfg.Store.Engine, "error", err)
		return handler.ExitInternal
	}
	store := repository.NewStore(backend, logger)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	mediaStorage, err := openMediaStorage(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize media storage", "backend", cfg.Media.Backend, "error", err)
		return handler.ExitInternal
	}

	source, err := random.NewSeededSource()
	if err != nil {
		logger.Error("failed to seed random source", "error", err)
		return handler.ExitInternal
	}

	session := service.NewSession(store, events.NewBus(), source, logger)
	if err := session.Load(ctx); err != nil {
		logger.Error("failed to load session", "error", err)
		return handler.ExitInternal
	}
	media := service.NewMediaIntake(mediaStorage, cfg.Media.MaxSize, logger)

	logger.Debug("session ready",
		"version", buildVersion,
		"date", buildDate,
		"commit", buildCommit,
		"engine", cfg.Store.Engine,
		"media_backend", cfg.Media.Backend)

	app := router.New(session, media, os.Stdout, appVersion(), logger).Register()
	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("received interruption signal, stopping")
		}
		fmt.Fprintln(os.Stderr, err)
		return handler.ExitStatus(err)
	}
	return handler.ExitOK
}

func openMediaStorage(ctx context.Context, cfg *config.Config) (model.MediaStorage, error) {
	switch cfg.Media.Backend {
	case mediaBackendLocal, "":
		return local.New(cfg.Media.Dir)
	case mediaBackendMinio:
		return storage.Open(ctx, cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
}

func appVersion() string {
	return fmt.Sprintf("%s (built %s, commit %s)", buildVersion, buildDate, buildCommit)
}
