package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-novaform/internal/config"
	"github.com/goliatone/go-novaform/internal/logging"
	"github.com/goliatone/go-novaform/internal/server"
	"github.com/goliatone/go-novaform/pkg/demo"
	"github.com/goliatone/go-novaform/pkg/pdfgen"
	"github.com/goliatone/go-novaform/pkg/storage"
	"github.com/goliatone/go-novaform/pkg/submission"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(2)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
	logger.Info().Msg("server exited")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().Str("config", cfg.String()).Msg("starting novaform server")

	view, err := demo.NewView()
	if err != nil {
		return fmt.Errorf("build view: %w", err)
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}

	generator, err := pdfgen.New(view, store)
	if err != nil {
		return fmt.Errorf("pdf generator: %w", err)
	}

	handler, err := submission.NewHandler(generator,
		submission.WithLogger(logger.With().Str("component", "submission").Logger()),
	)
	if err != nil {
		return fmt.Errorf("submission handler: %w", err)
	}

	srv, err := server.New(view, handler, store,
		server.WithLogger(logger.With().Str("component", "http").Logger()),
		server.WithBaseURL(cfg.BaseURL),
		server.WithDefaultLocale(cfg.DefaultLocale),
		server.WithCORSOrigins(cfg.CORSOrigins...),
		server.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout),
		server.WithShutdownGrace(cfg.ShutdownGrace),
	)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	return srv.Run(ctx, cfg.Address())
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage {
	case config.StorageS3:
		client, err := storage.NewS3Client(ctx, storage.S3Config{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		store, err := storage.NewS3Store(client, cfg.S3.Bucket, storage.WithPrefix(cfg.S3.Prefix))
		if err != nil {
			return nil, fmt.Errorf("s3 store: %w", err)
		}
		return store, nil
	default:
		store, err := storage.NewFileStore(cfg.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
		return store, nil
	}
}
