// Package main boots the catalogd HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storebase/catalog/pkg/blob"
	"github.com/storebase/catalog/pkg/cache"
	"github.com/storebase/catalog/pkg/catalog"
	"github.com/storebase/catalog/pkg/config"
	"github.com/storebase/catalog/pkg/logging"
	"github.com/storebase/catalog/pkg/store"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		bootLogger := logging.NewLogger("main")
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Setup(logging.Config{Level: logging.LogLevel(cfg.LogLevel), Pretty: cfg.LogPretty})
	logger := logging.NewLogger("main")
	logger.Info().Msgf("configuration loaded:%s", cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongo")
	}
	logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to mongo")

	coll := mongoClient.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
	products := store.NewMongo(coll, store.DefaultRetryConfig())

	photos, err := blob.NewMinIO(blob.MinIOConfig{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create blob store")
	}

	svc, err := catalog.New(catalog.Config{
		Store:    products,
		Blob:     photos,
		Cache:    cache.NewStore(),
		PageSize: cfg.PageSize,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create catalog service")
	}

	srv := &http.Server{
		Addr:              cfg.AppAddr,
		Handler:           newMux(svc),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.AppAddr).Msg("catalogd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logger.Info().Str("signal", sig.String()).Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("mongo disconnect failed")
	}
	logger.Info().Msg("catalogd stopped")
}
