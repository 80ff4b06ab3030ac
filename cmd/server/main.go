package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vehinfo/rc-backend/internal/api"
	mongorepo "github.com/vehinfo/rc-backend/internal/infrastructure/db/mongo"
	redisinfra "github.com/vehinfo/rc-backend/internal/infrastructure/db/redis"
	"github.com/vehinfo/rc-backend/internal/infrastructure/queue"
	"github.com/vehinfo/rc-backend/internal/pkg/config"
	"github.com/vehinfo/rc-backend/pkg/logger"
)

// @title        Vehicle RC Backend API
// @version      1.0
// @description  Prepaid vehicle registration and chassis lookup service with gateway top-ups.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	hitRepo := mongorepo.NewHitLogRepository(db)

	hits := queue.NewHitLogWriter(cfg.HitLogWorkers, hitRepo, log)
	hits.Start(ctx)

	pruner := queue.NewHitLogPruner(hitRepo, log)
	pruner.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, hits, hitRepo, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server startup failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// ensureIndexes creates the unique constraints and query indexes the
// repositories rely on. Failing here is fatal: without the order_id and
// user_id uniqueness guarantees the crediting path is not safe.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongorepo.NewAuthRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongorepo.NewBalanceRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongorepo.NewTransactionRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongorepo.NewHitLogRepository(db).EnsureIndexes(ctx)
}
