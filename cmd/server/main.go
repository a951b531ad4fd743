package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/oggyb/amigo-matching/internal/app"
	"github.com/oggyb/amigo-matching/internal/cache"
	"github.com/oggyb/amigo-matching/internal/config"
	"github.com/oggyb/amigo-matching/internal/db"
	"github.com/oggyb/amigo-matching/internal/logger"
	"github.com/oggyb/amigo-matching/internal/server"
	"github.com/oggyb/amigo-matching/internal/service/matching"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	lg := logger.L() // slog.Logger pointer

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		lg.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		lg.Error("failed to connect to redis", "err", err)
		os.Exit(1)
	}

	// Inject logger into app context
	appCtx := app.New(database, redisCache, lg, cfg.Premium)

	registrars := []server.Registrar{
		matching.NewRegistrar(appCtx),
	}

	if cfg.IsDevelopment() {
		if err := db.SeedTestData(database); err != nil {
			lg.Error("failed to seed", "err", err)
		}
	}

	lg.Info("starting gRPC server", "host", cfg.GRPC.Host, "port", cfg.GRPC.Port, "db_driver", cfg.DB.Driver)

	if err := server.StartGRPCServer(ctx, cfg, lg, registrars...); err != nil {
		lg.Error("gRPC server stopped with error", "err", err)
		os.Exit(1)
	}
	lg.Info("gRPC server stopped")
}
