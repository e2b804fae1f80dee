package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/woopit/woopit-server/internal/app"
	"github.com/woopit/woopit-server/internal/cache"
	"github.com/woopit/woopit-server/internal/config"
	"github.com/woopit/woopit-server/internal/db"
	"github.com/woopit/woopit-server/internal/logger"
	"github.com/woopit/woopit-server/internal/server"
	"github.com/woopit/woopit-server/internal/service/auth"
	"github.com/woopit/woopit-server/internal/service/match"
	"github.com/woopit/woopit-server/internal/service/user"
	"github.com/woopit/woopit-server/internal/service/woop"
)

func main() {
	_ = godotenv.Load()
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log, cfg)

	if err := db.SeedActivities(database); err != nil {
		log.Error("failed to seed activities", "err", err)
		return
	}
	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed demo data", "err", err)
		}
	}

	registrars := []server.Registrar{
		auth.NewRegistrar(appCtx),
		user.NewRegistrar(appCtx),
		woop.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
