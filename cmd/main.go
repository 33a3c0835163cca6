package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/mzhdanov/authd/internal/api"
	"github.com/mzhdanov/authd/internal/controller"
	"github.com/mzhdanov/authd/internal/migrations"
	"github.com/mzhdanov/authd/internal/service"
	"github.com/mzhdanov/authd/internal/storage"
	"github.com/mzhdanov/authd/internal/storage/postgres"
	redisstorage "github.com/mzhdanov/authd/internal/storage/redis"
	"github.com/mzhdanov/authd/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	db, dbCleanup, err := util.NewDBConnection(logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	if err := migrations.RunMigrations(db, logger); err != nil {
		logger.Fatal(zap.Error(err))
	}

	pgStorage := postgres.NewStorage(db)
	cleanupFuncs := []func(){dbCleanup}

	var sessions storage.SessionRepository = pgStorage
	if util.SessionStoreBackend() == "redis" {
		redisClient, redisCleanup, err := util.NewRedisClient(logger, util.NewRedisConfig())
		if err != nil {
			logger.Fatal(zap.Error(err))
		}
		sessions = redisstorage.NewSessionStorage(redisClient)
		cleanupFuncs = append(cleanupFuncs, redisCleanup)
	}

	tokenConfig := util.NewTokenConfig()
	codec := service.NewTokenCodec(tokenConfig)
	hasher := service.NewHasher(util.BcryptCost())

	authService := service.NewAuthService(pgStorage, sessions, codec, hasher, logger)
	guard := service.NewGuard(codec, sessions, hasher)

	ctrl := controller.NewController(logger, authService, guard, tokenConfig.RefreshCookieName)

	apiServer := api.NewAPI(ctrl, logger, util.NewServerConfig(), cleanupFuncs)
	apiServer.Run(ctx)
}
