package main

import (
	"context"
	"fmt"
	"os"

	"iambic/config"
	"iambic/httpapi"
	"iambic/iambic"
	"iambic/iambic/inmemoryimpl"
	"iambic/iambic/mongoimpl"
	"iambic/iambic/redisimpl"
	"iambic/iambic/sqliteimpl"
	"iambic/logger"

	"github.com/redis/go-redis/v9"
)

func newManager(ctx context.Context, cfg *config.Server) (iambic.Manager, error) {
	switch cfg.StorageMode {
	case "inmemory":
		return inmemoryimpl.NewInMemoryManager(), nil
	case "sqlite":
		return sqliteimpl.NewSQLiteManager(ctx, cfg.SQLite.Path)
	case "mongo":
		return mongoimpl.NewMongoManager(ctx, cfg.Mongo.URL, cfg.Mongo.DBName)
	case "cached":
		mongoManager, err := mongoimpl.NewMongoManager(ctx, cfg.Mongo.URL, cfg.Mongo.DBName)
		if err != nil {
			return nil, err
		}
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		return redisimpl.NewRedisManager(redisClient, mongoManager), nil
	}
	return nil, fmt.Errorf("unknown storage mode %q", cfg.StorageMode)
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Initialize(cfg.LogLevel, cfg.LogJSON)

	checker := iambic.NewValidator()
	if err := checker.LoadFile(cfg.DictionaryPath); err != nil {
		logger.Log.Error("failed to load dictionary", "path", cfg.DictionaryPath, "error", err)
		os.Exit(1)
	}
	logger.Log.Info("dictionary loaded", "words", checker.Len())

	manager, err := newManager(ctx, cfg)
	if err != nil {
		logger.Log.Error("failed to create storage", "mode", cfg.StorageMode, "error", err)
		os.Exit(1)
	}

	srv := httpapi.NewServer(manager, checker, httpapi.Options{
		Addr:           cfg.Addr,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	logger.Log.Info("starting server", "addr", cfg.Addr, "storage", cfg.StorageMode)
	err = srv.ListenAndServe()
	logger.Log.Error("server stopped", "error", err)
	os.Exit(1)
}
