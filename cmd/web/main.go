package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/config"
	apphttp "github.com/jdevop33/hockey-pouches-sub002/internal/http"
	"github.com/jdevop33/hockey-pouches-sub002/internal/idempotency"
	"github.com/jdevop33/hockey-pouches-sub002/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	configDir := os.Getenv("POUCH_CONFIG_DIR")
	if configDir == "" {
		configDir = "configs"
	}
	envName := os.Getenv("POUCH_ENV")
	if envName == "" {
		envName = "dev"
	}

	cfg, err := config.Load(configDir, envName)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.App.LogLevel),
	}))

	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		if cfg.MySQL.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
		}
		if cfg.MySQL.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		}
		if cfg.MySQL.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
		}
	}

	var idemp *idempotency.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, checkout idempotency disabled", "addr", cfg.Redis.Addr, "err", err)
		} else {
			idemp = idempotency.NewStore(rdb, cfg.Checkout.IdempotencyTTL)
		}
		cancel()
	}

	store, err := newStorage(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	r := apphttp.NewRouter(logger, db, cfg, idemp, store)

	logger.Info("listening", "addr", cfg.App.HTTPAddr)
	if err := r.Run(cfg.App.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func newStorage(cfg config.Config) (storage.Storage, error) {
	if cfg.Storage.Driver == "s3" {
		return storage.NewS3(context.Background(), storage.S3Config{
			Region:        cfg.Storage.S3Region,
			Bucket:        cfg.Storage.S3Bucket,
			Prefix:        cfg.Storage.S3Prefix,
			PublicBaseURL: cfg.Storage.S3PublicBase,
		})
	}
	return storage.NewLocal(cfg.Storage.LocalDir, cfg.Storage.LocalURLBase), nil
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
