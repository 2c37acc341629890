// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/indexes"
	"github.com/dalemusser/careerhub/internal/app/system/ratelimit"
	"github.com/dalemusser/careerhub/internal/app/system/validators"
	"github.com/dalemusser/careerhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/cache"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectDB opens the Mongo client, the optional Redis content cache and the
// upload storage backend. Each connection respects coreCfg.DBConnectTimeout.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	connectCtx, cancel := context.WithTimeout(ctx, coreCfg.DBConnectTimeout)
	defer cancel()

	pool := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		pool.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		pool.MinPoolSize = appCfg.MongoMinPoolSize
	}
	client, err := wafflemongo.ConnectWithPool(connectCtx, appCfg.MongoURI, appCfg.MongoDatabase, pool)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", pool.MaxPoolSize),
		zap.Uint64("min_pool", pool.MinPoolSize))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Workers:       workers.NewRegistry(logger),
	}

	if appCfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		if err := rdb.Ping(connectCtx).Err(); err != nil {
			// Content reads fall back to Mongo while Redis is down.
			logger.Warn("redis unreachable at startup; content cache degraded",
				zap.String("addr", appCfg.RedisAddr), zap.Error(err))
		} else {
			logger.Info("connected to Redis", zap.String("addr", appCfg.RedisAddr))
		}
		deps.Redis = rdb
		deps.Cache = cache.NewRedis(rdb)
	} else {
		logger.Info("redis_addr not set; content cache disabled")
	}

	store, err := newStorage(appCfg)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	}
	deps.Storage = store
	logger.Info("upload storage ready",
		zap.String("type", appCfg.StorageType),
		zap.String("path", appCfg.StorageLocalPath))

	window := appCfg.LoginRateWindow
	if window <= 0 {
		window = 5 * time.Minute
	}
	limit := appCfg.LoginRateLimit
	if limit <= 0 {
		limit = 10
	}
	deps.LoginLimiter = ratelimit.NewLoginLimiter(limit, window)

	return deps, nil
}

func newStorage(appCfg AppConfig) (storage.Store, error) {
	switch appCfg.StorageType {
	case "memory":
		return storage.NewMemory(storage.MemoryConfig{BaseURL: appCfg.StorageLocalURL}), nil
	default:
		s, err := storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  appCfg.StorageLocalURL,
		})
		if err != nil {
			return nil, fmt.Errorf("local storage: %w", err)
		}
		return s, nil
	}
}

// EnsureSchema creates collections with their JSON-Schema validators, then
// the indexes. Both steps are idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return fmt.Errorf("ensure validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("collections, validators and indexes ensured")
	return nil
}
