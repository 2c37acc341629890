// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/careerhub/internal/app/system/ratelimit"
	"github.com/dalemusser/careerhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/pantry/cache"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil when redis_addr is blank; Cache is then nil too and
	// content reads go straight to Mongo.
	Redis redis.UniversalClient
	Cache cache.Cache

	Storage storage.Store

	// Created in ConnectDB; Startup and Shutdown drive them.
	Workers      *workers.Registry
	LoginLimiter *ratelimit.LoginLimiter
}
