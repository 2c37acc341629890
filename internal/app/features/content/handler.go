// internal/app/features/content/handler.go
package content

import (
	"time"

	contentstore "github.com/dalemusser/careerhub/internal/app/store/content"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/pantry/cache"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the editable website content.
type Handler struct {
	Store *contentstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewHandler builds the handler. c may be nil to read straight from Mongo.
func NewHandler(db *mongo.Database, c cache.Cache, ttl time.Duration, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Store: contentstore.New(db, c, ttl), Audit: audit, Log: logger}
}
