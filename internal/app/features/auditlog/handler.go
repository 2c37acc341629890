// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/dalemusser/careerhub/internal/app/store/audit"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the audit log to administrators.
type Handler struct {
	Store *audit.Store
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Store: audit.New(db), Users: userstore.New(db), Log: logger}
}
