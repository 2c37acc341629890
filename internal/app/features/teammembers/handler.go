// internal/app/features/teammembers/handler.go
package teammembers

import (
	teamstore "github.com/dalemusser/careerhub/internal/app/store/teammembers"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the team page members.
type Handler struct {
	Store *teamstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Store: teamstore.New(db), Audit: audit, Log: logger}
}
