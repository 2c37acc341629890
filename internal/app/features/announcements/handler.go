// internal/app/features/announcements/handler.go
package announcements

import (
	announcementstore "github.com/dalemusser/careerhub/internal/app/store/announcements"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves site announcements and their engagement tracking.
type Handler struct {
	Store *announcementstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store: announcementstore.New(db),
		Audit: audit,
		Log:   logger,
	}
}
