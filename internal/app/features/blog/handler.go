// internal/app/features/blog/handler.go
package blog

import (
	blogstore "github.com/dalemusser/careerhub/internal/app/store/blog"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves blog posts and their comment threads.
type Handler struct {
	Store *blogstore.Store
	Users *userstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store: blogstore.New(db),
		Users: userstore.New(db),
		Audit: audit,
		Log:   logger,
	}
}
