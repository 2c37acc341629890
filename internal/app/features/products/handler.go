// internal/app/features/products/handler.go
package products

import (
	productstore "github.com/dalemusser/careerhub/internal/app/store/products"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the product catalogue.
type Handler struct {
	Store *productstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store: productstore.New(db),
		Audit: audit,
		Log:   logger,
	}
}
