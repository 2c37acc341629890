// internal/app/features/trainings/handler.go
package trainings

import (
	trainingstore "github.com/dalemusser/careerhub/internal/app/store/trainings"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the training catalogue.
type Handler struct {
	Store *trainingstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewHandler constructs a trainings Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store: trainingstore.New(db),
		Audit: audit,
		Log:   logger,
	}
}
