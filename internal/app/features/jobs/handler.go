// internal/app/features/jobs/handler.go
package jobs

import (
	"github.com/dalemusser/careerhub/internal/app/features/applications"
	jobstore "github.com/dalemusser/careerhub/internal/app/store/jobs"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves job postings.
type Handler struct {
	Store        *jobstore.Store
	Applications *applications.JobHandler
	Audit        *auditlog.Logger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:        jobstore.New(db),
		Applications: applications.NewJobs(db, audit, logger),
		Audit:        audit,
		Log:          logger,
	}
}
