// internal/app/features/internships/handler.go
package internships

import (
	"github.com/dalemusser/careerhub/internal/app/features/applications"
	internshipstore "github.com/dalemusser/careerhub/internal/app/store/internships"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves internship postings.
type Handler struct {
	Store        *internshipstore.Store
	Applications *applications.InternshipHandler
	Audit        *auditlog.Logger
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:        internshipstore.New(db),
		Applications: applications.NewInternships(db, audit, logger),
		Audit:        audit,
		Log:          logger,
	}
}
