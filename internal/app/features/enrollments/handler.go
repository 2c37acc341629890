// internal/app/features/enrollments/handler.go
package enrollments

import (
	enrollmentstore "github.com/dalemusser/careerhub/internal/app/store/enrollments"
	trainingstore "github.com/dalemusser/careerhub/internal/app/store/trainings"
	userstore "github.com/dalemusser/careerhub/internal/app/store/users"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves enrollments. Learners see and act on their own enrollments;
// staff manage all of them.
type Handler struct {
	Store     *enrollmentstore.Store
	Trainings *trainingstore.Store
	Users     *userstore.Store
	Audit     *auditlog.Logger
	Log       *zap.Logger
}

// NewHandler constructs an enrollments Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:     enrollmentstore.New(db, logger),
		Trainings: trainingstore.New(db),
		Users:     userstore.New(db),
		Audit:     audit,
		Log:       logger,
	}
}
