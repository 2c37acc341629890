// internal/app/features/applications/handler.go
package applications

import (
	"context"
	"net/http"

	applicationstore "github.com/dalemusser/careerhub/internal/app/store/applications"
	internshipstore "github.com/dalemusser/careerhub/internal/app/store/internships"
	jobstore "github.com/dalemusser/careerhub/internal/app/store/jobs"
	"github.com/dalemusser/careerhub/internal/app/system/auditlog"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// submission is the pointer side of an application model.
type submission[A any] interface {
	*A
	models.Submission
}

// kind describes what differs between job and internship applications.
type kind[A any] struct {
	// Name is the posting kind ("Job", "Internship") used in messages.
	Name string
	// Resource is the audit resource name.
	Resource string
	// Refs populates postings by id.
	Refs func(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PostingRef, error)
	// Decode binds and validates a public submission.
	Decode func(r *http.Request) (A, error)
	// View pairs an application with its populated posting.
	View func(a A, posting *models.PostingRef) interface{}
	// Headers and Row describe the export columns.
	Headers []string
	Row     func(a A, posting *models.PostingRef) []string
}

// Handler serves one kind of application.
type Handler[A any, P submission[A]] struct {
	Store *applicationstore.Store[A, P]
	Kind  kind[A]
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// JobHandler serves job applications.
type JobHandler = Handler[models.JobApplication, *models.JobApplication]

// InternshipHandler serves internship applications.
type InternshipHandler = Handler[models.InternshipApplication, *models.InternshipApplication]

// NewJobs constructs the job applications Handler.
func NewJobs(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		Store: applicationstore.NewJobs(db, logger),
		Kind:  jobKind(jobstore.New(db)),
		Audit: audit,
		Log:   logger,
	}
}

// NewInternships constructs the internship applications Handler.
func NewInternships(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *InternshipHandler {
	return &InternshipHandler{
		Store: applicationstore.NewInternships(db, logger),
		Kind:  internshipKind(internshipstore.New(db)),
		Audit: audit,
		Log:   logger,
	}
}
