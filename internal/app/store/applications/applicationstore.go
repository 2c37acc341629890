// Package applicationstore stores job and internship applications. Both
// kinds share one generic Store; they differ only in collection, parent
// collection and parent field.
package applicationstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/crud"
	"github.com/dalemusser/careerhub/internal/app/store/postings"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/search"
	"github.com/dalemusser/careerhub/internal/app/system/txn"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrAlreadyApplied is returned when the email has already applied to the posting.
var ErrAlreadyApplied = errors.New("an application with this email already exists for this posting")

// Store manages the applications of one posting kind. A is the application
// model and P its pointer type.
type Store[A any, P interface {
	*A
	models.Submission
}] struct {
	db          *mongo.Database
	c           *mongo.Collection
	postings    *mongo.Collection
	parentField string
	log         *zap.Logger
}

// JobStore stores job applications.
type JobStore = Store[models.JobApplication, *models.JobApplication]

// InternshipStore stores internship applications.
type InternshipStore = Store[models.InternshipApplication, *models.InternshipApplication]

// NewJobs creates the job application store.
func NewJobs(db *mongo.Database, log *zap.Logger) *JobStore {
	return &JobStore{
		db:          db,
		c:           db.Collection("job_applications"),
		postings:    db.Collection("jobs"),
		parentField: "job",
		log:         log,
	}
}

// NewInternships creates the internship application store.
func NewInternships(db *mongo.Database, log *zap.Logger) *InternshipStore {
	return &InternshipStore{
		db:          db,
		c:           db.Collection("internship_applications"),
		postings:    db.Collection("internships"),
		parentField: "internship",
		log:         log,
	}
}

// Create submits a. In one transaction it checks that the posting accepts
// applications, inserts a and increments the posting's counter (marking it
// Filled at capacity). Without transaction support the insert is undone when
// the counter update fails.
//
// Returns mongo.ErrNoDocuments when the posting does not exist,
// postings.ErrNotAcceptingApplications when it is not effectively Active and
// ErrAlreadyApplied on a duplicate (posting, email).
func (s *Store[A, P]) Create(ctx context.Context, a A) (A, error) {
	now := time.Now().UTC()
	p := P(&a)
	id := p.Submit(now)
	posting := p.Posting()

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if err := postings.CheckAccepting(ctx, s.postings, posting, now); err != nil {
			return err
		}
		if _, err := s.c.InsertOne(ctx, a); err != nil {
			if wafflemongo.IsDup(err) {
				return ErrAlreadyApplied
			}
			return err
		}
		if err := postings.IncApplications(ctx, s.postings, posting, 1); err != nil {
			if !txn.Active(ctx) {
				if _, derr := s.c.DeleteOne(ctx, bson.M{"_id": id}); derr != nil {
					return fmt.Errorf("increment application count: %w (rollback failed: %v)", err, derr)
				}
			}
			return fmt.Errorf("increment application count: %w", err)
		}
		return nil
	})
	if err != nil {
		var zero A
		return zero, err
	}
	return a, nil
}

// Delete removes an application and decrements its posting's counter,
// floored at zero. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store[A, P]) Delete(ctx context.Context, id primitive.ObjectID) error {
	return txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		var a A
		if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
			return err
		}
		err := postings.IncApplications(ctx, s.postings, P(&a).Posting(), -1)
		if errors.Is(err, mongo.ErrNoDocuments) {
			// the posting is already gone
			return nil
		}
		if err != nil {
			if !txn.Active(ctx) {
				if _, rerr := s.c.InsertOne(ctx, a); rerr != nil {
					return fmt.Errorf("decrement application count: %w (restore failed: %v)", err, rerr)
				}
			}
			return fmt.Errorf("decrement application count: %w", err)
		}
		return nil
	})
}

// GetByID loads an application. Returns mongo.ErrNoDocuments if not found.
func (s *Store[A, P]) GetByID(ctx context.Context, id primitive.ObjectID) (*A, error) {
	return crud.Get[A](ctx, s.c, id)
}

// Filter narrows List and All. Zero values match everything.
type Filter struct {
	Posting *primitive.ObjectID
	Status  string
	Search  string
}

func (s *Store[A, P]) query(f Filter) bson.M {
	q := bson.M{}
	search.Apply(q, f.Search, "applicant.name", "applicant.email")
	if f.Posting != nil {
		q[s.parentField] = *f.Posting
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	return q
}

// List returns one page of applications and the total number of matches.
func (s *Store[A, P]) List(ctx context.Context, f Filter, p paging.Page) ([]A, int64, error) {
	return crud.Page[A](ctx, s.c, s.query(f), p, nil)
}

// All returns every application matching f, newest first, for export.
func (s *Store[A, P]) All(ctx context.Context, f Filter) ([]A, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return crud.Find[A](ctx, s.c, s.query(f), opts)
}

func (s *Store[A, P]) update(ctx context.Context, id primitive.ObjectID, update interface{}) (*A, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out A
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// reviewed stamps the reviewer unless the application was already reviewed.
func reviewed(set bson.M, by primitive.ObjectID, now time.Time) {
	set["reviewed_at"] = bson.M{"$ifNull": bson.A{"$reviewed_at", now}}
	set["reviewed_by"] = bson.M{"$ifNull": bson.A{"$reviewed_by", by}}
}

// SetStatus changes the status of an application. The first move away from
// Submitted records when and by whom it was reviewed.
func (s *Store[A, P]) SetStatus(ctx context.Context, id primitive.ObjectID, status string, by primitive.ObjectID) (*A, error) {
	now := time.Now().UTC()
	set := bson.M{"status": bson.M{"$literal": status}, "updated_at": now}
	if status != models.AppSubmitted {
		reviewed(set, by, now)
	}
	return s.update(ctx, id, mongo.Pipeline{{{Key: "$set", Value: set}}})
}

// Rate sets the reviewer rating (1..5).
func (s *Store[A, P]) Rate(ctx context.Context, id primitive.ObjectID, rating int) (*A, error) {
	return s.update(ctx, id, bson.M{"$set": bson.M{"rating": rating, "updated_at": time.Now().UTC()}})
}

// AddNote appends a reviewer note.
func (s *Store[A, P]) AddNote(ctx context.Context, id primitive.ObjectID, note models.ReviewNote) (*A, error) {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	return s.update(ctx, id, bson.M{
		"$push": bson.M{"notes": note},
		"$set":  bson.M{"updated_at": note.CreatedAt},
	})
}

// ScheduleInterview records the interview and moves the application to
// Interview Scheduled.
func (s *Store[A, P]) ScheduleInterview(ctx context.Context, id primitive.ObjectID, iv models.Interview, by primitive.ObjectID) (*A, error) {
	now := time.Now().UTC()
	raw, err := bson.Marshal(iv)
	if err != nil {
		return nil, err
	}
	set := bson.M{
		"interview":  bson.M{"$literal": bson.Raw(raw)},
		"status":     bson.M{"$literal": models.AppInterviewScheduled},
		"updated_at": now,
	}
	reviewed(set, by, now)
	return s.update(ctx, id, mongo.Pipeline{{{Key: "$set", Value: set}}})
}

// Summary is the aggregate returned by list?summary=true.
type Summary struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}

// Summarize counts the applications matching f by status.
func (s *Store[A, P]) Summarize(ctx context.Context, f Filter) (Summary, error) {
	var out Summary
	var err error
	if out.ByStatus, err = crud.CountBy(ctx, s.c, s.query(f), "status"); err != nil {
		return out, err
	}
	for _, n := range out.ByStatus {
		out.Total += n
	}
	return out, nil
}
