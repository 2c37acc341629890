package enrollmentstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/crud"
	trainingstore "github.com/dalemusser/careerhub/internal/app/store/trainings"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/txn"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrAlreadyEnrolled is returned when the user already has an enrollment in the training.
var ErrAlreadyEnrolled = errors.New("user is already enrolled in this training")

// ErrFeedbackExists is returned when feedback was already submitted.
var ErrFeedbackExists = errors.New("feedback has already been submitted for this enrollment")

type Store struct {
	db        *mongo.Database
	c         *mongo.Collection
	trainings *trainingstore.Store
	log       *zap.Logger
}

// New creates an enrollment store. log receives the warning emitted when the
// deployment cannot run transactions.
func New(db *mongo.Database, log *zap.Logger) *Store {
	return &Store{
		db:        db,
		c:         db.Collection("enrollments"),
		trainings: trainingstore.New(db),
		log:       log,
	}
}

// Create inserts e and increments the training's enrollment counter in one
// transaction. Without transaction support the insert is undone when the
// counter update fails.
func (s *Store) Create(ctx context.Context, e models.Enrollment) (models.Enrollment, error) {
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	if e.Status == "" {
		e.Status = models.EnrollmentPending
	}
	if e.Payment.Status == "" {
		e.Payment.Status = models.PaymentPending
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = now
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.c.InsertOne(ctx, e); err != nil {
			if wafflemongo.IsDup(err) {
				return ErrAlreadyEnrolled
			}
			return err
		}
		if err := s.trainings.IncEnrollments(ctx, e.TrainingID, 1); err != nil {
			if !txn.Active(ctx) {
				if _, derr := s.c.DeleteOne(ctx, bson.M{"_id": e.ID}); derr != nil {
					return fmt.Errorf("increment enrollment count: %w (rollback failed: %v)", err, derr)
				}
			}
			return fmt.Errorf("increment enrollment count: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Enrollment{}, err
	}
	return e, nil
}

// Delete removes an enrollment and decrements its training's counter,
// floored at zero. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		var e models.Enrollment
		if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
			return err
		}
		if err := s.trainings.IncEnrollments(ctx, e.TrainingID, -1); err != nil {
			if !txn.Active(ctx) {
				if _, rerr := s.c.InsertOne(ctx, e); rerr != nil {
					return fmt.Errorf("decrement enrollment count: %w (restore failed: %v)", err, rerr)
				}
			}
			return fmt.Errorf("decrement enrollment count: %w", err)
		}
		return nil
	})
}

// GetByID loads an enrollment. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Enrollment, error) {
	return crud.Get[models.Enrollment](ctx, s.c, id)
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	UserID     *primitive.ObjectID
	TrainingID *primitive.ObjectID
	Status     string
	Payment    string
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.UserID != nil {
		q["user"] = *f.UserID
	}
	if f.TrainingID != nil {
		q["training"] = *f.TrainingID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Payment != "" {
		q["payment.status"] = f.Payment
	}
	return q
}

// List returns one page of enrollments and the total number of matches.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Page) ([]models.Enrollment, int64, error) {
	return crud.Page[models.Enrollment](ctx, s.c, f.query(), p, nil)
}

// Save writes e. The user and training of an enrollment never change.
func (s *Store) Save(ctx context.Context, e *models.Enrollment) error {
	now := time.Now().UTC()
	if err := crud.Save(ctx, s.c, e.ID, e, now, "user", "training", "enrolled_at"); err != nil {
		return err
	}
	e.UpdatedAt = now
	return nil
}

// SetFeedback stores fb once and folds its rating into the training's
// average. A second submission returns ErrFeedbackExists.
func (s *Store) SetFeedback(ctx context.Context, id primitive.ObjectID, fb models.Feedback) (*models.Enrollment, error) {
	now := time.Now().UTC()
	fb.SubmittedAt = &now
	var e models.Enrollment
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "feedback": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"feedback": fb, "updated_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, gerr := s.GetByID(ctx, id); gerr != nil {
			return nil, gerr
		}
		return nil, ErrFeedbackExists
	}
	if err != nil {
		return nil, err
	}
	if err := s.trainings.AddRating(ctx, e.TrainingID, fb.Rating); err != nil {
		s.log.Warn("failed to update training rating", zap.Error(err), zap.String("enrollment_id", id.Hex()))
	}
	return &e, nil
}

// IssueCertificate marks the certificate of a completed enrollment as issued
// with certID. An already issued certificate is left as is; the stored
// enrollment is returned either way.
func (s *Store) IssueCertificate(ctx context.Context, id primitive.ObjectID, certID, url string) (*models.Enrollment, error) {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "certificate.issued": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{
			"certificate": models.Certificate{Issued: true, IssuedAt: &now, CertificateID: certID, URL: url},
			"updated_at":  now,
		}},
	)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Summary is the aggregate returned by list?summary=true.
type Summary struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
	Revenue  float64          `json:"revenue"`
}

// Summarize counts enrollments by status and sums paid revenue.
func (s *Store) Summarize(ctx context.Context, f ListFilter) (Summary, error) {
	var out Summary
	var err error
	if out.ByStatus, err = crud.CountBy(ctx, s.c, f.query(), "status"); err != nil {
		return out, err
	}
	for _, n := range out.ByStatus {
		out.Total += n
	}
	out.Revenue, err = Revenue(ctx, s.db, f.query())
	return out, err
}

// Revenue sums payment.amount over the paid enrollments matching match. The
// paid condition always applies, whatever match says about payment.status.
func Revenue(ctx context.Context, db *mongo.Database, match bson.M) (float64, error) {
	m := bson.M{"payment.status": models.PaymentPaid}
	if len(match) > 0 {
		m = bson.M{"$and": bson.A{match, m}}
	}
	cur, err := db.Collection("enrollments").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: m}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$payment.amount"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var row struct {
		Total float64 `bson:"total"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return 0, err
		}
	}
	return row.Total, cur.Err()
}
