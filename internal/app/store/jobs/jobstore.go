package jobstore

import (
	"context"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/crud"
	"github.com/dalemusser/careerhub/internal/app/store/postings"
	"github.com/dalemusser/careerhub/internal/app/system/normalize"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the jobs collection name.
const Collection = "jobs"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Collection exposes the underlying collection to the application store.
func (s *Store) Collection() *mongo.Collection { return s.c }

func prepare(j *models.Job, now time.Time) {
	j.Title = normalize.Name(j.Title)
	j.TitleCI = text.Fold(j.Title)
	j.Department = normalize.Name(j.Department)
	j.Location = normalize.Name(j.Location)
	j.Requirements = normalize.List(j.Requirements)
	j.Responsibilities = normalize.List(j.Responsibilities)
	j.Skills = normalize.Tags(j.Skills)
	if j.Skills == nil {
		j.Skills = []string{}
	}
	j.Benefits = normalize.List(j.Benefits)
	if j.Salary.Currency == "" {
		j.Salary.Currency = "USD"
	}
	if j.Salary.Period == "" {
		j.Salary.Period = "yearly"
	}
	if j.Status == "" {
		j.Status = models.PostingDraft
	}
	j.Status = j.EffectiveStatus(now)
}

// Create inserts a job. Counters start at zero whatever the caller set.
func (s *Store) Create(ctx context.Context, j models.Job) (models.Job, error) {
	now := time.Now().UTC()
	j.ID = primitive.NewObjectID()
	j.ApplicationCount = 0
	j.ViewCount = 0
	prepare(&j, now)
	j.CreatedAt = now
	j.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, j); err != nil {
		return models.Job{}, err
	}
	return j, nil
}

// GetByID loads a job. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Job, error) {
	return crud.Get[models.Job](ctx, s.c, id)
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	postings.Filter
	EmploymentType  string
	ExperienceLevel string
	Remote          *bool
	Sort            bson.D
}

func (f ListFilter) query() bson.M {
	q := f.Filter.Query()
	if f.EmploymentType != "" {
		q["employment_type"] = f.EmploymentType
	}
	if f.ExperienceLevel != "" {
		q["experience_level"] = f.ExperienceLevel
	}
	if f.Remote != nil {
		q["remote"] = *f.Remote
	}
	return q
}

// List returns one page of jobs and the total number of matches.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Page) ([]models.Job, int64, error) {
	return crud.Page[models.Job](ctx, s.c, f.query(), p, f.Sort)
}

// Save writes the editable fields of j, applying the automatic status.
// Application and view counters are never overwritten.
func (s *Store) Save(ctx context.Context, j *models.Job) error {
	now := time.Now().UTC()
	prepare(j, now)
	if err := crud.Save(ctx, s.c, j.ID, j, now, "application_count", "view_count", "created_by"); err != nil {
		return err
	}
	j.UpdatedAt = now
	return nil
}

// Delete removes a job. Its applications are kept.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return crud.Delete(ctx, s.c, id)
}

// IncViews adds one to the view counter.
func (s *Store) IncViews(ctx context.Context, id primitive.ObjectID) error {
	return crud.Inc(ctx, s.c, id, "view_count", 1)
}

// SweepStatuses implements workers.Sweeper.
func (s *Store) SweepStatuses(ctx context.Context, now time.Time) (closed, filled int64, err error) {
	return postings.Sweep(ctx, s.c, now)
}

// Refs loads the populated form of the jobs in ids, keyed by id.
func (s *Store) Refs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PostingRef, error) {
	out := make(map[primitive.ObjectID]models.PostingRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"title": 1, "department": 1, "location": 1, "status": 1})
	items, err := crud.Find[models.Job](ctx, s.c, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	for i := range items {
		out[items[i].ID] = items[i].Ref()
	}
	return out, nil
}

// Summarize counts jobs by status and department.
func (s *Store) Summarize(ctx context.Context) (postings.Summary, error) {
	return postings.Summarize(ctx, s.c)
}
