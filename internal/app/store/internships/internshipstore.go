package internshipstore

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

// Collection is the internships collection name.
const Collection = "internships"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Collection exposes the underlying collection to the application store.
func (s *Store) Collection() *mongo.Collection { return s.c }

func prepare(in *models.Internship, now time.Time) {
	in.Title = normalize.Name(in.Title)
	in.TitleCI = text.Fold(in.Title)
	in.Department = normalize.Name(in.Department)
	in.Location = normalize.Name(in.Location)
	in.Eligibility = normalize.List(in.Eligibility)
	in.Requirements = normalize.List(in.Requirements)
	in.Responsibilities = normalize.List(in.Responsibilities)
	in.Skills = normalize.Tags(in.Skills)
	if in.Skills == nil {
		in.Skills = []string{}
	}
	in.Benefits = normalize.List(in.Benefits)
	if in.Stipend.Type != "unpaid" && in.Stipend.Currency == "" {
		in.Stipend.Currency = "USD"
	}
	if in.Status == "" {
		in.Status = models.PostingDraft
	}
	in.Status = in.EffectiveStatus(now)
}

// Create inserts an internship. Counters start at zero whatever the caller set.
func (s *Store) Create(ctx context.Context, in models.Internship) (models.Internship, error) {
	now := time.Now().UTC()
	in.ID = primitive.NewObjectID()
	in.ApplicationCount = 0
	in.ViewCount = 0
	prepare(&in, now)
	in.CreatedAt = now
	in.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, in); err != nil {
		return models.Internship{}, err
	}
	return in, nil
}

// GetByID loads an internship. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Internship, error) {
	return crud.Get[models.Internship](ctx, s.c, id)
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	postings.Filter
	Mode        string
	StipendType string
	Sort        bson.D
}

func (f ListFilter) query() bson.M {
	q := f.Filter.Query()
	if f.Mode != "" {
		q["mode"] = f.Mode
	}
	if f.StipendType != "" {
		q["stipend.type"] = f.StipendType
	}
	return q
}

// List returns one page of internships and the total number of matches.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Page) ([]models.Internship, int64, error) {
	return crud.Page[models.Internship](ctx, s.c, f.query(), p, f.Sort)
}

// Save writes the editable fields of in, applying the automatic status.
func (s *Store) Save(ctx context.Context, in *models.Internship) error {
	now := time.Now().UTC()
	prepare(in, now)
	if err := crud.Save(ctx, s.c, in.ID, in, now, "application_count", "view_count", "created_by"); err != nil {
		return err
	}
	in.UpdatedAt = now
	return nil
}

// Delete removes an internship. Its applications are kept.
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

// Refs loads the populated form of the internships in ids, keyed by id.
func (s *Store) Refs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.PostingRef, error) {
	out := make(map[primitive.ObjectID]models.PostingRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"title": 1, "department": 1, "location": 1, "status": 1})
	items, err := crud.Find[models.Internship](ctx, s.c, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	for i := range items {
		out[items[i].ID] = items[i].Ref()
	}
	return out, nil
}

// Summarize counts internships by status and department.
func (s *Store) Summarize(ctx context.Context) (postings.Summary, error) {
	return postings.Summarize(ctx, s.c)
}
