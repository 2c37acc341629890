package trainingstore

import (
	"context"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/crud"
	"github.com/dalemusser/careerhub/internal/app/system/normalize"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/search"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the trainings collection name.
const Collection = "trainings"

// SortFields are the public sort keys accepted by List.
var SortFields = map[string]string{
	"price":      "price",
	"title":      "title_ci",
	"rating":     "rating.average",
	"popular":    "enrollment_count",
	"start":      "start_date",
	"created_at": "created_at",
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func prepare(t *models.Training) {
	t.Title = normalize.Name(t.Title)
	t.TitleCI = text.Fold(t.Title)
	if t.Currency == "" {
		t.Currency = "USD"
	}
	t.Tags = normalize.Tags(t.Tags)
	t.Curriculum = models.SortCurriculum(t.Curriculum)
}

// Create inserts a training. Counters start at zero whatever the caller set.
func (s *Store) Create(ctx context.Context, t models.Training) (models.Training, error) {
	prepare(&t)
	t.ID = primitive.NewObjectID()
	t.EnrollmentCount = 0
	t.Rating = models.Rating{}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Training{}, err
	}
	return t, nil
}

// GetByID loads a training. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Training, error) {
	return crud.Get[models.Training](ctx, s.c, id)
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Search   string
	Category string
	Level    string
	Active   *bool
	Featured *bool
	Sort     bson.D
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	search.Apply(q, f.Search, "title", "description", "instructor.name", "tags")
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Level != "" {
		q["level"] = f.Level
	}
	if f.Active != nil {
		if *f.Active {
			q["active"] = bson.M{"$ne": false}
		} else {
			q["active"] = false
		}
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}
	return q
}

// List returns one page of trainings and the total number of matches.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Page) ([]models.Training, int64, error) {
	return crud.Page[models.Training](ctx, s.c, f.query(), p, f.Sort)
}

// Save writes the editable fields of t. Enrollment count and rating are
// maintained by enrollments and are never overwritten here.
func (s *Store) Save(ctx context.Context, t *models.Training) error {
	prepare(t)
	now := time.Now().UTC()
	if err := crud.Save(ctx, s.c, t.ID, t, now, "enrollment_count", "rating", "created_by"); err != nil {
		return err
	}
	t.UpdatedAt = now
	return nil
}

// Delete removes a training. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return crud.Delete(ctx, s.c, id)
}

// IncEnrollments adds delta to the enrollment counter. A decrement never
// takes the counter below zero; it is a no-op on a zero counter.
func (s *Store) IncEnrollments(ctx context.Context, id primitive.ObjectID, delta int) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["enrollment_count"] = bson.M{"$gt": 0}
	}
	_, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"enrollment_count": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// AddRating folds one 1..5 rating into the running average.
func (s *Store) AddRating(ctx context.Context, id primitive.ObjectID, rating int) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"rating.average": bson.M{"$round": bson.A{
				bson.M{"$divide": bson.A{
					bson.M{"$add": bson.A{
						bson.M{"$multiply": bson.A{
							bson.M{"$ifNull": bson.A{"$rating.average", 0}},
							bson.M{"$ifNull": bson.A{"$rating.count", 0}},
						}},
						rating,
					}},
					bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$rating.count", 0}}, 1}},
				}},
				1,
			}},
			"rating.count": bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$rating.count", 0}}, 1}},
		}}},
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Refs loads the populated form of the trainings in ids, keyed by id.
// Missing ids are absent from the map.
func (s *Store) Refs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.TrainingRef, error) {
	out := make(map[primitive.ObjectID]models.TrainingRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"title": 1, "category": 1, "level": 1})
	items, err := crud.Find[models.Training](ctx, s.c, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	for i := range items {
		out[items[i].ID] = items[i].Ref()
	}
	return out, nil
}

// Summary is the aggregate returned by list?summary=true.
type Summary struct {
	Total      int64            `json:"total"`
	Active     int64            `json:"active"`
	Featured   int64            `json:"featured"`
	ByCategory map[string]int64 `json:"byCategory"`
	ByLevel    map[string]int64 `json:"byLevel"`
}

// Summarize counts trainings overall, active, featured, by category and by level.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var out Summary
	var err error
	if out.ByCategory, err = crud.CountBy(ctx, s.c, nil, "category"); err != nil {
		return out, err
	}
	if out.ByLevel, err = crud.CountBy(ctx, s.c, nil, "level"); err != nil {
		return out, err
	}
	for _, n := range out.ByCategory {
		out.Total += n
	}
	if out.Active, err = s.c.CountDocuments(ctx, bson.M{"active": bson.M{"$ne": false}}); err != nil {
		return out, err
	}
	if out.Featured, err = s.c.CountDocuments(ctx, bson.M{"featured": true}); err != nil {
		return out, err
	}
	return out, nil
}
