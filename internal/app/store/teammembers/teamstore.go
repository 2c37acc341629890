package teamstore

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
)

// Collection is the team members collection name.
const Collection = "team_members"

// displayOrder lists members by their configured order, then by name.
var displayOrder = bson.D{{Key: "order", Value: 1}, {Key: "name_ci", Value: 1}}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func prepare(m *models.TeamMember) {
	m.Name = normalize.Name(m.Name)
	m.NameCI = text.Fold(m.Name)
	m.Position = normalize.Name(m.Position)
	m.Email = normalize.Email(m.Email)
}

// Create inserts a team member.
func (s *Store) Create(ctx context.Context, m models.TeamMember) (models.TeamMember, error) {
	prepare(&m)
	m.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.TeamMember{}, err
	}
	return m, nil
}

// GetByID loads a team member. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.TeamMember, error) {
	return crud.Get[models.TeamMember](ctx, s.c, id)
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Search     string
	Department string
	Active     *bool
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	search.Apply(q, f.Search, "name", "position", "department")
	if f.Department != "" {
		q["department"] = f.Department
	}
	if f.Active != nil {
		if *f.Active {
			q["active"] = bson.M{"$ne": false}
		} else {
			q["active"] = false
		}
	}
	return q
}

// List returns one page of team members in display order and the total
// number of matches.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Page) ([]models.TeamMember, int64, error) {
	return crud.Page[models.TeamMember](ctx, s.c, f.query(), p, displayOrder)
}

// Save writes m.
func (s *Store) Save(ctx context.Context, m *models.TeamMember) error {
	prepare(m)
	now := time.Now().UTC()
	if err := crud.Save(ctx, s.c, m.ID, m, now); err != nil {
		return err
	}
	m.UpdatedAt = now
	return nil
}

// Delete removes a team member. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return crud.Delete(ctx, s.c, id)
}

// Summary is the aggregate returned by list?summary=true.
type Summary struct {
	Total        int64            `json:"total"`
	Active       int64            `json:"active"`
	ByDepartment map[string]int64 `json:"byDepartment"`
}

// Summarize counts team members overall, active and by department.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var out Summary
	var err error
	if out.ByDepartment, err = crud.CountBy(ctx, s.c, nil, "department"); err != nil {
		return out, err
	}
	for _, n := range out.ByDepartment {
		out.Total += n
	}
	out.Active, err = s.c.CountDocuments(ctx, bson.M{"active": bson.M{"$ne": false}})
	return out, err
}
