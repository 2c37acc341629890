package productstore

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

// SortFields are the public sort keys accepted by List.
var SortFields = map[string]string{
	"price":      "price",
	"name":       "name_ci",
	"sales":      "sales_count",
	"created_at": "created_at",
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("products")}
}

func prepare(p *models.Product) {
	p.Name = normalize.Name(p.Name)
	p.NameCI = text.Fold(p.Name)
	p.Tags = normalize.Tags(p.Tags)
	p.Images = models.NormalizeImages(p.Images)
	if p.Images == nil {
		p.Images = []models.ProductImage{}
	}
	if p.Status == "" {
		p.Status = models.ProductDraft
	}
}

// Create inserts a product with zeroed counters.
func (s *Store) Create(ctx context.Context, p models.Product) (models.Product, error) {
	prepare(&p)
	p.ID = primitive.NewObjectID()
	p.SalesCount, p.ViewCount, p.ReviewCount = 0, 0, 0
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// GetByID loads a product. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return crud.Get[models.Product](ctx, s.c, id)
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Search   string
	Category string
	Status   string
	Featured *bool
	InStock  bool
	MinPrice *float64
	MaxPrice *float64
	Sort     bson.D
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	search.Apply(q, f.Search, "name", "description", "tags", "inventory.sku")
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}
	if f.InStock {
		q["$and"] = bson.A{bson.M{"$or": bson.A{
			bson.M{"inventory.track_inventory": false},
			bson.M{"inventory.quantity": bson.M{"$gt": 0}},
		}}}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		pr := bson.M{}
		if f.MinPrice != nil {
			pr["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			pr["$lte"] = *f.MaxPrice
		}
		q["price"] = pr
	}
	return q
}

// List returns one page of products and the total number of matches.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Page) ([]models.Product, int64, error) {
	return crud.Page[models.Product](ctx, s.c, f.query(), p, f.Sort)
}

// Save writes the editable fields of p; counters are left as stored.
func (s *Store) Save(ctx context.Context, p *models.Product) error {
	prepare(p)
	now := time.Now().UTC()
	if err := crud.Save(ctx, s.c, p.ID, p, now, "sales_count", "view_count", "review_count", "created_by"); err != nil {
		return err
	}
	p.UpdatedAt = now
	return nil
}

// Delete removes a product. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return crud.Delete(ctx, s.c, id)
}

// IncViews adds one view.
func (s *Store) IncViews(ctx context.Context, id primitive.ObjectID) error {
	return crud.Inc(ctx, s.c, id, "view_count", 1)
}

// Summary is the aggregate returned by list?summary=true.
type Summary struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByCategory map[string]int64 `json:"byCategory"`
	LowStock   int64            `json:"lowStock"`
	OutOfStock int64            `json:"outOfStock"`
}

// Summarize counts products by status and category and reports stock alerts.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var out Summary
	var err error
	if out.ByStatus, err = crud.CountBy(ctx, s.c, nil, "status"); err != nil {
		return out, err
	}
	if out.ByCategory, err = crud.CountBy(ctx, s.c, nil, "category"); err != nil {
		return out, err
	}
	for _, n := range out.ByStatus {
		out.Total += n
	}
	if out.OutOfStock, err = s.c.CountDocuments(ctx, bson.M{
		"inventory.track_inventory": true,
		"inventory.quantity":        bson.M{"$lte": 0},
	}); err != nil {
		return out, err
	}
	out.LowStock, err = s.c.CountDocuments(ctx, bson.M{
		"inventory.track_inventory": true,
		"$expr":                     bson.M{"$lte": bson.A{"$inventory.quantity", "$inventory.low_stock_threshold"}},
	})
	return out, err
}
