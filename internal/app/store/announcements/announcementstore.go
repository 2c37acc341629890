package announcementstore

import (
	"context"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/crud"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/search"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("announcements")}
}

func prepare(a *models.Announcement) {
	a.PriorityRank = models.PriorityRank(a.Priority)
	if a.TargetAudience == "" {
		a.TargetAudience = models.AudienceAll
	}
	if len(a.DisplayLocation) == 0 {
		a.DisplayLocation = []string{models.LocationGlobal}
	}
}

// Create inserts an announcement with no views. StartDate defaults to now.
func (s *Store) Create(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	prepare(&a)
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	if a.StartDate.IsZero() {
		a.StartDate = now
	}
	a.Views = []models.AnnouncementView{}
	a.ViewCount, a.ClickCount, a.DismissCount = 0, 0, 0
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// GetByID loads an announcement. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Announcement, error) {
	return crud.Get[models.Announcement](ctx, s.c, id)
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Search   string
	Type     string
	Priority string
	Audience string
	Active   *bool
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	search.Apply(q, f.Search, "title", "content")
	if f.Type != "" {
		q["type"] = f.Type
	}
	if f.Priority != "" {
		q["priority"] = f.Priority
	}
	if f.Audience != "" {
		q["target_audience"] = f.Audience
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

var withoutViews = bson.M{"views": 0}

// List returns one page of announcements, without per-user view records,
// and the total number of matches.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Page) ([]models.Announcement, int64, error) {
	q := f.query()
	total, err := s.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	items, err := crud.Find[models.Announcement](ctx, s.c, q, paging.FindOptions(p).SetProjection(withoutViews))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Save writes the editable fields of a; view records and counters are left as stored.
func (s *Store) Save(ctx context.Context, a *models.Announcement) error {
	prepare(a)
	now := time.Now().UTC()
	if err := crud.Save(ctx, s.c, a.ID, a, now,
		"views", "view_count", "click_count", "dismiss_count", "created_by"); err != nil {
		return err
	}
	a.UpdatedAt = now
	return nil
}

// Delete removes an announcement. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	return crud.Delete(ctx, s.c, id)
}

// ActiveQuery selects announcements live at now for audience at location.
// Blank audience or location match any. With user set, announcements the
// user dismissed are left out.
type ActiveQuery struct {
	Audience string
	Location string
	User     *primitive.ObjectID
	Now      time.Time
}

func (aq ActiveQuery) filter() bson.M {
	now := aq.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	and := bson.A{
		bson.M{"active": bson.M{"$ne": false}},
		bson.M{"start_date": bson.M{"$lte": now}},
		bson.M{"$or": bson.A{
			bson.M{"end_date": nil},
			bson.M{"end_date": bson.M{"$gte": now}},
		}},
	}
	if aq.Audience != "" {
		and = append(and, bson.M{"target_audience": bson.M{"$in": bson.A{models.AudienceAll, aq.Audience}}})
	}
	if aq.Location != "" {
		and = append(and, bson.M{"display_location": bson.M{"$in": bson.A{models.LocationGlobal, aq.Location}}})
	}
	if aq.User != nil {
		and = append(and, bson.M{"views": bson.M{"$not": bson.M{"$elemMatch": bson.M{"user": *aq.User, "dismissed": true}}}})
	}
	return bson.M{"$and": and}
}

// ActiveFor returns the live announcements for aq, most urgent first, then newest.
func (s *Store) ActiveFor(ctx context.Context, aq ActiveQuery) ([]models.Announcement, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "priority_rank", Value: -1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(withoutViews).
		SetLimit(50)
	items, err := crud.Find[models.Announcement](ctx, s.c, aq.filter(), opts)
	if items == nil && err == nil {
		items = []models.Announcement{}
	}
	return items, err
}

// notChanged distinguishes a guarded no-op from a missing document.
func (s *Store) notChanged(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, mongo.ErrNoDocuments
	}
	return false, nil
}

// MarkAsViewed records the first view of the announcement by user and
// counts it. Later views by the same user change nothing. changed reports
// whether this call recorded the view.
func (s *Store) MarkAsViewed(ctx context.Context, id, user primitive.ObjectID) (bool, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "views.user": bson.M{"$ne": user}},
		bson.M{
			"$push": bson.M{"views": models.AnnouncementView{UserID: user, ViewedAt: now}},
			"$inc":  bson.M{"view_count": 1},
		},
	)
	if err != nil {
		return false, err
	}
	if res.ModifiedCount == 0 {
		return s.notChanged(ctx, id)
	}
	return true, nil
}

// MarkAsDismissed marks the user's view record dismissed and counts it. It
// is a no-op when the user has no view record or already dismissed.
func (s *Store) MarkAsDismissed(ctx context.Context, id, user primitive.ObjectID) (bool, error) {
	now := time.Now().UTC()
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"v.user": user, "v.dismissed": false}},
	})
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "views": bson.M{"$elemMatch": bson.M{"user": user, "dismissed": false}}},
		bson.M{
			"$set": bson.M{"views.$[v].dismissed": true, "views.$[v].dismissed_at": now},
			"$inc": bson.M{"dismiss_count": 1},
		},
		opts,
	)
	if err != nil {
		return false, err
	}
	if res.ModifiedCount == 0 {
		return s.notChanged(ctx, id)
	}
	return true, nil
}

// TrackClick counts one click on the announcement's action.
func (s *Store) TrackClick(ctx context.Context, id primitive.ObjectID) error {
	return crud.Inc(ctx, s.c, id, "click_count", 1)
}

// Stats are the engagement figures of one announcement.
type Stats struct {
	ViewCount    int     `json:"viewCount"`
	ClickCount   int     `json:"clickCount"`
	DismissCount int     `json:"dismissCount"`
	ClickRate    float64 `json:"clickRate"`
	DismissRate  float64 `json:"dismissRate"`
}

// StatsOf computes engagement rates as percentages of views, one decimal.
func StatsOf(a *models.Announcement) Stats {
	st := Stats{ViewCount: a.ViewCount, ClickCount: a.ClickCount, DismissCount: a.DismissCount}
	if a.ViewCount > 0 {
		st.ClickRate = round1(float64(a.ClickCount) / float64(a.ViewCount) * 100)
		st.DismissRate = round1(float64(a.DismissCount) / float64(a.ViewCount) * 100)
	}
	return st
}

func round1(f float64) float64 {
	return float64(int64(f*10+0.5)) / 10
}

// Summary is the aggregate returned by list?summary=true.
type Summary struct {
	Total      int64            `json:"total"`
	Live       int64            `json:"live"`
	ByPriority map[string]int64 `json:"byPriority"`
	ByType     map[string]int64 `json:"byType"`
}

// Summarize counts announcements by priority and type, and those live now.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var out Summary
	var err error
	if out.ByPriority, err = crud.CountBy(ctx, s.c, nil, "priority"); err != nil {
		return out, err
	}
	if out.ByType, err = crud.CountBy(ctx, s.c, nil, "type"); err != nil {
		return out, err
	}
	for _, n := range out.ByPriority {
		out.Total += n
	}
	out.Live, err = s.c.CountDocuments(ctx, ActiveQuery{}.filter())
	return out, err
}
