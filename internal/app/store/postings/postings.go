// Package postings holds the collection-level operations shared by the job
// and internship stores: list filters, application counters, the deadline
// and capacity sweep, and summaries.
package postings

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/crud"
	"github.com/dalemusser/careerhub/internal/app/system/search"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotAcceptingApplications is returned when a posting's effective status
// is not Active.
var ErrNotAcceptingApplications = errors.New("this posting is not accepting applications")

// SortFields are the public sort keys accepted by job and internship lists.
var SortFields = map[string]string{
	"title":        "title_ci",
	"deadline":     "application_deadline",
	"applications": "application_count",
	"views":        "view_count",
	"created_at":   "created_at",
}

// Filter holds the list filters common to jobs and internships.
// Zero values match everything.
type Filter struct {
	Search     string
	Status     string
	Department string
	Location   string
	Featured   *bool

	// Now is the instant Status is evaluated at. Zero means the current time.
	Now time.Time
}

// Query builds the Mongo filter for f. Status matches the effective status,
// so an Active posting past its deadline or at capacity lists as Closed or
// Filled before the sweep has persisted the change.
func (f Filter) Query() bson.M {
	q := bson.M{}
	search.Apply(q, f.Search, "title", "description", "department", "location", "skills")
	if f.Status != "" {
		now := f.Now
		if now.IsZero() {
			now = time.Now().UTC()
		}
		q["$and"] = bson.A{StatusMatch(f.Status, now)}
	}
	if f.Department != "" {
		q["department"] = f.Department
	}
	if f.Location != "" {
		q["location"] = search.Contains(f.Location)
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}
	return q
}

// openExpr is true when a posting has no limit or is below it.
var openExpr = bson.M{"$or": bson.A{
	bson.M{"$lte": bson.A{bson.M{"$ifNull": bson.A{"$max_applications", 0}}, 0}},
	bson.M{"$lt": bson.A{bson.M{"$ifNull": bson.A{"$application_count", 0}}, "$max_applications"}},
}}

// StatusMatch returns the filter for postings whose effective status at now
// is status. It mirrors models.ApplyAutoStatus: the deadline wins over
// capacity, and only Active postings are re-evaluated.
func StatusMatch(status string, now time.Time) bson.M {
	notPast := bson.M{"$not": bson.M{"$lt": now}}
	switch status {
	case models.PostingActive:
		return bson.M{"status": status, "application_deadline": notPast, "$expr": openExpr}
	case models.PostingClosed:
		return bson.M{"$or": bson.A{
			bson.M{"status": status},
			bson.M{"status": models.PostingActive, "application_deadline": bson.M{"$lt": now}},
		}}
	case models.PostingFilled:
		return bson.M{"$or": bson.A{
			bson.M{"status": status},
			bson.M{
				"status":               models.PostingActive,
				"application_deadline": notPast,
				"$expr":                bson.M{"$not": bson.A{openExpr}},
			},
		}}
	}
	return bson.M{"status": status}
}

// state is the projection needed to compute a posting's effective status.
type state struct {
	Status              string     `bson:"status"`
	ApplicationDeadline *time.Time `bson:"application_deadline"`
	ApplicationCount    int        `bson:"application_count"`
	MaxApplications     int        `bson:"max_applications"`
}

// CheckAccepting returns nil when the posting with id is effectively Active
// at now, ErrNotAcceptingApplications when it is not, and
// mongo.ErrNoDocuments when it does not exist.
func CheckAccepting(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, now time.Time) error {
	opts := options.FindOne().SetProjection(bson.M{
		"status": 1, "application_deadline": 1, "application_count": 1, "max_applications": 1,
	})
	st, err := crud.FindOne[state](ctx, c, bson.M{"_id": id}, opts)
	if err != nil {
		return err
	}
	if models.ApplyAutoStatus(st.Status, st.ApplicationDeadline, st.ApplicationCount, st.MaxApplications, now) != models.PostingActive {
		return ErrNotAcceptingApplications
	}
	return nil
}

// filledExpr is true for an Active posting whose count reached its limit.
var filledExpr = bson.M{"$and": bson.A{
	bson.M{"$eq": bson.A{"$status", models.PostingActive}},
	bson.M{"$gt": bson.A{bson.M{"$ifNull": bson.A{"$max_applications", 0}}, 0}},
	bson.M{"$gte": bson.A{"$application_count", "$max_applications"}},
}}

// IncApplications adds delta to the application counter of the posting with
// id, floored at zero, and marks an Active posting Filled once the counter
// reaches max_applications. Returns mongo.ErrNoDocuments when the posting
// does not exist.
func IncApplications(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, delta int) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"application_count": bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{
				bson.M{"$ifNull": bson.A{"$application_count", 0}}, delta,
			}}}},
			"updated_at": time.Now().UTC(),
		}}},
		{{Key: "$set", Value: bson.M{
			"status": bson.M{"$cond": bson.A{filledExpr, models.PostingFilled, "$status"}},
		}}},
	}
	res, err := c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Sweep persists the automatic transitions at now: Active postings past their
// deadline become Closed, and Active postings at capacity become Filled.
func Sweep(ctx context.Context, c *mongo.Collection, now time.Time) (closed, filled int64, err error) {
	res, err := c.UpdateMany(ctx,
		bson.M{"status": models.PostingActive, "application_deadline": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"status": models.PostingClosed, "updated_at": now}},
	)
	if err != nil {
		return 0, 0, err
	}
	closed = res.ModifiedCount

	res, err = c.UpdateMany(ctx,
		bson.M{
			"status":           models.PostingActive,
			"max_applications": bson.M{"$gt": 0},
			"$expr":            bson.M{"$gte": bson.A{"$application_count", "$max_applications"}},
		},
		bson.M{"$set": bson.M{"status": models.PostingFilled, "updated_at": now}},
	)
	if err != nil {
		return closed, 0, err
	}
	return closed, res.ModifiedCount, nil
}

// Summary is the aggregate returned by list?summary=true.
type Summary struct {
	Total        int64            `json:"total"`
	Featured     int64            `json:"featured"`
	ByStatus     map[string]int64 `json:"byStatus"`
	ByDepartment map[string]int64 `json:"byDepartment"`
	Applications int64            `json:"applications"`
}

// Summarize counts postings by status and department and totals their
// application counters.
func Summarize(ctx context.Context, c *mongo.Collection) (Summary, error) {
	var out Summary
	var err error
	if out.ByStatus, err = crud.CountBy(ctx, c, nil, "status"); err != nil {
		return out, err
	}
	if out.ByDepartment, err = crud.CountBy(ctx, c, nil, "department"); err != nil {
		return out, err
	}
	for _, n := range out.ByStatus {
		out.Total += n
	}
	if out.Featured, err = c.CountDocuments(ctx, bson.M{"featured": true}); err != nil {
		return out, err
	}

	cur, err := c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$application_count"}}}},
	})
	if err != nil {
		return out, err
	}
	defer cur.Close(ctx)
	var row struct {
		Total int64 `bson:"total"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return out, err
		}
	}
	out.Applications = row.Total
	return out, cur.Err()
}
