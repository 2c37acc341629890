package metricsstore

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/crud"
	enrollmentstore "github.com/dalemusser/careerhub/internal/app/store/enrollments"
	"github.com/dalemusser/careerhub/internal/app/store/postings"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// source is one counted collection. active selects the documents that count
// as active for that entity.
type source struct {
	name   string
	coll   string
	active func(now time.Time) bson.M
}

func fixed(m bson.M) func(time.Time) bson.M { return func(time.Time) bson.M { return m } }

func openPostings(now time.Time) bson.M { return postings.StatusMatch(models.PostingActive, now) }

var openApplication = bson.M{"status": bson.M{"$nin": bson.A{models.AppHired, models.AppRejected, models.AppWithdrawn}}}

var sources = []source{
	{"users", "users", fixed(bson.M{"active": bson.M{"$ne": false}})},
	{"trainings", "trainings", fixed(bson.M{"active": bson.M{"$ne": false}})},
	{"enrollments", "enrollments", fixed(bson.M{"status": bson.M{"$in": bson.A{models.EnrollmentConfirmed, models.EnrollmentInProgress}}})},
	{"products", "products", fixed(bson.M{"status": models.ProductActive})},
	{"blogPosts", "blog_posts", fixed(bson.M{"status": models.BlogPublished})},
	{"jobs", "jobs", openPostings},
	{"internships", "internships", openPostings},
	{"teamMembers", "team_members", fixed(bson.M{"active": bson.M{"$ne": false}})},
	{"jobApplications", "job_applications", fixed(openApplication)},
	{"internshipApplications", "internship_applications", fixed(openApplication)},
}

// EntityStats are the counts shown for one entity.
type EntityStats struct {
	Total     int64   `json:"total"`
	Active    int64   `json:"active"`
	ThisMonth int64   `json:"thisMonth"`
	LastMonth int64   `json:"lastMonth"`
	Growth    float64 `json:"growth"`
}

// Estimate is a metric with no data source behind it. It is always marked
// as an estimate so clients can label it.
type Estimate struct {
	Value     float64 `json:"value"`
	Estimated bool    `json:"estimated"`
	Source    string  `json:"source"`
}

func estimate(v float64) Estimate {
	return Estimate{Value: v, Estimated: true, Source: "placeholder"}
}

// ApplicationActivity is a recent job or internship application.
type ApplicationActivity struct {
	ID        primitive.ObjectID `json:"id"`
	Kind      string             `json:"kind"`
	PostingID primitive.ObjectID `json:"posting"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

// Recent holds the newest records of the busiest collections.
type Recent struct {
	Users        []models.User         `json:"users"`
	Enrollments  []models.Enrollment   `json:"enrollments"`
	Applications []ApplicationActivity `json:"applications"`
}

// Authoritative holds figures computed from stored data.
type Authoritative struct {
	Entities map[string]EntityStats `json:"entities"`
	Revenue  float64                `json:"revenue"`
	Recent   Recent                 `json:"recent"`
}

// Dashboard is the response of the dashboard stats endpoint.
type Dashboard struct {
	Authoritative Authoritative       `json:"authoritative"`
	Estimates     map[string]Estimate `json:"estimates"`
	Unavailable   []string            `json:"unavailable,omitempty"`
	GeneratedAt   time.Time           `json:"generatedAt"`
}

// RecentLimit is how many recent records of each kind the dashboard shows.
const RecentLimit = 5

// MonthStart returns the first instant of the month containing t, in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// GrowthPercent is (this-last)/last*100 rounded to one decimal. With no
// previous figure growth is 100 when there is anything this period, else 0.
func GrowthPercent(this, last int64) float64 {
	if last == 0 {
		if this > 0 {
			return 100
		}
		return 0
	}
	return round1(float64(this-last) / float64(last) * 100)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// Fetch builds the dashboard at now. Every count runs in its own goroutine
// and is tolerant: a failed count reports 0 and its name is listed in
// Unavailable.
func Fetch(ctx context.Context, db *mongo.Database, now time.Time) Dashboard {
	thisMonth := MonthStart(now)
	lastMonth := MonthStart(thisMonth.AddDate(0, 0, -1))

	var (
		mu          sync.Mutex
		wg          sync.WaitGroup
		stats       = make(map[string]EntityStats, len(sources))
		unavailable []string
	)
	count := func(src source, part string, filter bson.M, set func(*EntityStats, int64)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := db.Collection(src.coll).CountDocuments(ctx, filter)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				unavailable = append(unavailable, src.name+"."+part)
				n = 0
			}
			st := stats[src.name]
			set(&st, n)
			stats[src.name] = st
		}()
	}

	for _, src := range sources {
		count(src, "total", bson.M{}, func(s *EntityStats, n int64) { s.Total = n })
		count(src, "active", src.active(now), func(s *EntityStats, n int64) { s.Active = n })
		count(src, "thisMonth", bson.M{"created_at": bson.M{"$gte": thisMonth}},
			func(s *EntityStats, n int64) { s.ThisMonth = n })
		count(src, "lastMonth", bson.M{"created_at": bson.M{"$gte": lastMonth, "$lt": thisMonth}},
			func(s *EntityStats, n int64) { s.LastMonth = n })
	}

	var revenue float64
	var recent Recent
	wg.Add(2)
	go func() {
		defer wg.Done()
		v, err := enrollmentstore.Revenue(ctx, db, nil)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			unavailable = append(unavailable, "revenue")
			return
		}
		revenue = v
	}()
	go func() {
		defer wg.Done()
		r, failed := fetchRecent(ctx, db)
		mu.Lock()
		defer mu.Unlock()
		recent = r
		unavailable = append(unavailable, failed...)
	}()
	wg.Wait()

	for name, st := range stats {
		st.Growth = GrowthPercent(st.ThisMonth, st.LastMonth)
		stats[name] = st
	}
	sort.Strings(unavailable)

	return Dashboard{
		Authoritative: Authoritative{Entities: stats, Revenue: revenue, Recent: recent},
		Estimates:     Estimates(stats),
		Unavailable:   unavailable,
		GeneratedAt:   now.UTC(),
	}
}

// Estimates derives the placeholder traffic metrics from real counts. The
// same counts always give the same figures.
func Estimates(stats map[string]EntityStats) map[string]Estimate {
	users := float64(stats["users"].Total)
	conversions := float64(stats["enrollments"].Total + stats["jobApplications"].Total + stats["internshipApplications"].Total)
	visitors := users*20 + conversions*5

	conversionRate := 0.0
	if visitors > 0 {
		conversionRate = round1(conversions / visitors * 100)
	}
	bounce := round1(math.Max(20, 65-conversionRate*2))
	session := round1(math.Min(15, 2+float64(stats["trainings"].Total+stats["blogPosts"].Total)/10))

	return map[string]Estimate{
		"monthlyVisitors":   estimate(visitors),
		"conversions":       estimate(conversions),
		"conversionRate":    estimate(conversionRate),
		"bounceRate":        estimate(bounce),
		"avgSessionMinutes": estimate(session),
	}
}

func fetchRecent(ctx context.Context, db *mongo.Database) (Recent, []string) {
	var failed []string
	out := Recent{Users: []models.User{}, Enrollments: []models.Enrollment{}, Applications: []ApplicationActivity{}}
	newest := func() *options.FindOptions {
		return options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
			SetLimit(RecentLimit)
	}

	users, err := crud.Find[models.User](ctx, db.Collection("users"), bson.M{},
		newest().SetProjection(bson.M{"password_hash": 0}))
	if err != nil {
		failed = append(failed, "recent.users")
	} else if users != nil {
		out.Users = users
	}

	enrollments, err := crud.Find[models.Enrollment](ctx, db.Collection("enrollments"), bson.M{}, newest())
	if err != nil {
		failed = append(failed, "recent.enrollments")
	} else if enrollments != nil {
		out.Enrollments = enrollments
	}

	type appRow struct {
		ID         primitive.ObjectID `bson:"_id"`
		Job        primitive.ObjectID `bson:"job"`
		Internship primitive.ObjectID `bson:"internship"`
		Applicant  models.Applicant   `bson:"applicant"`
		Status     string             `bson:"status"`
		CreatedAt  time.Time          `bson:"created_at"`
	}
	for _, kind := range []string{"job", "internship"} {
		rows, err := crud.Find[appRow](ctx, db.Collection(kind+"_applications"), bson.M{}, newest())
		if err != nil {
			failed = append(failed, "recent."+kind+"Applications")
			continue
		}
		for _, r := range rows {
			posting := r.Job
			if kind == "internship" {
				posting = r.Internship
			}
			out.Applications = append(out.Applications, ApplicationActivity{
				ID: r.ID, Kind: kind, PostingID: posting,
				Name: r.Applicant.Name, Email: r.Applicant.Email,
				Status: r.Status, CreatedAt: r.CreatedAt,
			})
		}
	}
	sort.SliceStable(out.Applications, func(i, j int) bool {
		return out.Applications[i].CreatedAt.After(out.Applications[j].CreatedAt)
	})
	if len(out.Applications) > RecentLimit {
		out.Applications = out.Applications[:RecentLimit]
	}
	return out, failed
}

// Periods accepted by Analytics, in days.
var Periods = map[string]int{"7d": 7, "30d": 30, "90d": 90}

// DayCount is the number of records created on one UTC day.
type DayCount struct {
	Date         string `json:"date"`
	Users        int64  `json:"users"`
	Enrollments  int64  `json:"enrollments"`
	Applications int64  `json:"applications"`
}

// Analytics returns per-day counts of new users, enrollments and
// applications for the days days ending at now, oldest first. Days without
// records are present with zero counts.
func Analytics(ctx context.Context, db *mongo.Database, days int, now time.Time) ([]DayCount, error) {
	end := now.UTC()
	start := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	perDay := func(coll string) (map[string]int64, error) {
		cur, err := db.Collection(coll).Aggregate(ctx, mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": start}}}},
			{{Key: "$group", Value: bson.M{
				"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
				"count": bson.M{"$sum": 1},
			}}},
		})
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		out := map[string]int64{}
		for cur.Next(ctx) {
			var row struct {
				ID    string `bson:"_id"`
				Count int64  `bson:"count"`
			}
			if err := cur.Decode(&row); err != nil {
				return nil, err
			}
			out[row.ID] = row.Count
		}
		return out, cur.Err()
	}

	users, err := perDay("users")
	if err != nil {
		return nil, err
	}
	enrollments, err := perDay("enrollments")
	if err != nil {
		return nil, err
	}
	jobApps, err := perDay("job_applications")
	if err != nil {
		return nil, err
	}
	internApps, err := perDay("internship_applications")
	if err != nil {
		return nil, err
	}

	out := make([]DayCount, 0, days)
	for d := 0; d < days; d++ {
		key := start.AddDate(0, 0, d).Format("2006-01-02")
		out = append(out, DayCount{
			Date:         key,
			Users:        users[key],
			Enrollments:  enrollments[key],
			Applications: jobApps[key] + internApps[key],
		})
	}
	return out, nil
}
