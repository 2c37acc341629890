package jobstore_test

import (
	"errors"
	"testing"
	"time"

	jobstore "github.com/dalemusser/careerhub/internal/app/store/jobs"
	"github.com/dalemusser/careerhub/internal/app/store/postings"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newJob(title, status string) models.Job {
	return models.Job{
		Title:           title,
		Description:     "Build things",
		Department:      "Engineering",
		Location:        "Berlin",
		EmploymentType:  "Full-time",
		ExperienceLevel: "Mid",
		Salary:          models.Salary{Type: models.SalaryRange, Min: 10, Max: 20},
		Status:          status,
	}
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	in := newJob("  Backend Engineer ", "")
	in.ApplicationCount = 9
	in.ViewCount = 3
	in.Requirements = []string{" Go ", ""}

	j, err := store.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if j.Title != "Backend Engineer" || j.TitleCI != "backend engineer" {
		t.Errorf("title: %q / %q", j.Title, j.TitleCI)
	}
	if j.Status != models.PostingDraft {
		t.Errorf("status default: got %q", j.Status)
	}
	if j.ApplicationCount != 0 || j.ViewCount != 0 {
		t.Errorf("counters not reset: %d/%d", j.ApplicationCount, j.ViewCount)
	}
	if j.Salary.Currency != "USD" || j.Salary.Period != "yearly" {
		t.Errorf("salary defaults: %+v", j.Salary)
	}
	if len(j.Requirements) != 1 || j.Requirements[0] != "Go" {
		t.Errorf("requirements: %q", j.Requirements)
	}

	got, err := store.GetByID(ctx, j.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != j.Title {
		t.Errorf("stored title: %q", got.Title)
	}
}

func TestStore_SaveAppliesAutoStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	j, err := store.Create(ctx, newJob("Analyst", models.PostingActive))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	past := time.Now().UTC().Add(-time.Hour)
	j.ApplicationDeadline = &past
	j.ViewCount = 100
	if err := store.Save(ctx, &j); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if j.Status != models.PostingClosed {
		t.Errorf("status: got %q, want Closed", j.Status)
	}

	got, _ := store.GetByID(ctx, j.ID)
	if got.Status != models.PostingClosed {
		t.Errorf("stored status: got %q", got.Status)
	}
	if got.ViewCount != 0 {
		t.Errorf("Save must not overwrite view_count, got %d", got.ViewCount)
	}
}

func TestStore_SaveMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	j := newJob("Ghost", models.PostingDraft)
	j.ID = primitive.NewObjectID()
	if err := store.Save(ctx, &j); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_ListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := newJob("Go Developer", models.PostingActive)
	a.Remote = true
	b := newJob("Designer", models.PostingActive)
	b.Department = "Design"
	b.Location = "New York"
	b.EmploymentType = "Contract"
	c := newJob("Intern Go", models.PostingDraft)
	for _, j := range []models.Job{a, b, c} {
		if _, err := store.Create(ctx, j); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	tests := []struct {
		name string
		f    jobstore.ListFilter
		want int64
	}{
		{"all", jobstore.ListFilter{}, 3},
		{"search", jobstore.ListFilter{Filter: postings.Filter{Search: "go"}}, 2},
		{"status", jobstore.ListFilter{Filter: postings.Filter{Status: models.PostingActive}}, 2},
		{"department", jobstore.ListFilter{Filter: postings.Filter{Department: "Design"}}, 1},
		{"location substring", jobstore.ListFilter{Filter: postings.Filter{Location: "york"}}, 1},
		{"employment type", jobstore.ListFilter{EmploymentType: "Contract"}, 1},
		{"remote", jobstore.ListFilter{Remote: models.Bool(true)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := store.List(ctx, tt.f, paging.Page{Page: 1, Limit: 10})
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if total != tt.want {
				t.Errorf("total: got %d, want %d", total, tt.want)
			}
		})
	}

	items, _, err := store.List(ctx, jobstore.ListFilter{Sort: paging.Sort("title", postings.SortFields)}, paging.Page{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if items[0].Title != "Designer" {
		t.Errorf("sorted by title: first is %q", items[0].Title)
	}
}

func TestStore_ListByEffectiveStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)
	expired := fixtures.CreateJob(ctx, "Expired", models.PostingActive, &past)
	full := fixtures.CreateJob(ctx, "Full", models.PostingActive, &future)
	open := fixtures.CreateJob(ctx, "Open", models.PostingActive, &future)
	noDeadline := fixtures.CreateJob(ctx, "Rolling", models.PostingActive, nil)
	closed := fixtures.CreateJob(ctx, "Closed", models.PostingClosed, nil)

	if _, err := db.Collection(jobstore.Collection).UpdateOne(ctx,
		bson.M{"_id": full.ID},
		bson.M{"$set": bson.M{"max_applications": 2, "application_count": 2}},
	); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := db.Collection(jobstore.Collection).UpdateOne(ctx,
		bson.M{"_id": open.ID},
		bson.M{"$set": bson.M{"max_applications": 5, "application_count": 1}},
	); err != nil {
		t.Fatalf("update: %v", err)
	}

	tests := []struct {
		status string
		want   []primitive.ObjectID
	}{
		{models.PostingActive, []primitive.ObjectID{open.ID, noDeadline.ID}},
		{models.PostingClosed, []primitive.ObjectID{expired.ID, closed.ID}},
		{models.PostingFilled, []primitive.ObjectID{full.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			f := jobstore.ListFilter{Filter: postings.Filter{Status: tt.status}}
			items, total, err := store.List(ctx, f, paging.Page{Page: 1, Limit: 10})
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if total != int64(len(tt.want)) {
				t.Fatalf("total: got %d, want %d", total, len(tt.want))
			}
			got := map[primitive.ObjectID]bool{}
			for _, j := range items {
				got[j.ID] = true
			}
			for _, id := range tt.want {
				if !got[id] {
					t.Errorf("missing %s", id.Hex())
				}
			}
		})
	}
}

func TestStore_SweepStatuses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)
	expired := fixtures.CreateJob(ctx, "Expired", models.PostingActive, &past)
	full := fixtures.CreateJob(ctx, "Full", models.PostingActive, &future)
	open := fixtures.CreateJob(ctx, "Open", models.PostingActive, &future)
	onHold := fixtures.CreateJob(ctx, "Paused", models.PostingOnHold, &past)

	if _, err := db.Collection(jobstore.Collection).UpdateOne(ctx,
		bson.M{"_id": full.ID},
		bson.M{"$set": bson.M{"max_applications": 2, "application_count": 2}},
	); err != nil {
		t.Fatalf("update: %v", err)
	}

	closed, filled, err := store.SweepStatuses(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("SweepStatuses failed: %v", err)
	}
	if closed != 1 || filled != 1 {
		t.Errorf("closed=%d filled=%d, want 1/1", closed, filled)
	}

	want := map[primitive.ObjectID]string{
		expired.ID: models.PostingClosed,
		full.ID:    models.PostingFilled,
		open.ID:    models.PostingActive,
		onHold.ID:  models.PostingOnHold,
	}
	for id, status := range want {
		got, err := store.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Status != status {
			t.Errorf("%s: got %q, want %q", got.Title, got.Status, status)
		}
	}
}

func TestStore_IncViewsAndRefs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	j, err := store.Create(ctx, newJob("Writer", models.PostingActive))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := store.IncViews(ctx, j.ID); err != nil {
			t.Fatalf("IncViews failed: %v", err)
		}
	}
	got, _ := store.GetByID(ctx, j.ID)
	if got.ViewCount != 3 {
		t.Errorf("ViewCount: got %d, want 3", got.ViewCount)
	}
	if err := store.IncViews(ctx, primitive.NewObjectID()); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("IncViews on missing: got %v", err)
	}

	missing := primitive.NewObjectID()
	refs, err := store.Refs(ctx, []primitive.ObjectID{j.ID, missing})
	if err != nil {
		t.Fatalf("Refs failed: %v", err)
	}
	if len(refs) != 1 || refs[j.ID].Title != "Writer" {
		t.Errorf("refs: %+v", refs)
	}
}

func TestStore_Summarize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, status := range []string{models.PostingActive, models.PostingActive, models.PostingDraft} {
		if _, err := store.Create(ctx, newJob("Role", status)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	sum, err := store.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if sum.Total != 3 || sum.ByStatus[models.PostingActive] != 2 || sum.ByDepartment["Engineering"] != 3 {
		t.Errorf("summary: %+v", sum)
	}
}
