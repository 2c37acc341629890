package jobs_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/careerhub/internal/app/features/jobs"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type jobResp struct {
	models.Job
	EffectiveStatus string `json:"effectiveStatus"`
}

type env struct {
	db     *mongo.Database
	fx     *testutil.Fixtures
	router http.Handler
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return env{db: db, fx: testutil.NewFixtures(t, db), router: jobs.Routes(jobs.NewHandler(db, nil, zap.NewNop()))}
}

func (e env) do(t *testing.T, user *testutil.TestUser, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = testutil.JSONRequest(t, method, target, body)
	} else {
		req = testutil.NewRequest(method, target)
	}
	if user != nil {
		req = testutil.WithUser(req, *user)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func validJob() map[string]interface{} {
	return map[string]interface{}{
		"title":           "Platform Engineer",
		"description":     "Keep the lights on.",
		"department":      "Engineering",
		"location":        "Berlin",
		"employmentType":  "Full-time",
		"experienceLevel": "Senior",
		"salary":          map[string]interface{}{"type": "range", "min": 70000, "max": 90000},
		"skills":          []string{"Go", "go", "Kubernetes"},
		"status":          "Active",
	}
}

func TestCreate(t *testing.T) {
	e := setup(t)
	hr := testutil.NewTestUser(models.RoleHR)

	rec := e.do(t, &hr, http.MethodPost, "/", validJob())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body.String())
	}
	var got jobResp
	testutil.DecodeEnvelope(t, rec, &got)
	if got.Salary.Currency != "USD" || got.Salary.Period != "yearly" {
		t.Errorf("salary defaults: %+v", got.Salary)
	}
	if got.EffectiveStatus != models.PostingActive || len(got.Skills) != 2 {
		t.Errorf("created: effective=%q skills=%v", got.EffectiveStatus, got.Skills)
	}
	if got.CreatedBy == nil || got.CreatedBy.Hex() != hr.ID {
		t.Errorf("createdBy: %v", got.CreatedBy)
	}

	mutate := func(f func(map[string]interface{})) map[string]interface{} {
		b := validJob()
		f(b)
		return b
	}
	tests := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{"inverted range", mutate(func(b map[string]interface{}) {
			b["salary"] = map[string]interface{}{"type": "range", "min": 9, "max": 1}
		}), http.StatusBadRequest},
		{"fixed without amount", mutate(func(b map[string]interface{}) {
			b["salary"] = map[string]interface{}{"type": "fixed"}
		}), http.StatusBadRequest},
		{"past deadline", mutate(func(b map[string]interface{}) {
			b["applicationDeadline"] = time.Now().UTC().Add(-time.Hour)
		}), http.StatusBadRequest},
		{"bad employment type", mutate(func(b map[string]interface{}) { b["employmentType"] = "Gig" }), http.StatusBadRequest},
		{"client counter", mutate(func(b map[string]interface{}) { b["applicationCount"] = 3 }), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := e.do(t, &hr, http.MethodPost, "/", tt.body); rec.Code != tt.want {
				t.Errorf("got %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	user := testutil.RegularUser()
	if rec := e.do(t, &user, http.MethodPost, "/", validJob()); rec.Code != http.StatusForbidden {
		t.Errorf("plain user create: got %d, want 403", rec.Code)
	}
}

func TestEffectiveStatusOnRead(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	past := time.Now().UTC().Add(-time.Hour)
	stale := e.fx.CreateJob(ctx, "Stale", models.PostingActive, &past)
	draft := e.fx.CreateJob(ctx, "Hidden", models.PostingDraft, nil)

	var got jobResp
	testutil.DecodeEnvelope(t, e.do(t, nil, http.MethodGet, "/"+stale.ID.Hex(), nil), &got)
	if got.Status != models.PostingActive || got.EffectiveStatus != models.PostingClosed {
		t.Errorf("stale job: status=%q effective=%q", got.Status, got.EffectiveStatus)
	}
	if got.ViewCount != 1 {
		t.Errorf("viewCount: got %d, want 1", got.ViewCount)
	}

	if rec := e.do(t, nil, http.MethodGet, "/"+draft.ID.Hex(), nil); rec.Code != http.StatusNotFound {
		t.Errorf("public draft: got %d, want 404", rec.Code)
	}

	var list paging.List[jobResp]
	testutil.DecodeEnvelope(t, e.do(t, nil, http.MethodGet, "/", nil), &list)
	if list.Pagination.Total != 1 {
		t.Errorf("public list total: got %d, want 1", list.Pagination.Total)
	}
	manager := testutil.ManagerUser()
	testutil.DecodeEnvelope(t, e.do(t, &manager, http.MethodGet, "/", nil), &list)
	if list.Pagination.Total != 2 {
		t.Errorf("manager list total: got %d, want 2", list.Pagination.Total)
	}
}

func TestUpdate_AppliesAutoStatus(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	j := e.fx.CreateJob(ctx, "Recruiter", models.PostingActive, nil)
	if _, err := e.db.Collection("jobs").UpdateByID(ctx, j.ID, bson.M{"$set": bson.M{"application_count": 5}}); err != nil {
		t.Fatalf("seed count: %v", err)
	}
	hr := testutil.NewTestUser(models.RoleHR)

	var got jobResp
	rec := e.do(t, &hr, http.MethodPatch, "/"+j.ID.Hex(), map[string]interface{}{"maxApplications": 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got %d, body %s", rec.Code, rec.Body.String())
	}
	testutil.DecodeEnvelope(t, rec, &got)
	if got.Status != models.PostingFilled || got.ApplicationCount != 5 {
		t.Errorf("after update: status=%q count=%d", got.Status, got.ApplicationCount)
	}

	var stored models.Job
	if err := e.db.Collection("jobs").FindOne(ctx, bson.M{"_id": j.ID}).Decode(&stored); err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.Status != models.PostingFilled || stored.ApplicationCount != 5 {
		t.Errorf("stored: status=%q count=%d", stored.Status, stored.ApplicationCount)
	}
}

func TestApplicationsForJob_Gated(t *testing.T) {
	e := setup(t)
	j := e.fx.CreateJob(context.Background(), "Support", models.PostingActive, nil)
	user := testutil.RegularUser()
	hr := testutil.NewTestUser(models.RoleHR)

	if rec := e.do(t, &user, http.MethodGet, "/"+j.ID.Hex()+"/applications", nil); rec.Code != http.StatusForbidden {
		t.Errorf("plain user: got %d, want 403", rec.Code)
	}
	rec := e.do(t, &hr, http.MethodGet, "/"+j.ID.Hex()+"/applications", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("hr: got %d, body %s", rec.Code, rec.Body.String())
	}
	var list paging.List[map[string]interface{}]
	testutil.DecodeEnvelope(t, rec, &list)
	if list.Pagination.Total != 0 {
		t.Errorf("total: %d", list.Pagination.Total)
	}
}
