package applications_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/careerhub/internal/app/features/applications"
	"github.com/dalemusser/careerhub/internal/app/system/indexes"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type jobAppResp struct {
	models.JobApplication
	Job *models.PostingRef `json:"job"`
}

type env struct {
	db          *mongo.Database
	fx          *testutil.Fixtures
	jobs        http.Handler
	internships http.Handler
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return env{
		db:          db,
		fx:          testutil.NewFixtures(t, db),
		jobs:        applications.Routes(applications.NewJobs(db, nil, zap.NewNop())),
		internships: applications.Routes(applications.NewInternships(db, nil, zap.NewNop())),
	}
}

func do(t *testing.T, router http.Handler, user *testutil.TestUser, method, target string, body interface{}) *httptest.ResponseRecorder {
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
	router.ServeHTTP(rec, req)
	return rec
}

func jobBody(job, email string) map[string]interface{} {
	return map[string]interface{}{
		"job":               job,
		"applicant":         map[string]interface{}{"name": " Ada Lovelace ", "email": email},
		"resume":            map[string]interface{}{"url": "/uploads/resumes/ada.pdf"},
		"yearsOfExperience": 4,
	}
}

func (e env) apply(t *testing.T, job models.Job, email string) jobAppResp {
	t.Helper()
	rec := do(t, e.jobs, nil, http.MethodPost, "/", jobBody(job.ID.Hex(), email))
	if rec.Code != http.StatusCreated {
		t.Fatalf("apply: got %d, body %s", rec.Code, rec.Body.String())
	}
	var a jobAppResp
	testutil.DecodeEnvelope(t, rec, &a)
	return a
}

func (e env) jobCount(t *testing.T, id interface{}) int {
	t.Helper()
	var j models.Job
	if err := e.db.Collection("jobs").FindOne(context.Background(), bson.M{"_id": id}).Decode(&j); err != nil {
		t.Fatalf("load job: %v", err)
	}
	return j.ApplicationCount
}

func TestCreate_JobApplication(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	job := e.fx.CreateJob(ctx, "Backend Engineer", models.PostingActive, nil)

	a := e.apply(t, job, "Ada@Example.com")
	if a.Applicant.Email != "ada@example.com" || a.Applicant.Name != "Ada Lovelace" {
		t.Errorf("applicant not normalized: %+v", a.Applicant)
	}
	if a.Status != models.AppSubmitted || a.Job == nil || a.Job.Title != "Backend Engineer" {
		t.Errorf("created: status=%q job=%+v", a.Status, a.Job)
	}
	if n := e.jobCount(t, job.ID); n != 1 {
		t.Errorf("application_count: got %d, want 1", n)
	}

	past := time.Now().UTC().Add(-time.Hour)
	closed := e.fx.CreateJob(ctx, "Expired", models.PostingActive, &past)
	draft := e.fx.CreateJob(ctx, "Draft", models.PostingDraft, nil)

	tests := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{"duplicate email", jobBody(job.ID.Hex(), "ADA@example.com"), http.StatusConflict},
		{"past deadline", jobBody(closed.ID.Hex(), "x@example.com"), http.StatusBadRequest},
		{"draft posting", jobBody(draft.ID.Hex(), "x@example.com"), http.StatusBadRequest},
		{"missing job", jobBody("64b000000000000000000000", "x@example.com"), http.StatusNotFound},
		{"malformed job id", jobBody("nope", "x@example.com"), http.StatusBadRequest},
		{"bad email", jobBody(job.ID.Hex(), "not-an-email"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, e.jobs, nil, http.MethodPost, "/", tt.body); rec.Code != tt.want {
				t.Errorf("got %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
	if n := e.jobCount(t, job.ID); n != 1 {
		t.Errorf("application_count after rejects: got %d, want 1", n)
	}
}

func TestReviewFlow(t *testing.T) {
	e := setup(t)
	job := e.fx.CreateJob(context.Background(), "Designer", models.PostingActive, nil)
	a := e.apply(t, job, "grace@example.com")
	base := "/" + a.ID.Hex()
	hr := testutil.NewTestUser(models.RoleHR)
	user := testutil.RegularUser()

	if rec := do(t, e.jobs, nil, http.MethodGet, base, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous get: got %d, want 401", rec.Code)
	}
	if rec := do(t, e.jobs, &user, http.MethodPatch, base+"/status", map[string]string{"status": "Shortlisted"}); rec.Code != http.StatusForbidden {
		t.Errorf("plain user status: got %d, want 403", rec.Code)
	}
	if rec := do(t, e.jobs, &hr, http.MethodPatch, base+"/status", map[string]string{"status": "Pending"}); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status: got %d, want 400", rec.Code)
	}

	var got jobAppResp
	testutil.DecodeEnvelope(t, do(t, e.jobs, &hr, http.MethodPatch, base+"/status", map[string]string{"status": "Shortlisted"}), &got)
	if got.Status != models.AppShortlisted || got.ReviewedAt == nil || got.ReviewedBy == nil || got.ReviewedBy.Hex() != hr.ID {
		t.Errorf("after status: %+v", got.Review)
	}

	testutil.DecodeEnvelope(t, do(t, e.jobs, &hr, http.MethodPost, base+"/notes", map[string]string{"content": "Strong portfolio"}), &got)
	if len(got.Notes) != 1 || got.Notes[0].AuthorName != hr.Name {
		t.Errorf("notes: %+v", got.Notes)
	}

	testutil.DecodeEnvelope(t, do(t, e.jobs, &hr, http.MethodPatch, base+"/rating", map[string]int{"rating": 4}), &got)
	if got.Rating != 4 {
		t.Errorf("rating: %d", got.Rating)
	}
	if rec := do(t, e.jobs, &hr, http.MethodPatch, base+"/rating", map[string]int{"rating": 9}); rec.Code != http.StatusBadRequest {
		t.Errorf("rating 9: got %d, want 400", rec.Code)
	}

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	if rec := do(t, e.jobs, &hr, http.MethodPost, base+"/interview", map[string]interface{}{"scheduledAt": yesterday, "type": "video"}); rec.Code != http.StatusBadRequest {
		t.Errorf("past interview: got %d, want 400", rec.Code)
	}
	when := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	testutil.DecodeEnvelope(t, do(t, e.jobs, &hr, http.MethodPost, base+"/interview", map[string]interface{}{"scheduledAt": when, "type": "video", "interviewer": "Sam"}), &got)
	if got.Status != models.AppInterviewScheduled || got.Interview == nil || !got.Interview.ScheduledAt.Equal(when) {
		t.Errorf("interview: status=%q interview=%+v", got.Status, got.Interview)
	}
}

func TestDelete_AdminOnly(t *testing.T) {
	e := setup(t)
	job := e.fx.CreateJob(context.Background(), "Analyst", models.PostingActive, nil)
	a := e.apply(t, job, "kim@example.com")
	hr := testutil.NewTestUser(models.RoleHR)
	admin := testutil.AdminUser()

	if rec := do(t, e.jobs, &hr, http.MethodDelete, "/"+a.ID.Hex(), nil); rec.Code != http.StatusForbidden {
		t.Errorf("hr delete: got %d, want 403", rec.Code)
	}
	if rec := do(t, e.jobs, &admin, http.MethodDelete, "/"+a.ID.Hex(), nil); rec.Code != http.StatusOK {
		t.Fatalf("admin delete: got %d", rec.Code)
	}
	if n := e.jobCount(t, job.ID); n != 0 {
		t.Errorf("application_count after delete: got %d, want 0", n)
	}
	if rec := do(t, e.jobs, &admin, http.MethodGet, "/"+a.ID.Hex(), nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", rec.Code)
	}
}

func TestListAndExport(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	first := e.fx.CreateJob(ctx, "First", models.PostingActive, nil)
	second := e.fx.CreateJob(ctx, "Second", models.PostingActive, nil)
	e.apply(t, first, "a@example.com")
	e.apply(t, first, "b@example.com")
	e.apply(t, second, "c@example.com")
	manager := testutil.ManagerUser()

	var list paging.List[jobAppResp]
	testutil.DecodeEnvelope(t, do(t, e.jobs, &manager, http.MethodGet, "/?posting="+first.ID.Hex(), nil), &list)
	if list.Pagination.Total != 2 {
		t.Errorf("posting filter total: got %d, want 2", list.Pagination.Total)
	}

	r := chi.NewRouter()
	r.Get("/jobs/{id}/applications", applications.NewJobs(e.db, nil, zap.NewNop()).ListForPosting)
	testutil.DecodeEnvelope(t, do(t, r, &manager, http.MethodGet, "/jobs/"+second.ID.Hex()+"/applications", nil), &list)
	if list.Pagination.Total != 1 || list.Items[0].Applicant.Email != "c@example.com" {
		t.Errorf("ListForPosting: %+v", list.Items)
	}

	rec := do(t, e.jobs, &manager, http.MethodGet, "/export?format=csv", nil)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("csv export: got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 4 || !strings.Contains(lines[0], "years_of_experience") {
		t.Errorf("csv lines: %q", lines)
	}

	rec = do(t, e.jobs, &manager, http.MethodGet, "/export?format=xlsx&posting="+first.ID.Hex(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("xlsx export: got %d", rec.Code)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Job applications")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[1][1] != "First" {
		t.Errorf("xlsx rows: %v", rows)
	}

	if rec := do(t, e.jobs, &manager, http.MethodGet, "/export?format=pdf", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("pdf export: got %d, want 400", rec.Code)
	}
}

func TestInternshipApplication(t *testing.T) {
	e := setup(t)
	in := e.fx.CreateInternship(context.Background(), "Summer Intern", models.PostingActive, nil)
	body := map[string]interface{}{
		"internship": in.ID.Hex(),
		"applicant":  map[string]interface{}{"name": "Lee", "email": "lee@example.com"},
		"education":  map[string]interface{}{"institution": "State U", "degree": "BSc", "graduationYear": 2027},
		"resume":     map[string]interface{}{"url": "/uploads/resumes/lee.pdf"},
	}
	rec := do(t, e.internships, nil, http.MethodPost, "/", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("apply: got %d, body %s", rec.Code, rec.Body.String())
	}
	var got struct {
		models.InternshipApplication
		Internship *models.PostingRef `json:"internship"`
	}
	testutil.DecodeEnvelope(t, rec, &got)
	if got.Education.Institution != "State U" || got.Internship == nil || got.Internship.Title != "Summer Intern" {
		t.Errorf("created: %+v internship=%+v", got.Education, got.Internship)
	}

	delete(body, "education")
	if rec := do(t, e.internships, nil, http.MethodPost, "/", body); rec.Code != http.StatusBadRequest {
		t.Errorf("missing education: got %d, want 400", rec.Code)
	}
}
