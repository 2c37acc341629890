package trainings_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/careerhub/internal/app/features/trainings"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*mongo.Database, *testutil.Fixtures, http.Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := trainings.NewHandler(db, nil, zap.NewNop())
	return db, testutil.NewFixtures(t, db), trainings.Routes(h)
}

func serve(router http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "  Go for Backend Engineers ",
		"description": "Services, concurrency and testing in Go.",
		"category":    "web-development",
		"level":       "intermediate",
		"duration":    map[string]interface{}{"value": 6, "unit": "weeks"},
		"price":       499,
		"instructor":  map[string]interface{}{"name": "Rob"},
		"curriculum": []map[string]interface{}{
			{"title": "Testing", "order": 2},
			{"title": "Basics", "order": 1},
		},
		"tags": []string{"Go", "go", " backend "},
	}
}

func TestCreate(t *testing.T) {
	_, _, router := setup(t)
	instructor := testutil.NewTestUser(models.RoleInstructor)

	rec := serve(router, testutil.WithUser(testutil.JSONRequest(t, http.MethodPost, "/", validBody()), instructor))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var got models.Training
	testutil.DecodeEnvelope(t, rec, &got)
	if got.Title != "Go for Backend Engineers" || got.Currency != "USD" {
		t.Errorf("normalized fields: title=%q currency=%q", got.Title, got.Currency)
	}
	if len(got.Curriculum) != 2 || got.Curriculum[0].Title != "Basics" {
		t.Errorf("curriculum not ordered: %+v", got.Curriculum)
	}
	if got.CreatedBy == nil || got.CreatedBy.Hex() != instructor.ID {
		t.Errorf("createdBy: %v", got.CreatedBy)
	}
	if got.EnrollmentCount != 0 {
		t.Errorf("enrollmentCount: %d", got.EnrollmentCount)
	}
}

func TestCreate_Rejects(t *testing.T) {
	_, _, router := setup(t)
	admin := testutil.AdminUser()

	mutate := func(f func(map[string]interface{})) map[string]interface{} {
		b := validBody()
		f(b)
		return b
	}
	tests := []struct {
		name string
		body map[string]interface{}
		user *testutil.TestUser
		want int
	}{
		{"anonymous", validBody(), nil, http.StatusUnauthorized},
		{"plain user", validBody(), ptr(testutil.RegularUser()), http.StatusForbidden},
		{"bad category", mutate(func(b map[string]interface{}) { b["category"] = "cooking" }), &admin, http.StatusBadRequest},
		{"short title", mutate(func(b map[string]interface{}) { b["title"] = "Go" }), &admin, http.StatusBadRequest},
		{"negative price", mutate(func(b map[string]interface{}) { b["price"] = -1 }), &admin, http.StatusBadRequest},
		{"zero duration", mutate(func(b map[string]interface{}) { b["duration"] = map[string]interface{}{"value": 0, "unit": "weeks"} }), &admin, http.StatusBadRequest},
		{"client counter", mutate(func(b map[string]interface{}) { b["enrollmentCount"] = 50 }), &admin, http.StatusBadRequest},
		{"end before start", mutate(func(b map[string]interface{}) {
			b["startDate"] = "2026-06-10T00:00:00Z"
			b["endDate"] = "2026-06-01T00:00:00Z"
		}), &admin, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.JSONRequest(t, http.MethodPost, "/", tt.body)
			if tt.user != nil {
				req = testutil.WithUser(req, *tt.user)
			}
			if rec := serve(router, req); rec.Code != tt.want {
				t.Errorf("status: got %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestList_PublicSeesActiveOnly(t *testing.T) {
	db, fx, router := setup(t)
	ctx := context.Background()
	fx.CreateTraining(ctx, "Open Course")
	hidden := fx.CreateTraining(ctx, "Retired Course")
	if _, err := db.Collection("trainings").UpdateByID(ctx, hidden.ID, bson.M{"$set": bson.M{"active": false}}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	var list paging.List[models.Training]
	rec := serve(router, testutil.NewRequest(http.MethodGet, "/"))
	testutil.DecodeEnvelope(t, rec, &list)
	if list.Pagination.Total != 1 || list.Items[0].Title != "Open Course" {
		t.Errorf("public list: %+v", list.Pagination)
	}

	rec = serve(router, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/"), testutil.ManagerUser()))
	testutil.DecodeEnvelope(t, rec, &list)
	if list.Pagination.Total != 2 {
		t.Errorf("staff list total: got %d, want 2", list.Pagination.Total)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	db, fx, router := setup(t)
	ctx := context.Background()
	tr := fx.CreateTraining(ctx, "Intro to Cloud")
	if _, err := db.Collection("trainings").UpdateByID(ctx, tr.ID, bson.M{"$set": bson.M{"enrollment_count": 7}}); err != nil {
		t.Fatalf("seed counter: %v", err)
	}
	manager := testutil.ManagerUser()

	req := testutil.WithUser(testutil.JSONRequest(t, http.MethodPatch, "/"+tr.ID.Hex(), map[string]interface{}{"price": 99.5}), manager)
	rec := serve(router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got %d, body %s", rec.Code, rec.Body.String())
	}
	var got models.Training
	if err := db.Collection("trainings").FindOne(ctx, bson.M{"_id": tr.ID}).Decode(&got); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Price != 99.5 || got.Title != "Intro to Cloud" || got.EnrollmentCount != 7 {
		t.Errorf("after update: price=%v title=%q count=%d", got.Price, got.Title, got.EnrollmentCount)
	}

	rec = serve(router, testutil.WithUser(testutil.NewRequest(http.MethodDelete, "/"+tr.ID.Hex()), manager))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: got %d", rec.Code)
	}
	rec = serve(router, testutil.NewRequest(http.MethodGet, "/"+tr.ID.Hex()))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", rec.Code)
	}
}
