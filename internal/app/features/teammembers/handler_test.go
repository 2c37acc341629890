package teammembers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/careerhub/internal/app/features/teammembers"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return teammembers.Routes(teammembers.NewHandler(db, nil, zap.NewNop()))
}

func serve(router http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func create(t *testing.T, router http.Handler, body map[string]interface{}) models.TeamMember {
	t.Helper()
	editor := testutil.NewTestUser(models.RoleEditor)
	rec := serve(router, testutil.WithUser(testutil.JSONRequest(t, http.MethodPost, "/", body), editor))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body.String())
	}
	var m models.TeamMember
	testutil.DecodeEnvelope(t, rec, &m)
	return m
}

func TestCreate(t *testing.T) {
	router := setup(t)

	m := create(t, router, map[string]interface{}{
		"name":     " Ada Lovelace ",
		"position": "CTO",
		"email":    "ADA@Example.com",
		"social":   map[string]interface{}{"github": "https://github.com/ada"},
	})
	if m.Name != "Ada Lovelace" || m.Email != "ada@example.com" {
		t.Errorf("normalized: name=%q email=%q", m.Name, m.Email)
	}
	if m.Active == nil || !*m.Active {
		t.Errorf("active default: %v", m.Active)
	}

	tests := []struct {
		name string
		user *testutil.TestUser
		body map[string]interface{}
		want int
	}{
		{"anonymous", nil, map[string]interface{}{"name": "Bo", "position": "Dev"}, http.StatusUnauthorized},
		{"hr cannot edit", ptr(testutil.NewTestUser(models.RoleHR)), map[string]interface{}{"name": "Bo", "position": "Dev"}, http.StatusForbidden},
		{"missing position", ptr(testutil.AdminUser()), map[string]interface{}{"name": "Bo"}, http.StatusBadRequest},
		{"bad social url", ptr(testutil.AdminUser()), map[string]interface{}{"name": "Bo", "position": "Dev", "social": map[string]interface{}{"twitter": "not a url"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.JSONRequest(t, http.MethodPost, "/", tt.body)
			if tt.user != nil {
				req = testutil.WithUser(req, *tt.user)
			}
			if rec := serve(router, req); rec.Code != tt.want {
				t.Errorf("got %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestList_OrderAndVisibility(t *testing.T) {
	router := setup(t)
	create(t, router, map[string]interface{}{"name": "Zed", "position": "CEO", "order": 1})
	create(t, router, map[string]interface{}{"name": "Amy", "position": "COO", "order": 2})
	hidden := create(t, router, map[string]interface{}{"name": "Old Timer", "position": "Advisor", "active": false})

	var list paging.List[models.TeamMember]
	testutil.DecodeEnvelope(t, serve(router, testutil.NewRequest(http.MethodGet, "/")), &list)
	if list.Pagination.Total != 2 {
		t.Fatalf("public total: got %d, want 2", list.Pagination.Total)
	}
	if list.Items[0].Name != "Zed" || list.Items[1].Name != "Amy" {
		t.Errorf("order: %q, %q", list.Items[0].Name, list.Items[1].Name)
	}

	if rec := serve(router, testutil.NewRequest(http.MethodGet, "/"+hidden.ID.Hex())); rec.Code != http.StatusNotFound {
		t.Errorf("public inactive get: got %d, want 404", rec.Code)
	}
	rec := serve(router, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/"), testutil.AdminUser()))
	testutil.DecodeEnvelope(t, rec, &list)
	if list.Pagination.Total != 3 {
		t.Errorf("admin total: got %d, want 3", list.Pagination.Total)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	router := setup(t)
	m := create(t, router, map[string]interface{}{"name": "Sam", "position": "Designer"})
	admin := testutil.AdminUser()

	rec := serve(router, testutil.WithUser(testutil.JSONRequest(t, http.MethodPatch, "/"+m.ID.Hex(), map[string]interface{}{"position": "Lead Designer"}), admin))
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got %d, body %s", rec.Code, rec.Body.String())
	}
	var got models.TeamMember
	testutil.DecodeEnvelope(t, rec, &got)
	if got.Position != "Lead Designer" || got.Name != "Sam" {
		t.Errorf("after update: %+v", got)
	}

	if rec := serve(router, testutil.WithUser(testutil.NewRequest(http.MethodDelete, "/"+m.ID.Hex()), admin)); rec.Code != http.StatusOK {
		t.Fatalf("delete: got %d", rec.Code)
	}
	if rec := serve(router, testutil.NewRequest(http.MethodGet, "/"+m.ID.Hex())); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", rec.Code)
	}
}
