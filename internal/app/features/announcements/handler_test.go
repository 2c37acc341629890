package announcements_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/careerhub/internal/app/features/announcements"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.uber.org/zap"
)

type env struct {
	router http.Handler
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return env{router: announcements.Routes(announcements.NewHandler(db, nil, zap.NewNop()))}
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

func (e env) create(t *testing.T, body map[string]interface{}) models.Announcement {
	t.Helper()
	admin := testutil.AdminUser()
	rec := e.do(t, &admin, http.MethodPost, "/", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body.String())
	}
	var a models.Announcement
	testutil.DecodeEnvelope(t, rec, &a)
	return a
}

func titles(items []models.Announcement) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Title)
	}
	return out
}

func TestCreate_Defaults(t *testing.T) {
	e := setup(t)
	a := e.create(t, map[string]interface{}{"title": "Welcome", "content": "Hello"})
	if a.Type != "info" || a.Priority != models.PriorityMedium || a.TargetAudience != models.AudienceAll {
		t.Errorf("defaults: type=%q priority=%q audience=%q", a.Type, a.Priority, a.TargetAudience)
	}
	if len(a.DisplayLocation) != 1 || a.DisplayLocation[0] != models.LocationGlobal || !a.Dismissible {
		t.Errorf("defaults: locations=%v dismissible=%v", a.DisplayLocation, a.Dismissible)
	}

	admin := testutil.AdminUser()
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"bad type", map[string]interface{}{"title": "x", "content": "y", "type": "shout"}},
		{"bad location", map[string]interface{}{"title": "x", "content": "y", "displayLocation": []string{"sidebar"}}},
		{"end before start", map[string]interface{}{"title": "x", "content": "y", "startDate": "2026-05-02T00:00:00Z", "endDate": "2026-05-01T00:00:00Z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := e.do(t, &admin, http.MethodPost, "/", tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("got %d, want 400", rec.Code)
			}
		})
	}
}

func TestActive_AudienceLocationAndOrder(t *testing.T) {
	e := setup(t)
	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(48 * time.Hour)
	e.create(t, map[string]interface{}{"title": "Everyone", "content": "c", "priority": "low"})
	e.create(t, map[string]interface{}{"title": "Urgent", "content": "c", "priority": "urgent"})
	e.create(t, map[string]interface{}{"title": "Managers", "content": "c", "targetAudience": "managers"})
	e.create(t, map[string]interface{}{"title": "Jobs page", "content": "c", "displayLocation": []string{"jobs"}})
	e.create(t, map[string]interface{}{"title": "Expired", "content": "c", "startDate": past.Add(-time.Hour), "endDate": past})
	e.create(t, map[string]interface{}{"title": "Scheduled", "content": "c", "startDate": future})
	e.create(t, map[string]interface{}{"title": "Off", "content": "c", "active": false})

	var got []models.Announcement
	testutil.DecodeEnvelope(t, e.do(t, nil, http.MethodGet, "/active?location=homepage", nil), &got)
	if names := titles(got); len(names) != 2 || names[0] != "Urgent" || names[1] != "Everyone" {
		t.Errorf("anonymous homepage: %v", names)
	}

	manager := testutil.ManagerUser()
	testutil.DecodeEnvelope(t, e.do(t, &manager, http.MethodGet, "/active", nil), &got)
	if len(got) != 4 {
		t.Errorf("manager everywhere: %v", titles(got))
	}

	// visitors cannot widen their audience
	testutil.DecodeEnvelope(t, e.do(t, nil, http.MethodGet, "/active?audience=managers", nil), &got)
	for _, name := range titles(got) {
		if name == "Managers" {
			t.Errorf("anonymous caller read a managers-only announcement: %v", titles(got))
		}
	}
	user := testutil.RegularUser()
	testutil.DecodeEnvelope(t, e.do(t, &user, http.MethodGet, "/active?audience=managers", nil), &got)
	if len(got) != 3 {
		t.Errorf("user asking for managers: %v", titles(got))
	}

	// a manager may preview another audience
	testutil.DecodeEnvelope(t, e.do(t, &manager, http.MethodGet, "/active?audience=users", nil), &got)
	for _, name := range titles(got) {
		if name == "Managers" {
			t.Errorf("preview for users included managers-only: %v", titles(got))
		}
	}
	if len(got) > 0 && got[0].Views != nil {
		t.Error("view records leaked into the feed")
	}
}

func TestViewDismissClick(t *testing.T) {
	e := setup(t)
	a := e.create(t, map[string]interface{}{"title": "Banner", "content": "c"})
	user := testutil.RegularUser()
	base := "/" + a.ID.Hex()

	var res map[string]bool
	testutil.DecodeEnvelope(t, e.do(t, &user, http.MethodPost, base+"/dismiss", nil), &res)
	if res["recorded"] {
		t.Error("dismiss before view was recorded")
	}
	testutil.DecodeEnvelope(t, e.do(t, &user, http.MethodPost, base+"/view", nil), &res)
	if !res["recorded"] {
		t.Error("first view not recorded")
	}
	testutil.DecodeEnvelope(t, e.do(t, &user, http.MethodPost, base+"/view", nil), &res)
	if res["recorded"] {
		t.Error("repeat view recorded")
	}
	testutil.DecodeEnvelope(t, e.do(t, &user, http.MethodPost, base+"/dismiss", nil), &res)
	if !res["recorded"] {
		t.Error("dismiss not recorded")
	}
	e.do(t, nil, http.MethodPost, base+"/click", nil)

	var feed []models.Announcement
	testutil.DecodeEnvelope(t, e.do(t, &user, http.MethodGet, "/active", nil), &feed)
	if len(feed) != 0 {
		t.Errorf("dismissed announcement still in feed: %v", titles(feed))
	}

	if rec := e.do(t, nil, http.MethodPost, base+"/view", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous view: got %d, want 401", rec.Code)
	}
	if rec := e.do(t, &user, http.MethodGet, base, nil); rec.Code != http.StatusForbidden {
		t.Errorf("plain user get: got %d, want 403", rec.Code)
	}

	admin := testutil.AdminUser()
	var detail struct {
		models.Announcement
		Stats struct {
			ViewCount    int     `json:"viewCount"`
			ClickCount   int     `json:"clickCount"`
			DismissCount int     `json:"dismissCount"`
			ClickRate    float64 `json:"clickRate"`
		} `json:"stats"`
	}
	testutil.DecodeEnvelope(t, e.do(t, &admin, http.MethodGet, base, nil), &detail)
	if detail.Stats.ViewCount != 1 || detail.Stats.DismissCount != 1 || detail.Stats.ClickCount != 1 || detail.Stats.ClickRate != 100 {
		t.Errorf("stats: %+v", detail.Stats)
	}
}
