package blog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/careerhub/internal/app/features/blog"
	"github.com/dalemusser/careerhub/internal/app/system/indexes"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.uber.org/zap"
)

type postResp struct {
	models.BlogPost
	Author *models.UserRef `json:"author"`
}

type env struct {
	fx     *testutil.Fixtures
	router http.Handler
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return env{fx: testutil.NewFixtures(t, db), router: blog.Routes(blog.NewHandler(db, nil, zap.NewNop()))}
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

func (e env) post(t *testing.T, editor testutil.TestUser, title, status string) postResp {
	t.Helper()
	rec := e.do(t, &editor, http.MethodPost, "/", map[string]interface{}{
		"title":   title,
		"content": "<p>Hello <b>readers</b></p><script>alert(1)</script>",
		"status":  status,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %q: got %d, body %s", title, rec.Code, rec.Body.String())
	}
	var p postResp
	testutil.DecodeEnvelope(t, rec, &p)
	return p
}

func TestCreate(t *testing.T) {
	e := setup(t)
	u := e.fx.CreateUser(context.Background(), "Erin Editor", "erin@example.com", models.RoleEditor)
	editor := testutil.FromModel(u)

	p := e.post(t, editor, "Five Tips for Your First Interview!", models.BlogPublished)
	if p.Slug != "five-tips-for-your-first-interview" {
		t.Errorf("slug: %q", p.Slug)
	}
	if p.PublishedAt == nil {
		t.Error("publishedAt not stamped")
	}
	if p.Excerpt != "Hello readers" {
		t.Errorf("excerpt: %q", p.Excerpt)
	}
	if p.Author == nil || p.Author.Name != "Erin Editor" {
		t.Errorf("author: %+v", p.Author)
	}

	rec := e.do(t, &editor, http.MethodPost, "/", map[string]interface{}{"title": "five tips for your first interview", "content": "dup"})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate slug: got %d, want 409", rec.Code)
	}
	rec = e.do(t, &editor, http.MethodPost, "/", map[string]interface{}{"title": "!!!", "content": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty slug: got %d, want 400", rec.Code)
	}
	user := testutil.RegularUser()
	if rec := e.do(t, &user, http.MethodPost, "/", map[string]interface{}{"title": "Nope", "content": "x"}); rec.Code != http.StatusForbidden {
		t.Errorf("plain user create: got %d, want 403", rec.Code)
	}
}

func TestVisibility(t *testing.T) {
	e := setup(t)
	editor := testutil.NewTestUser(models.RoleEditor)
	pub := e.post(t, editor, "Published Post", models.BlogPublished)
	draft := e.post(t, editor, "Draft Post", models.BlogDraft)

	var list paging.List[postResp]
	testutil.DecodeEnvelope(t, e.do(t, nil, http.MethodGet, "/", nil), &list)
	if list.Pagination.Total != 1 || list.Items[0].ID != pub.ID {
		t.Errorf("public list: %+v", list.Pagination)
	}
	testutil.DecodeEnvelope(t, e.do(t, &editor, http.MethodGet, "/", nil), &list)
	if list.Pagination.Total != 2 {
		t.Errorf("staff list total: got %d, want 2", list.Pagination.Total)
	}

	tests := []struct {
		name   string
		user   *testutil.TestUser
		target string
		want   int
	}{
		{"public by id", nil, "/" + pub.ID.Hex(), http.StatusOK},
		{"public by slug", nil, "/slug/published-post", http.StatusOK},
		{"public draft by id", nil, "/" + draft.ID.Hex(), http.StatusNotFound},
		{"public draft by slug", nil, "/slug/draft-post", http.StatusNotFound},
		{"staff draft by slug", &editor, "/slug/draft-post", http.StatusOK},
		{"malformed id", nil, "/nope", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := e.do(t, tt.user, http.MethodGet, tt.target, nil); rec.Code != tt.want {
				t.Errorf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestGet_CountsViews(t *testing.T) {
	e := setup(t)
	p := e.post(t, testutil.NewTestUser(models.RoleEditor), "Counting Views", models.BlogPublished)

	e.do(t, nil, http.MethodGet, "/"+p.ID.Hex(), nil)
	var got postResp
	testutil.DecodeEnvelope(t, e.do(t, nil, http.MethodGet, "/slug/counting-views", nil), &got)
	if got.ViewCount != 2 {
		t.Errorf("viewCount: got %d, want 2", got.ViewCount)
	}
}

func TestComments(t *testing.T) {
	e := setup(t)
	editor := testutil.NewTestUser(models.RoleEditor)
	p := e.post(t, editor, "Discuss This", models.BlogPublished)
	base := "/" + p.ID.Hex() + "/comments"

	if rec := e.do(t, nil, http.MethodPost, base, map[string]interface{}{"content": "no name"}); rec.Code != http.StatusBadRequest {
		t.Errorf("anonymous without name: got %d, want 400", rec.Code)
	}
	rec := e.do(t, nil, http.MethodPost, base, map[string]interface{}{"name": "Visitor", "content": "<i>Great</i> post"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("comment: got %d, body %s", rec.Code, rec.Body.String())
	}
	var c models.Comment
	testutil.DecodeEnvelope(t, rec, &c)
	if c.Approved || c.Content != "Great post" {
		t.Errorf("comment: %+v", c)
	}

	var got postResp
	testutil.DecodeEnvelope(t, e.do(t, nil, http.MethodGet, "/"+p.ID.Hex(), nil), &got)
	if len(got.Comments) != 0 {
		t.Errorf("unapproved comment visible to public: %+v", got.Comments)
	}

	user := testutil.RegularUser()
	if rec := e.do(t, &user, http.MethodPatch, base+"/"+c.ID.Hex()+"/approve", nil); rec.Code != http.StatusForbidden {
		t.Errorf("plain user approve: got %d, want 403", rec.Code)
	}
	if rec := e.do(t, &editor, http.MethodPatch, base+"/"+c.ID.Hex()+"/approve", nil); rec.Code != http.StatusOK {
		t.Fatalf("approve: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, &user, http.MethodPost, base+"/"+c.ID.Hex()+"/replies", map[string]interface{}{"content": "Agreed"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("reply: got %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := e.do(t, &user, http.MethodPost, base+"/"+p.ID.Hex()+"/replies", map[string]interface{}{"content": "lost"}); rec.Code != http.StatusNotFound {
		t.Errorf("reply to missing comment: got %d, want 404", rec.Code)
	}

	testutil.DecodeEnvelope(t, e.do(t, nil, http.MethodGet, "/"+p.ID.Hex(), nil), &got)
	if len(got.Comments) != 1 || len(got.Comments[0].Replies) != 1 {
		t.Fatalf("approved thread: %+v", got.Comments)
	}
	if r := got.Comments[0].Replies[0]; r.Name != user.Name || r.UserID == nil {
		t.Errorf("reply author: %+v", r)
	}
}

func TestLikeUpdateDelete(t *testing.T) {
	e := setup(t)
	editor := testutil.NewTestUser(models.RoleEditor)
	p := e.post(t, editor, "Original Title", models.BlogDraft)

	var likes map[string]int
	testutil.DecodeEnvelope(t, e.do(t, nil, http.MethodPost, "/"+p.ID.Hex()+"/like", nil), &likes)
	testutil.DecodeEnvelope(t, e.do(t, nil, http.MethodPost, "/"+p.ID.Hex()+"/like", nil), &likes)
	if likes["likeCount"] != 2 {
		t.Errorf("likeCount: %v", likes)
	}

	rec := e.do(t, &editor, http.MethodPatch, "/"+p.ID.Hex(), map[string]interface{}{"title": "Renamed Title", "status": "published"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got %d, body %s", rec.Code, rec.Body.String())
	}
	var got postResp
	testutil.DecodeEnvelope(t, rec, &got)
	if got.Slug != "renamed-title" || got.PublishedAt == nil || got.LikeCount != 2 {
		t.Errorf("after update: slug=%q publishedAt=%v likes=%d", got.Slug, got.PublishedAt, got.LikeCount)
	}

	if rec := e.do(t, &editor, http.MethodDelete, "/"+p.ID.Hex(), nil); rec.Code != http.StatusOK {
		t.Fatalf("delete: got %d", rec.Code)
	}
	if rec := e.do(t, nil, http.MethodPost, "/"+p.ID.Hex()+"/like", nil); rec.Code != http.StatusNotFound {
		t.Errorf("like after delete: got %d, want 404", rec.Code)
	}
}
