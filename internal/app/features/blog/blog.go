// internal/app/features/blog/blog.go
package blog

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	blogstore "github.com/dalemusser/careerhub/internal/app/store/blog"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, blogstore.ErrDuplicateSlug):
		err = wafflerrors.Conflict(err.Error())
	case errors.Is(err, blogstore.ErrEmptySlug):
		err = wafflerrors.Validation(err.Error())
	}
	respond.Error(w, h.Log, respond.Store(err, "Post"))
}

func (h *Handler) populate(ctx context.Context, items []models.BlogPost) ([]postView, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.AuthorID)
	}
	authors, err := h.Users.Refs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]postView, 0, len(items))
	for _, p := range items {
		v := postView{BlogPost: p}
		if a, ok := authors[p.AuthorID]; ok {
			v.Author = &a
		}
		out = append(out, v)
	}
	return out, nil
}

func (h *Handler) respondOne(ctx context.Context, w http.ResponseWriter, p *models.BlogPost, status int) {
	views, err := h.populate(ctx, []models.BlogPost{*p})
	if err != nil {
		h.fail(w, err)
		return
	}
	if status == http.StatusCreated {
		respond.Created(w, views[0])
		return
	}
	respond.OK(w, views[0])
}

// List handles GET /api/blog. Readers outside the editorial staff only see
// published posts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	staff := authz.IsStaff(r)
	if query.Get(r, "summary") == "true" && staff {
		sum, err := h.Store.Summarize(ctx)
		if err != nil {
			h.fail(w, err)
			return
		}
		respond.OK(w, sum)
		return
	}

	author, err := respond.QueryID(r, "author")
	if err != nil {
		h.fail(w, err)
		return
	}
	f := blogstore.ListFilter{
		Search:   query.Search(r, "search"),
		Status:   query.Get(r, "status"),
		Category: query.Get(r, "category"),
		Tag:      query.Get(r, "tag"),
		AuthorID: author,
	}
	if !staff {
		f.Status = models.BlogPublished
	}
	pg := paging.Parse(r)
	items, total, err := h.Store.List(ctx, f, pg)
	if err != nil {
		h.fail(w, err)
		return
	}
	views, err := h.populate(ctx, items)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, paging.NewList(views, pg, total))
}

// Get handles GET /api/blog/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.read(ctx, w, r, p)
}

// GetBySlug handles GET /api/blog/slug/{slug}.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Store.GetBySlug(ctx, chi.URLParam(r, "slug"), !authz.IsStaff(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.read(ctx, w, r, p)
}

// read hides unpublished posts and unapproved comments from readers outside
// the editorial staff, and counts the view.
func (h *Handler) read(ctx context.Context, w http.ResponseWriter, r *http.Request, p *models.BlogPost) {
	if !authz.IsStaff(r) {
		if p.Status != models.BlogPublished {
			respond.Fail(w, http.StatusNotFound, "Post not found")
			return
		}
		p.Comments = p.ApprovedComments()
	}
	if err := h.Store.IncViews(ctx, p.ID); err != nil {
		h.Log.Warn("blog view count failed", zap.String("post_id", p.ID.Hex()), zap.Error(err))
	} else {
		p.ViewCount++
	}
	h.respondOne(ctx, w, p, http.StatusOK)
}

// Create handles POST /api/blog. The caller becomes the author.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	p := req.post()
	p.AuthorID = authz.UserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, p)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "blog_post", audit.ActionCreated, created.ID.Hex(), map[string]string{"slug": created.Slug})
	h.respondOne(ctx, w, &created, http.StatusCreated)
}

// Update handles PUT and PATCH /api/blog/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req updateRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	req.apply(p)
	if err := h.Store.Save(ctx, p); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "blog_post", audit.ActionUpdated, id.Hex(), nil)
	h.respondOne(ctx, w, p, http.StatusOK)
}

// Delete handles DELETE /api/blog/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "blog_post", audit.ActionDeleted, id.Hex(), nil)
	respond.Message(w, "Post deleted", nil)
}

// Like handles POST /api/blog/{id}/like.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Store.Like(ctx, id)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, map[string]int{"likeCount": n})
}

// author resolves who is commenting: the session user when signed in,
// otherwise the supplied name.
func author(r *http.Request, req commentRequest) (*primitive.ObjectID, string, error) {
	if u, ok := auth.CurrentUser(r); ok {
		id := authz.UserID(r)
		return &id, u.Name, nil
	}
	name := htmlsanitize.StripTags(req.Name)
	if name == "" {
		return nil, "", wafflerrors.Validation("name is required")
	}
	return nil, name, nil
}

// commentTarget checks the post exists and is open to the caller.
func (h *Handler) commentTarget(ctx context.Context, r *http.Request) (primitive.ObjectID, error) {
	id, err := respond.ID(r, "id")
	if err != nil {
		return id, err
	}
	p, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return id, err
	}
	if p.Status != models.BlogPublished && !authz.IsStaff(r) {
		return id, wafflerrors.NotFound("Post not found")
	}
	return id, nil
}

// AddComment handles POST /api/blog/{id}/comments.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	uid, name, err := author(r, req)
	if err != nil {
		h.fail(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := h.commentTarget(ctx, r)
	if err != nil {
		h.fail(w, err)
		return
	}
	c, err := h.Store.AddComment(ctx, id, models.Comment{
		UserID:  uid,
		Name:    name,
		Content: htmlsanitize.StripTags(req.Content),
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.Created(w, c)
}

// AddReply handles POST /api/blog/{id}/comments/{commentId}/replies.
func (h *Handler) AddReply(w http.ResponseWriter, r *http.Request) {
	commentID, err := respond.ID(r, "commentId")
	if err != nil {
		h.fail(w, err)
		return
	}
	var req commentRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	uid, name, err := author(r, req)
	if err != nil {
		h.fail(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := h.commentTarget(ctx, r)
	if err != nil {
		h.fail(w, err)
		return
	}
	reply, err := h.Store.AddReply(ctx, id, commentID, models.CommentReply{
		UserID:  uid,
		Name:    name,
		Content: htmlsanitize.StripTags(req.Content),
	})
	if err != nil {
		respond.Error(w, h.Log, respond.Store(err, "Comment"))
		return
	}
	respond.Created(w, reply)
}

// ApproveComment handles PATCH /api/blog/{id}/comments/{commentId}/approve.
// An empty body approves; {"approved": false} hides the comment again.
func (h *Handler) ApproveComment(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	commentID, err := respond.ID(r, "commentId")
	if err != nil {
		h.fail(w, err)
		return
	}
	approved := true
	if r.ContentLength > 0 {
		var req approveRequest
		if err := respond.Bind(r, &req); err != nil {
			h.fail(w, err)
			return
		}
		if req.Approved != nil {
			approved = *req.Approved
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.SetCommentApproved(ctx, id, commentID, approved); err != nil {
		respond.Error(w, h.Log, respond.Store(err, "Comment"))
		return
	}
	h.Audit.AdminAction(ctx, r, "blog_comment", audit.ActionStatus, commentID.Hex(), map[string]string{"post_id": id.Hex()})
	respond.Message(w, "Comment updated", map[string]bool{"approved": approved})
}
