// internal/app/features/products/products.go
package products

import (
	"context"
	"net/http"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	productstore "github.com/dalemusser/careerhub/internal/app/store/products"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

func (h *Handler) fail(w http.ResponseWriter, err error) {
	respond.Error(w, h.Log, respond.Store(err, "Product"))
}

// List handles GET /api/products. Callers who cannot manage products only
// see active ones.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if query.Get(r, "summary") == "true" && authz.Allowed(r, authz.Products.Write) {
		sum, err := h.Store.Summarize(ctx)
		if err != nil {
			h.fail(w, err)
			return
		}
		respond.OK(w, sum)
		return
	}

	minPrice, err := respond.QueryFloat(r, "minPrice")
	if err != nil {
		h.fail(w, err)
		return
	}
	maxPrice, err := respond.QueryFloat(r, "maxPrice")
	if err != nil {
		h.fail(w, err)
		return
	}
	f := productstore.ListFilter{
		Search:   query.Search(r, "search"),
		Category: query.Get(r, "category"),
		Status:   query.Get(r, "status"),
		Featured: respond.QueryBool(r, "featured"),
		InStock:  query.Get(r, "inStock") == "true",
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     paging.Sort(query.Get(r, "sort"), productstore.SortFields),
	}
	if !authz.Allowed(r, authz.Products.Write) {
		f.Status = models.ProductActive
	}
	pg := paging.Parse(r)
	items, total, err := h.Store.List(ctx, f, pg)
	if err != nil {
		h.fail(w, err)
		return
	}
	respond.OK(w, paging.NewList(views(items), pg, total))
}

// Get handles GET /api/products/{id}. Products that are not active are
// hidden from callers who cannot manage them.
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
	if p.Status != models.ProductActive && !authz.Allowed(r, authz.Products.Write) {
		respond.Fail(w, http.StatusNotFound, "Product not found")
		return
	}
	respond.OK(w, view(p))
}

// Create handles POST /api/products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	p := req.product()
	uid := authz.UserID(r)
	p.CreatedBy = &uid

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Store.Create(ctx, p)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "product", audit.ActionCreated, created.ID.Hex(), map[string]string{"name": created.Name})
	respond.Created(w, view(&created))
}

// Update handles PUT and PATCH /api/products/{id}.
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
	h.Audit.AdminAction(ctx, r, "product", audit.ActionUpdated, id.Hex(), nil)
	respond.OK(w, view(p))
}

// Delete handles DELETE /api/products/{id}.
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
	h.Audit.AdminAction(ctx, r, "product", audit.ActionDeleted, id.Hex(), nil)
	respond.Message(w, "Product deleted", nil)
}
