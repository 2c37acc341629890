// internal/app/features/enrollments/enrollments.go
package enrollments

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/careerhub/internal/app/store/audit"
	enrollmentstore "github.com/dalemusser/careerhub/internal/app/store/enrollments"
	"github.com/dalemusser/careerhub/internal/app/system/authz"
	"github.com/dalemusser/careerhub/internal/app/system/paging"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/app/system/timeouts"
	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var errNotYours = wafflerrors.Forbidden("You can only access your own enrollments")

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, enrollmentstore.ErrAlreadyEnrolled), errors.Is(err, enrollmentstore.ErrFeedbackExists):
		err = wafflerrors.Conflict(err.Error())
	}
	respond.Error(w, h.Log, respond.Store(err, "Enrollment"))
}

// canRead reports whether the caller may see every enrollment.
func canRead(r *http.Request) bool { return authz.Allowed(r, authz.Enrollments.Read) }

// canManage reports whether the caller may change any enrollment.
func canManage(r *http.Request) bool { return authz.Allowed(r, authz.Enrollments.Write) }

func owns(r *http.Request, e *models.Enrollment) bool { return e.UserID == authz.UserID(r) }

// load fetches the enrollment named by the URL and checks the caller may act
// on it: its owner always can, others need allowed.
func (h *Handler) load(ctx context.Context, r *http.Request, allowed bool) (*models.Enrollment, error) {
	id, err := respond.ID(r, "id")
	if err != nil {
		return nil, err
	}
	e, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowed && !owns(r, e) {
		return nil, errNotYours
	}
	return e, nil
}

func (h *Handler) respondOne(ctx context.Context, w http.ResponseWriter, e *models.Enrollment, status int) {
	v, err := h.populateOne(ctx, e)
	if err != nil {
		h.fail(w, err)
		return
	}
	if status == http.StatusCreated {
		respond.Created(w, v)
		return
	}
	respond.OK(w, v)
}

// List handles GET /api/enrollments. Staff see every enrollment; anyone else,
// and staff passing mine=true, see only their own.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var f enrollmentstore.ListFilter
	var err error
	if f.TrainingID, err = respond.QueryID(r, "training"); err != nil {
		h.fail(w, err)
		return
	}
	if f.UserID, err = respond.QueryID(r, "user"); err != nil {
		h.fail(w, err)
		return
	}
	f.Status = query.Get(r, "status")
	f.Payment = query.Get(r, "payment")
	if query.Get(r, "mine") == "true" || !canRead(r) {
		self := authz.UserID(r)
		f.UserID = &self
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if query.Get(r, "summary") == "true" {
		sum, err := h.Store.Summarize(ctx, f)
		if err != nil {
			h.fail(w, err)
			return
		}
		respond.OK(w, sum)
		return
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

// Get handles GET /api/enrollments/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.load(ctx, r, canRead(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondOne(ctx, w, e, http.StatusOK)
}

// Create handles POST /api/enrollments. The training must be active and have
// room; the enrollment's amount is the training price.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	trainingID, _ := primitive.ObjectIDFromHex(req.Training)
	userID := authz.UserID(r)
	if req.User != "" && req.User != userID.Hex() {
		if !canManage(r) {
			h.fail(w, wafflerrors.Forbidden("You can only enroll yourself"))
			return
		}
		userID, _ = primitive.ObjectIDFromHex(req.User)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		respond.Error(w, h.Log, respond.Store(err, "User"))
		return
	}
	t, err := h.Trainings.GetByID(ctx, trainingID)
	if err != nil {
		respond.Error(w, h.Log, respond.Store(err, "Training"))
		return
	}
	if !t.IsActive() {
		h.fail(w, wafflerrors.BadRequest("Training is not open for enrollment"))
		return
	}
	if t.MaxStudents > 0 && t.EnrollmentCount >= t.MaxStudents {
		h.fail(w, wafflerrors.BadRequest("Training is full"))
		return
	}

	e, err := h.Store.Create(ctx, models.Enrollment{
		UserID:     userID,
		TrainingID: trainingID,
		Progress:   models.Progress{TotalModules: len(t.Curriculum)},
		Payment:    models.Payment{Amount: t.Price},
		Notes:      req.Notes,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "enrollment", audit.ActionCreated, e.ID.Hex(), map[string]string{
		"user": userID.Hex(), "training": trainingID.Hex(),
	})
	h.respondOne(ctx, w, &e, http.StatusCreated)
}

// Update handles PUT and PATCH /api/enrollments/{id} for staff.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.load(ctx, r, true)
	if err != nil {
		h.fail(w, err)
		return
	}
	now := time.Now().UTC()
	if req.Status != nil {
		setStatus(e, *req.Status, now)
	}
	if p := req.Payment; p != nil {
		if p.Amount != nil {
			e.Payment.Amount = *p.Amount
		}
		if p.Status != nil {
			if *p.Status == models.PaymentPaid && e.Payment.Status != models.PaymentPaid {
				e.Payment.PaidAt = &now
			}
			e.Payment.Status = *p.Status
		}
	}
	if req.Notes != nil {
		e.Notes = *req.Notes
	}
	if err := h.Store.Save(ctx, e); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "enrollment", audit.ActionUpdated, e.ID.Hex(), nil)
	h.respondOne(ctx, w, e, http.StatusOK)
}

// setStatus changes e's status, stamping completed_at on completion.
func setStatus(e *models.Enrollment, status string, now time.Time) {
	if status == models.EnrollmentCompleted && e.CompletedAt == nil {
		e.CompletedAt = &now
	}
	e.Status = status
}

// Delete handles DELETE /api/enrollments/{id}; the training's counter drops
// by one.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "enrollment", audit.ActionDeleted, id.Hex(), nil)
	respond.Message(w, "Enrollment deleted", nil)
}

// UpdateProgress handles PATCH /api/enrollments/{id}/progress.
func (h *Handler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.load(ctx, r, canManage(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	total := req.TotalModules
	if total == 0 {
		t, err := h.Trainings.GetByID(ctx, e.TrainingID)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			h.fail(w, err)
			return
		}
		if t != nil {
			total = len(t.Curriculum)
		}
	}
	if req.CompletedModules > total {
		h.fail(w, wafflerrors.Validation("completedModules must not exceed totalModules"))
		return
	}

	e.UpdateProgress(req.CompletedModules, total, time.Now().UTC())
	if err := h.Store.Save(ctx, e); err != nil {
		h.fail(w, err)
		return
	}
	h.respondOne(ctx, w, e, http.StatusOK)
}

// SetStatus handles PATCH /api/enrollments/{id}/status. Owners may only
// cancel.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	manager := canManage(r)
	if !manager && req.Status != models.EnrollmentCancelled {
		h.fail(w, wafflerrors.Forbidden("You can only cancel your enrollment"))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.load(ctx, r, manager)
	if err != nil {
		h.fail(w, err)
		return
	}
	old := e.Status
	setStatus(e, req.Status, time.Now().UTC())
	if err := h.Store.Save(ctx, e); err != nil {
		h.fail(w, err)
		return
	}
	h.Audit.AdminAction(ctx, r, "enrollment", audit.ActionStatus, e.ID.Hex(), map[string]string{"status": old + " -> " + e.Status})
	h.respondOne(ctx, w, e, http.StatusOK)
}

// SubmitFeedback handles POST /api/enrollments/{id}/feedback. Only the
// learner can rate, once.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := respond.BindValid(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.load(ctx, r, false)
	if err != nil {
		h.fail(w, err)
		return
	}
	if e.Status == models.EnrollmentCancelled || e.Status == models.EnrollmentPending {
		h.fail(w, wafflerrors.BadRequest("Feedback is only accepted for started enrollments"))
		return
	}
	updated, err := h.Store.SetFeedback(ctx, e.ID, req.feedback())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondOne(ctx, w, updated, http.StatusOK)
}

// IssueCertificate handles POST /api/enrollments/{id}/certificate. Issuing
// twice returns the first certificate.
func (h *Handler) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, err := h.load(ctx, r, canManage(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	if !e.IsComplete() {
		h.fail(w, wafflerrors.BadRequest("Enrollment is not complete"))
		return
	}
	certID := uuid.NewString()
	updated, err := h.Store.IssueCertificate(ctx, e.ID, certID, "/certificates/"+certID)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respondOne(ctx, w, updated, http.StatusOK)
}
