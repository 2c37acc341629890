package enrollments

import (
	"context"

	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// enrollmentView is an enrollment with its user and training populated.
// A deleted user or training populates as null.
type enrollmentView struct {
	models.Enrollment
	User     *models.UserRef     `json:"user"`
	Training *models.TrainingRef `json:"training"`
}

func (h *Handler) populate(ctx context.Context, items []models.Enrollment) ([]enrollmentView, error) {
	userIDs := make([]primitive.ObjectID, 0, len(items))
	trainingIDs := make([]primitive.ObjectID, 0, len(items))
	for _, e := range items {
		userIDs = append(userIDs, e.UserID)
		trainingIDs = append(trainingIDs, e.TrainingID)
	}
	users, err := h.Users.Refs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	trainings, err := h.Trainings.Refs(ctx, trainingIDs)
	if err != nil {
		return nil, err
	}

	out := make([]enrollmentView, 0, len(items))
	for _, e := range items {
		v := enrollmentView{Enrollment: e}
		if u, ok := users[e.UserID]; ok {
			v.User = &u
		}
		if t, ok := trainings[e.TrainingID]; ok {
			v.Training = &t
		}
		out = append(out, v)
	}
	return out, nil
}

func (h *Handler) populateOne(ctx context.Context, e *models.Enrollment) (enrollmentView, error) {
	views, err := h.populate(ctx, []models.Enrollment{*e})
	if err != nil {
		return enrollmentView{}, err
	}
	return views[0], nil
}
