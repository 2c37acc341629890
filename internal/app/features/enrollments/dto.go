package enrollments

import "github.com/dalemusser/careerhub/internal/domain/models"

// createRequest enrolls a user in a training. User is honoured only for
// staff; everyone else enrolls themselves.
type createRequest struct {
	Training string `json:"training" validate:"required,objectid"`
	User     string `json:"user" validate:"omitempty,objectid"`
	Notes    string `json:"notes" validate:"max=1000"`
}

type paymentDTO struct {
	Amount *float64 `json:"amount" validate:"omitempty,gte=0"`
	Status *string  `json:"status" validate:"omitempty,payment_status"`
}

type updateRequest struct {
	Status  *string     `json:"status" validate:"omitempty,enrollment_status"`
	Payment *paymentDTO `json:"payment"`
	Notes   *string     `json:"notes" validate:"omitempty,max=1000"`
}

// progressRequest reports module progress. A zero TotalModules means the
// length of the training's curriculum.
type progressRequest struct {
	CompletedModules int `json:"completedModules" validate:"gte=0"`
	TotalModules     int `json:"totalModules" validate:"gte=0"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,enrollment_status"`
}

type feedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

func (f feedbackRequest) feedback() models.Feedback {
	return models.Feedback{Rating: f.Rating, Comment: f.Comment}
}
