package teammembers

import "github.com/dalemusser/careerhub/internal/domain/models"

type socialDTO struct {
	LinkedIn string `json:"linkedin" validate:"omitempty,httpurl"`
	Twitter  string `json:"twitter" validate:"omitempty,httpurl"`
	GitHub   string `json:"github" validate:"omitempty,httpurl"`
}

type createRequest struct {
	Name       string    `json:"name" validate:"required,min=2,max=100"`
	Position   string    `json:"position" validate:"required,max=100"`
	Department string    `json:"department" validate:"max=100"`
	Bio        string    `json:"bio" validate:"max=1000"`
	Image      string    `json:"image" validate:"omitempty,httpurl"`
	Email      string    `json:"email" validate:"omitempty,email"`
	Social     socialDTO `json:"social"`
	Order      int       `json:"order" validate:"gte=0"`
	Active     *bool     `json:"active"`
}

func (d createRequest) member() models.TeamMember {
	m := models.TeamMember{
		Name:       d.Name,
		Position:   d.Position,
		Department: d.Department,
		Bio:        d.Bio,
		Image:      d.Image,
		Email:      d.Email,
		Social:     models.SocialLinks(d.Social),
		Order:      d.Order,
		Active:     d.Active,
	}
	if m.Active == nil {
		active := true
		m.Active = &active
	}
	return m
}

type updateRequest struct {
	Name       *string    `json:"name" validate:"omitempty,min=2,max=100"`
	Position   *string    `json:"position" validate:"omitempty,min=1,max=100"`
	Department *string    `json:"department" validate:"omitempty,max=100"`
	Bio        *string    `json:"bio" validate:"omitempty,max=1000"`
	Image      *string    `json:"image" validate:"omitempty,httpurl"`
	Email      *string    `json:"email" validate:"omitempty,email"`
	Social     *socialDTO `json:"social"`
	Order      *int       `json:"order" validate:"omitempty,gte=0"`
	Active     *bool      `json:"active"`
}

func (d updateRequest) apply(m *models.TeamMember) {
	if d.Name != nil {
		m.Name = *d.Name
	}
	if d.Position != nil {
		m.Position = *d.Position
	}
	if d.Department != nil {
		m.Department = *d.Department
	}
	if d.Bio != nil {
		m.Bio = *d.Bio
	}
	if d.Image != nil {
		m.Image = *d.Image
	}
	if d.Email != nil {
		m.Email = *d.Email
	}
	if d.Social != nil {
		m.Social = models.SocialLinks(*d.Social)
	}
	if d.Order != nil {
		m.Order = *d.Order
	}
	if d.Active != nil {
		m.Active = d.Active
	}
}
