package users

import "github.com/dalemusser/careerhub/internal/domain/models"

type createRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,role"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	Avatar   string `json:"avatar" validate:"omitempty,httpurl"`
	Active   *bool  `json:"active"`
}

func (d createRequest) user(hash string) models.User {
	return models.User{
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: hash,
		Role:         d.Role,
		Phone:        d.Phone,
		Avatar:       d.Avatar,
		Active:       d.Active,
		Provider:     models.ProviderCredentials,
	}
}

type updateRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Role   *string `json:"role" validate:"omitempty,role"`
	Phone  *string `json:"phone" validate:"omitempty,max=30"`
	Avatar *string `json:"avatar"`
	Active *bool   `json:"active"`
}

func (d updateRequest) apply(u *models.User) {
	if d.Name != nil {
		u.Name = *d.Name
	}
	if d.Email != nil {
		u.Email = *d.Email
	}
	if d.Role != nil {
		u.Role = *d.Role
	}
	if d.Phone != nil {
		u.Phone = *d.Phone
	}
	if d.Avatar != nil {
		u.Avatar = *d.Avatar
	}
	if d.Active != nil {
		u.Active = d.Active
	}
}

type passwordRequest struct {
	Password string `json:"password" validate:"required"`
}

type statusRequest struct {
	Active *bool `json:"active" validate:"required"`
}
