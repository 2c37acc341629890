package trainings

import (
	"time"

	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
)

type durationDTO struct {
	Value int    `json:"value" validate:"gt=0"`
	Unit  string `json:"unit" validate:"duration_unit"`
}

type instructorDTO struct {
	Name   string `json:"name" validate:"required,max=100"`
	Bio    string `json:"bio" validate:"max=1000"`
	Avatar string `json:"avatar" validate:"omitempty,httpurl"`
	Email  string `json:"email" validate:"omitempty,email"`
}

type moduleDTO struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Order       int      `json:"order" validate:"gte=0"`
	Topics      []string `json:"topics"`
}

func modules(in []moduleDTO) []models.CurriculumModule {
	out := make([]models.CurriculumModule, 0, len(in))
	for _, m := range in {
		out = append(out, models.CurriculumModule(m))
	}
	return out
}

type createRequest struct {
	Title       string        `json:"title" validate:"required,min=3,max=200"`
	Description string        `json:"description" validate:"required,min=10"`
	Category    string        `json:"category" validate:"required,training_category"`
	Level       string        `json:"level" validate:"required,training_level"`
	Duration    durationDTO   `json:"duration"`
	Price       float64       `json:"price" validate:"gte=0"`
	Currency    string        `json:"currency" validate:"omitempty,len=3"`
	Instructor  instructorDTO `json:"instructor"`
	Curriculum  []moduleDTO   `json:"curriculum" validate:"dive"`
	MaxStudents int           `json:"maxStudents" validate:"gte=0"`
	StartDate   *time.Time    `json:"startDate"`
	EndDate     *time.Time    `json:"endDate"`
	Tags        []string      `json:"tags"`
	Image       string        `json:"image" validate:"omitempty,httpurl"`
	Active      *bool         `json:"active"`
	Featured    bool          `json:"featured"`
}

func (d createRequest) training() models.Training {
	return models.Training{
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Level:       d.Level,
		Duration:    models.Duration(d.Duration),
		Price:       d.Price,
		Currency:    d.Currency,
		Instructor:  models.Instructor(d.Instructor),
		Curriculum:  modules(d.Curriculum),
		MaxStudents: d.MaxStudents,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Tags:        d.Tags,
		Image:       d.Image,
		Active:      d.Active,
		Featured:    d.Featured,
	}
}

// checkDates rejects an end date before the start date.
func checkDates(t *models.Training) error {
	if t.StartDate != nil && t.EndDate != nil && t.EndDate.Before(*t.StartDate) {
		return wafflerrors.Validation("endDate must not be before startDate")
	}
	return nil
}

// updateRequest fields are applied only when present. A nil slice means the
// field was absent; an empty array clears it.
type updateRequest struct {
	Title       *string        `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string        `json:"description" validate:"omitempty,min=10"`
	Category    *string        `json:"category" validate:"omitempty,training_category"`
	Level       *string        `json:"level" validate:"omitempty,training_level"`
	Duration    *durationDTO   `json:"duration"`
	Price       *float64       `json:"price" validate:"omitempty,gte=0"`
	Currency    *string        `json:"currency" validate:"omitempty,len=3"`
	Instructor  *instructorDTO `json:"instructor"`
	Curriculum  []moduleDTO    `json:"curriculum" validate:"omitempty,dive"`
	MaxStudents *int           `json:"maxStudents" validate:"omitempty,gte=0"`
	StartDate   *time.Time     `json:"startDate"`
	EndDate     *time.Time     `json:"endDate"`
	Tags        []string       `json:"tags"`
	Image       *string        `json:"image" validate:"omitempty,httpurl"`
	Active      *bool          `json:"active"`
	Featured    *bool          `json:"featured"`
}

func (d updateRequest) apply(t *models.Training) {
	if d.Title != nil {
		t.Title = *d.Title
	}
	if d.Description != nil {
		t.Description = *d.Description
	}
	if d.Category != nil {
		t.Category = *d.Category
	}
	if d.Level != nil {
		t.Level = *d.Level
	}
	if d.Duration != nil {
		t.Duration = models.Duration(*d.Duration)
	}
	if d.Price != nil {
		t.Price = *d.Price
	}
	if d.Currency != nil {
		t.Currency = *d.Currency
	}
	if d.Instructor != nil {
		t.Instructor = models.Instructor(*d.Instructor)
	}
	if d.Curriculum != nil {
		t.Curriculum = modules(d.Curriculum)
	}
	if d.MaxStudents != nil {
		t.MaxStudents = *d.MaxStudents
	}
	if d.StartDate != nil {
		t.StartDate = d.StartDate
	}
	if d.EndDate != nil {
		t.EndDate = d.EndDate
	}
	if d.Tags != nil {
		t.Tags = d.Tags
	}
	if d.Image != nil {
		t.Image = *d.Image
	}
	if d.Active != nil {
		t.Active = d.Active
	}
	if d.Featured != nil {
		t.Featured = *d.Featured
	}
}
