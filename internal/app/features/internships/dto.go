package internships

import (
	"time"

	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
)

type stipendDTO struct {
	Type     string  `json:"type" validate:"required,stipend_type"`
	Amount   float64 `json:"amount" validate:"gte=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
	Period   string  `json:"period" validate:"omitempty,pay_period"`
}

type durationDTO struct {
	Value int    `json:"value" validate:"gt=0"`
	Unit  string `json:"unit" validate:"duration_unit"`
}

// checkStipend rejects an amount on an unpaid internship and a paid one
// without an amount.
func checkStipend(s models.Stipend) error {
	if s.Type == "unpaid" && s.Amount > 0 {
		return wafflerrors.Validation("an unpaid internship cannot carry a stipend amount")
	}
	if s.Type != "unpaid" && s.Amount <= 0 {
		return wafflerrors.Validation("a paid internship needs a stipend amount")
	}
	return nil
}

type createRequest struct {
	Title               string      `json:"title" validate:"required,min=3,max=200"`
	Description         string      `json:"description" validate:"required"`
	Department          string      `json:"department" validate:"required,max=100"`
	Location            string      `json:"location" validate:"required,max=100"`
	Mode                string      `json:"mode" validate:"required,internship_mode"`
	Stipend             stipendDTO  `json:"stipend"`
	Duration            durationDTO `json:"duration"`
	StartDate           *time.Time  `json:"startDate"`
	Eligibility         []string    `json:"eligibility"`
	Requirements        []string    `json:"requirements"`
	Responsibilities    []string    `json:"responsibilities"`
	Skills              []string    `json:"skills"`
	Benefits            []string    `json:"benefits"`
	ApplicationDeadline *time.Time  `json:"applicationDeadline" validate:"omitempty,future_date"`
	MaxApplications     int         `json:"maxApplications" validate:"gte=0"`
	Status              string      `json:"status" validate:"omitempty,posting_status"`
	Featured            bool        `json:"featured"`
}

func (d createRequest) internship() models.Internship {
	return models.Internship{
		Title:               d.Title,
		Description:         d.Description,
		Department:          d.Department,
		Location:            d.Location,
		Mode:                d.Mode,
		Stipend:             models.Stipend(d.Stipend),
		Duration:            models.Duration(d.Duration),
		StartDate:           d.StartDate,
		Eligibility:         d.Eligibility,
		Requirements:        d.Requirements,
		Responsibilities:    d.Responsibilities,
		Skills:              d.Skills,
		Benefits:            d.Benefits,
		ApplicationDeadline: d.ApplicationDeadline,
		MaxApplications:     d.MaxApplications,
		Status:              d.Status,
		Featured:            d.Featured,
	}
}

type updateRequest struct {
	Title               *string      `json:"title" validate:"omitempty,min=3,max=200"`
	Description         *string      `json:"description" validate:"omitempty,min=1"`
	Department          *string      `json:"department" validate:"omitempty,max=100"`
	Location            *string      `json:"location" validate:"omitempty,max=100"`
	Mode                *string      `json:"mode" validate:"omitempty,internship_mode"`
	Stipend             *stipendDTO  `json:"stipend"`
	Duration            *durationDTO `json:"duration"`
	StartDate           *time.Time   `json:"startDate"`
	Eligibility         []string     `json:"eligibility"`
	Requirements        []string     `json:"requirements"`
	Responsibilities    []string     `json:"responsibilities"`
	Skills              []string     `json:"skills"`
	Benefits            []string     `json:"benefits"`
	ApplicationDeadline *time.Time   `json:"applicationDeadline"`
	MaxApplications     *int         `json:"maxApplications" validate:"omitempty,gte=0"`
	Status              *string      `json:"status" validate:"omitempty,posting_status"`
	Featured            *bool        `json:"featured"`
}

func (d updateRequest) apply(in *models.Internship) {
	if d.Title != nil {
		in.Title = *d.Title
	}
	if d.Description != nil {
		in.Description = *d.Description
	}
	if d.Department != nil {
		in.Department = *d.Department
	}
	if d.Location != nil {
		in.Location = *d.Location
	}
	if d.Mode != nil {
		in.Mode = *d.Mode
	}
	if d.Stipend != nil {
		in.Stipend = models.Stipend(*d.Stipend)
	}
	if d.Duration != nil {
		in.Duration = models.Duration(*d.Duration)
	}
	if d.StartDate != nil {
		in.StartDate = d.StartDate
	}
	if d.Eligibility != nil {
		in.Eligibility = d.Eligibility
	}
	if d.Requirements != nil {
		in.Requirements = d.Requirements
	}
	if d.Responsibilities != nil {
		in.Responsibilities = d.Responsibilities
	}
	if d.Skills != nil {
		in.Skills = d.Skills
	}
	if d.Benefits != nil {
		in.Benefits = d.Benefits
	}
	if d.ApplicationDeadline != nil {
		in.ApplicationDeadline = d.ApplicationDeadline
	}
	if d.MaxApplications != nil {
		in.MaxApplications = *d.MaxApplications
	}
	if d.Status != nil {
		in.Status = *d.Status
	}
	if d.Featured != nil {
		in.Featured = *d.Featured
	}
}

type internshipView struct {
	*models.Internship
	EffectiveStatus string `json:"effectiveStatus"`
}

func view(in *models.Internship, now time.Time) internshipView {
	return internshipView{Internship: in, EffectiveStatus: in.EffectiveStatus(now)}
}

func views(items []models.Internship, now time.Time) []internshipView {
	out := make([]internshipView, 0, len(items))
	for i := range items {
		out = append(out, view(&items[i], now))
	}
	return out
}
