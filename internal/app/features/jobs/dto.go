package jobs

import (
	"time"

	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
)

type salaryDTO struct {
	Type     string  `json:"type" validate:"required,salary_type"`
	Min      float64 `json:"min" validate:"gte=0"`
	Max      float64 `json:"max" validate:"gte=0"`
	Amount   float64 `json:"amount" validate:"gte=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
	Period   string  `json:"period" validate:"omitempty,pay_period"`
}

// checkSalary enforces the per-type salary rules.
func checkSalary(s models.Salary) error {
	switch s.Type {
	case models.SalaryRange:
		if s.Max <= 0 || s.Min > s.Max {
			return wafflerrors.Validation("salary range needs min not greater than max")
		}
	case models.SalaryFixed:
		if s.Amount <= 0 {
			return wafflerrors.Validation("fixed salary needs an amount")
		}
	}
	return nil
}

type createRequest struct {
	Title               string     `json:"title" validate:"required,min=3,max=200"`
	Description         string     `json:"description" validate:"required"`
	Department          string     `json:"department" validate:"required,max=100"`
	Location            string     `json:"location" validate:"required,max=100"`
	EmploymentType      string     `json:"employmentType" validate:"required,employment_type"`
	ExperienceLevel     string     `json:"experienceLevel" validate:"required,experience_level"`
	Salary              salaryDTO  `json:"salary"`
	Requirements        []string   `json:"requirements"`
	Responsibilities    []string   `json:"responsibilities"`
	Skills              []string   `json:"skills"`
	Benefits            []string   `json:"benefits"`
	ApplicationDeadline *time.Time `json:"applicationDeadline" validate:"omitempty,future_date"`
	MaxApplications     int        `json:"maxApplications" validate:"gte=0"`
	Status              string     `json:"status" validate:"omitempty,posting_status"`
	Remote              bool       `json:"remote"`
	Featured            bool       `json:"featured"`
}

func (d createRequest) job() models.Job {
	return models.Job{
		Title:               d.Title,
		Description:         d.Description,
		Department:          d.Department,
		Location:            d.Location,
		EmploymentType:      d.EmploymentType,
		ExperienceLevel:     d.ExperienceLevel,
		Salary:              models.Salary(d.Salary),
		Requirements:        d.Requirements,
		Responsibilities:    d.Responsibilities,
		Skills:              d.Skills,
		Benefits:            d.Benefits,
		ApplicationDeadline: d.ApplicationDeadline,
		MaxApplications:     d.MaxApplications,
		Status:              d.Status,
		Remote:              d.Remote,
		Featured:            d.Featured,
	}
}

// updateRequest does not require a future deadline so a posting can be
// edited after it closed.
type updateRequest struct {
	Title               *string    `json:"title" validate:"omitempty,min=3,max=200"`
	Description         *string    `json:"description" validate:"omitempty,min=1"`
	Department          *string    `json:"department" validate:"omitempty,max=100"`
	Location            *string    `json:"location" validate:"omitempty,max=100"`
	EmploymentType      *string    `json:"employmentType" validate:"omitempty,employment_type"`
	ExperienceLevel     *string    `json:"experienceLevel" validate:"omitempty,experience_level"`
	Salary              *salaryDTO `json:"salary"`
	Requirements        []string   `json:"requirements"`
	Responsibilities    []string   `json:"responsibilities"`
	Skills              []string   `json:"skills"`
	Benefits            []string   `json:"benefits"`
	ApplicationDeadline *time.Time `json:"applicationDeadline"`
	MaxApplications     *int       `json:"maxApplications" validate:"omitempty,gte=0"`
	Status              *string    `json:"status" validate:"omitempty,posting_status"`
	Remote              *bool      `json:"remote"`
	Featured            *bool      `json:"featured"`
}

func (d updateRequest) apply(j *models.Job) {
	if d.Title != nil {
		j.Title = *d.Title
	}
	if d.Description != nil {
		j.Description = *d.Description
	}
	if d.Department != nil {
		j.Department = *d.Department
	}
	if d.Location != nil {
		j.Location = *d.Location
	}
	if d.EmploymentType != nil {
		j.EmploymentType = *d.EmploymentType
	}
	if d.ExperienceLevel != nil {
		j.ExperienceLevel = *d.ExperienceLevel
	}
	if d.Salary != nil {
		j.Salary = models.Salary(*d.Salary)
	}
	if d.Requirements != nil {
		j.Requirements = d.Requirements
	}
	if d.Responsibilities != nil {
		j.Responsibilities = d.Responsibilities
	}
	if d.Skills != nil {
		j.Skills = d.Skills
	}
	if d.Benefits != nil {
		j.Benefits = d.Benefits
	}
	if d.ApplicationDeadline != nil {
		j.ApplicationDeadline = d.ApplicationDeadline
	}
	if d.MaxApplications != nil {
		j.MaxApplications = *d.MaxApplications
	}
	if d.Status != nil {
		j.Status = *d.Status
	}
	if d.Remote != nil {
		j.Remote = *d.Remote
	}
	if d.Featured != nil {
		j.Featured = *d.Featured
	}
}

// jobView carries the status as of the response time.
type jobView struct {
	*models.Job
	EffectiveStatus string `json:"effectiveStatus"`
}

func view(j *models.Job, now time.Time) jobView {
	return jobView{Job: j, EffectiveStatus: j.EffectiveStatus(now)}
}

func views(items []models.Job, now time.Time) []jobView {
	out := make([]jobView, 0, len(items))
	for i := range items {
		out = append(out, view(&items[i], now))
	}
	return out
}
