package announcements

import (
	"time"

	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
)

type actionDTO struct {
	Text string `json:"text" validate:"max=50"`
	URL  string `json:"url" validate:"omitempty,httpurl"`
}

func (d *actionDTO) action() *models.AnnouncementAction {
	if d == nil || (d.Text == "" && d.URL == "") {
		return nil
	}
	a := models.AnnouncementAction(*d)
	return &a
}

type createRequest struct {
	Title           string     `json:"title" validate:"required,max=200"`
	Content         string     `json:"content" validate:"required,max=2000"`
	Type            string     `json:"type" validate:"omitempty,announcement_type"`
	Priority        string     `json:"priority" validate:"omitempty,priority"`
	TargetAudience  string     `json:"targetAudience" validate:"omitempty,audience"`
	DisplayLocation []string   `json:"displayLocation" validate:"dive,display_location"`
	Active          *bool      `json:"active"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	Dismissible     *bool      `json:"dismissible"`
	Action          *actionDTO `json:"action"`
}

func (d createRequest) announcement() models.Announcement {
	a := models.Announcement{
		Title:           d.Title,
		Content:         d.Content,
		Type:            d.Type,
		Priority:        d.Priority,
		TargetAudience:  d.TargetAudience,
		DisplayLocation: d.DisplayLocation,
		Active:          d.Active,
		EndDate:         d.EndDate,
		Dismissible:     true,
		Action:          d.Action.action(),
	}
	if a.Type == "" {
		a.Type = "info"
	}
	if a.Priority == "" {
		a.Priority = models.PriorityMedium
	}
	if d.StartDate != nil {
		a.StartDate = *d.StartDate
	}
	if d.Dismissible != nil {
		a.Dismissible = *d.Dismissible
	}
	return a
}

// checkWindow rejects an end date before the start date.
func checkWindow(a *models.Announcement) error {
	if a.EndDate != nil && !a.StartDate.IsZero() && a.EndDate.Before(a.StartDate) {
		return wafflerrors.Validation("endDate must not be before startDate")
	}
	return nil
}

type updateRequest struct {
	Title           *string    `json:"title" validate:"omitempty,max=200"`
	Content         *string    `json:"content" validate:"omitempty,max=2000"`
	Type            *string    `json:"type" validate:"omitempty,announcement_type"`
	Priority        *string    `json:"priority" validate:"omitempty,priority"`
	TargetAudience  *string    `json:"targetAudience" validate:"omitempty,audience"`
	DisplayLocation []string   `json:"displayLocation" validate:"omitempty,dive,display_location"`
	Active          *bool      `json:"active"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	Dismissible     *bool      `json:"dismissible"`
	Action          *actionDTO `json:"action"`
}

func (d updateRequest) apply(a *models.Announcement) {
	if d.Title != nil {
		a.Title = *d.Title
	}
	if d.Content != nil {
		a.Content = *d.Content
	}
	if d.Type != nil {
		a.Type = *d.Type
	}
	if d.Priority != nil {
		a.Priority = *d.Priority
	}
	if d.TargetAudience != nil {
		a.TargetAudience = *d.TargetAudience
	}
	if d.DisplayLocation != nil {
		a.DisplayLocation = d.DisplayLocation
	}
	if d.Active != nil {
		a.Active = d.Active
	}
	if d.StartDate != nil {
		a.StartDate = *d.StartDate
	}
	if d.EndDate != nil {
		a.EndDate = d.EndDate
	}
	if d.Dismissible != nil {
		a.Dismissible = *d.Dismissible
	}
	if d.Action != nil {
		a.Action = d.Action.action()
	}
}
