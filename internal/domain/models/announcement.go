// internal/domain/models/announcement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement types.
var AnnouncementTypes = []string{"info", "warning", "success", "error", "promotion"}

// Announcement priorities, lowest first.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// AnnouncementPriorities lists every priority.
var AnnouncementPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Audiences an announcement can target.
const AudienceAll = "all"

var AnnouncementAudiences = []string{AudienceAll, "users", "admins", "instructors", "employees", "managers"}

// Display locations.
const LocationGlobal = "global"

var AnnouncementLocations = []string{LocationGlobal, "dashboard", "homepage", "training", "jobs", "blog"}

// AnnouncementAction is the optional call to action.
type AnnouncementAction struct {
	Text string `bson:"text,omitempty" json:"text,omitempty"`
	URL  string `bson:"url,omitempty" json:"url,omitempty"`
}

// AnnouncementView records that a user has seen (and maybe dismissed) an announcement.
type AnnouncementView struct {
	UserID      primitive.ObjectID `bson:"user" json:"user"`
	ViewedAt    time.Time          `bson:"viewed_at" json:"viewedAt"`
	Dismissed   bool               `bson:"dismissed" json:"dismissed"`
	DismissedAt *time.Time         `bson:"dismissed_at,omitempty" json:"dismissedAt,omitempty"`
}

// Announcement is a banner shown to a target audience in one or more places.
type Announcement struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title           string              `bson:"title" json:"title"`
	Content         string              `bson:"content" json:"content"`
	Type            string              `bson:"type" json:"type"`
	Priority        string              `bson:"priority" json:"priority"`
	PriorityRank    int                 `bson:"priority_rank" json:"-"`
	TargetAudience  string              `bson:"target_audience" json:"targetAudience"`
	DisplayLocation []string            `bson:"display_location" json:"displayLocation"`
	Active          *bool               `bson:"active,omitempty" json:"active,omitempty"`
	StartDate       time.Time           `bson:"start_date" json:"startDate"`
	EndDate         *time.Time          `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Dismissible     bool                `bson:"dismissible" json:"dismissible"`
	Action          *AnnouncementAction `bson:"action,omitempty" json:"action,omitempty"`
	Views           []AnnouncementView  `bson:"views" json:"views,omitempty"`
	ViewCount       int                 `bson:"view_count" json:"viewCount"`
	ClickCount      int                 `bson:"click_count" json:"clickCount"`
	DismissCount    int                 `bson:"dismiss_count" json:"dismissCount"`
	CreatedBy       *primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// PriorityRank maps a priority to a sortable number (urgent highest).
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// IsCurrentlyActive reports whether the announcement should be shown at now.
func (a *Announcement) IsCurrentlyActive(now time.Time) bool {
	if !ActiveFlag(a.Active) {
		return false
	}
	if now.Before(a.StartDate) {
		return false
	}
	return a.EndDate == nil || !now.After(*a.EndDate)
}
