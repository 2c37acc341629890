package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingCategories is the closed set of training categories.
var TrainingCategories = []string{
	"web-development",
	"mobile-development",
	"data-science",
	"cloud-computing",
	"cybersecurity",
	"devops",
	"ui-ux-design",
	"digital-marketing",
	"project-management",
	"other",
}

// TrainingLevels is the closed set of difficulty levels.
var TrainingLevels = []string{"beginner", "intermediate", "advanced"}

// Duration is a length of time expressed as a value and a unit
// (hours, days, weeks, months).
type Duration struct {
	Value int    `bson:"value" json:"value"`
	Unit  string `bson:"unit" json:"unit"`
}

// Instructor is embedded in a training; it is not a reference to a user.
type Instructor struct {
	Name   string `bson:"name" json:"name"`
	Bio    string `bson:"bio,omitempty" json:"bio,omitempty"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Email  string `bson:"email,omitempty" json:"email,omitempty"`
}

// CurriculumModule is one entry of a training's ordered curriculum.
type CurriculumModule struct {
	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Duration    string   `bson:"duration,omitempty" json:"duration,omitempty"`
	Order       int      `bson:"order" json:"order"`
	Topics      []string `bson:"topics,omitempty" json:"topics,omitempty"`
}

// Rating is an aggregate star rating.
type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

// Training is a course offered by the company.
// EnrollmentCount is maintained by the enrollment store, never by clients.
type Training struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title           string              `bson:"title" json:"title"`
	TitleCI         string              `bson:"title_ci" json:"-"`
	Description     string              `bson:"description" json:"description"`
	Category        string              `bson:"category" json:"category"`
	Level           string              `bson:"level" json:"level"`
	Duration        Duration            `bson:"duration" json:"duration"`
	Price           float64             `bson:"price" json:"price"`
	Currency        string              `bson:"currency" json:"currency"`
	Instructor      Instructor          `bson:"instructor" json:"instructor"`
	Curriculum      []CurriculumModule  `bson:"curriculum" json:"curriculum"`
	EnrollmentCount int                 `bson:"enrollment_count" json:"enrollmentCount"`
	Rating          Rating              `bson:"rating" json:"rating"`
	MaxStudents     int                 `bson:"max_students,omitempty" json:"maxStudents,omitempty"`
	StartDate       *time.Time          `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate         *time.Time          `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Tags            []string            `bson:"tags,omitempty" json:"tags,omitempty"`
	Image           string              `bson:"image,omitempty" json:"image,omitempty"`
	Active          *bool               `bson:"active,omitempty" json:"active,omitempty"`
	Featured        bool                `bson:"featured" json:"featured"`
	CreatedBy       *primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsActive reports whether the training is open; an absent flag means open.
func (t *Training) IsActive() bool {
	return ActiveFlag(t.Active)
}

// Ref returns the populated form of the training.
func (t *Training) Ref() TrainingRef {
	return TrainingRef{ID: t.ID, Title: t.Title, Category: t.Category, Level: t.Level}
}

// SortCurriculum orders modules by their Order field, keeping the input order
// for ties, and renumbers modules without an explicit order.
func SortCurriculum(mods []CurriculumModule) []CurriculumModule {
	out := make([]CurriculumModule, len(mods))
	copy(out, mods)
	for i := range out {
		if out[i].Order <= 0 {
			out[i].Order = i + 1
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
