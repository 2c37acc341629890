// internal/domain/models/internship.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stipend types.
var StipendTypes = []string{"paid", "unpaid", "stipend"}

// InternshipModes lists where an internship is carried out.
var InternshipModes = []string{"On-site", "Remote", "Hybrid"}

// Stipend describes what an intern is paid.
type Stipend struct {
	Type     string  `bson:"type" json:"type"`
	Amount   float64 `bson:"amount,omitempty" json:"amount,omitempty"`
	Currency string  `bson:"currency,omitempty" json:"currency,omitempty"`
	Period   string  `bson:"period,omitempty" json:"period,omitempty"`
}

// Internship is an open internship. Statuses match Job.
type Internship struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title               string              `bson:"title" json:"title"`
	TitleCI             string              `bson:"title_ci" json:"-"`
	Description         string              `bson:"description" json:"description"`
	Department          string              `bson:"department" json:"department"`
	Location            string              `bson:"location" json:"location"`
	Mode                string              `bson:"mode" json:"mode"`
	Stipend             Stipend             `bson:"stipend" json:"stipend"`
	Duration            Duration            `bson:"duration" json:"duration"`
	StartDate           *time.Time          `bson:"start_date,omitempty" json:"startDate,omitempty"`
	Eligibility         []string            `bson:"eligibility" json:"eligibility"`
	Requirements        []string            `bson:"requirements" json:"requirements"`
	Responsibilities    []string            `bson:"responsibilities" json:"responsibilities"`
	Skills              []string            `bson:"skills" json:"skills"`
	Benefits            []string            `bson:"benefits" json:"benefits"`
	ApplicationDeadline *time.Time          `bson:"application_deadline,omitempty" json:"applicationDeadline,omitempty"`
	MaxApplications     int                 `bson:"max_applications,omitempty" json:"maxApplications,omitempty"`
	ApplicationCount    int                 `bson:"application_count" json:"applicationCount"`
	ViewCount           int                 `bson:"view_count" json:"viewCount"`
	Status              string              `bson:"status" json:"status"`
	Featured            bool                `bson:"featured" json:"featured"`
	CreatedBy           *primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// EffectiveStatus is the status after deadline and capacity rules at now.
func (in *Internship) EffectiveStatus(now time.Time) string {
	return ApplyAutoStatus(in.Status, in.ApplicationDeadline, in.ApplicationCount, in.MaxApplications, now)
}

// Ref returns the populated form of the internship.
func (in *Internship) Ref() PostingRef {
	return PostingRef{ID: in.ID, Title: in.Title, Department: in.Department, Location: in.Location, Status: in.Status}
}

// Education is an intern applicant's schooling.
type Education struct {
	Institution    string `bson:"institution" json:"institution"`
	Degree         string `bson:"degree" json:"degree"`
	Field          string `bson:"field,omitempty" json:"field,omitempty"`
	GraduationYear int    `bson:"graduation_year,omitempty" json:"graduationYear,omitempty"`
}

// InternshipApplication is a candidate's application to an internship.
// (internship, applicant.email) is unique.
type InternshipApplication struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InternshipID  primitive.ObjectID `bson:"internship" json:"internship"`
	Applicant     Applicant          `bson:"applicant" json:"applicant"`
	Education     Education          `bson:"education" json:"education"`
	Resume        Resume             `bson:"resume" json:"resume"`
	CoverLetter   string             `bson:"cover_letter,omitempty" json:"coverLetter,omitempty"`
	AvailableFrom *time.Time         `bson:"available_from,omitempty" json:"availableFrom,omitempty"`
	Review        `bson:",inline"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Submit implements Submission.
func (a *InternshipApplication) Submit(now time.Time) primitive.ObjectID {
	a.ID = primitive.NewObjectID()
	a.Applicant.normalize()
	a.Review.reset()
	a.CreatedAt = now
	a.UpdatedAt = now
	return a.ID
}

// Posting implements Submission.
func (a *InternshipApplication) Posting() primitive.ObjectID { return a.InternshipID }
