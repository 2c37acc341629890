// internal/domain/models/job.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmploymentTypes lists the job employment types.
var EmploymentTypes = []string{"Full-time", "Part-time", "Contract", "Temporary"}

// ExperienceLevels lists the job experience levels.
var ExperienceLevels = []string{"Entry", "Mid", "Senior", "Lead", "Executive"}

// Salary types.
const (
	SalaryRange      = "range"
	SalaryFixed      = "fixed"
	SalaryNegotiable = "negotiable"
)

// Pay periods.
var PayPeriods = []string{"hourly", "monthly", "yearly"}

// Salary describes compensation for a job.
type Salary struct {
	Type     string  `bson:"type" json:"type"`
	Min      float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max      float64 `bson:"max,omitempty" json:"max,omitempty"`
	Amount   float64 `bson:"amount,omitempty" json:"amount,omitempty"`
	Currency string  `bson:"currency" json:"currency"`
	Period   string  `bson:"period" json:"period"`
}

// Job is an open position.
type Job struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title               string              `bson:"title" json:"title"`
	TitleCI             string              `bson:"title_ci" json:"-"`
	Description         string              `bson:"description" json:"description"`
	Department          string              `bson:"department" json:"department"`
	Location            string              `bson:"location" json:"location"`
	EmploymentType      string              `bson:"employment_type" json:"employmentType"`
	ExperienceLevel     string              `bson:"experience_level" json:"experienceLevel"`
	Salary              Salary              `bson:"salary" json:"salary"`
	Requirements        []string            `bson:"requirements" json:"requirements"`
	Responsibilities    []string            `bson:"responsibilities" json:"responsibilities"`
	Skills              []string            `bson:"skills" json:"skills"`
	Benefits            []string            `bson:"benefits" json:"benefits"`
	ApplicationDeadline *time.Time          `bson:"application_deadline,omitempty" json:"applicationDeadline,omitempty"`
	MaxApplications     int                 `bson:"max_applications,omitempty" json:"maxApplications,omitempty"`
	ApplicationCount    int                 `bson:"application_count" json:"applicationCount"`
	ViewCount           int                 `bson:"view_count" json:"viewCount"`
	Status              string              `bson:"status" json:"status"`
	Remote              bool                `bson:"remote" json:"remote"`
	Featured            bool                `bson:"featured" json:"featured"`
	CreatedBy           *primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// EffectiveStatus is the status after deadline and capacity rules at now.
func (j *Job) EffectiveStatus(now time.Time) string {
	return ApplyAutoStatus(j.Status, j.ApplicationDeadline, j.ApplicationCount, j.MaxApplications, now)
}

// Ref returns the populated form of the job.
func (j *Job) Ref() PostingRef {
	return PostingRef{ID: j.ID, Title: j.Title, Department: j.Department, Location: j.Location, Status: j.Status}
}

// JobApplication is a candidate's application to a job.
// (job, applicant.email) is unique.
type JobApplication struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobID             primitive.ObjectID `bson:"job" json:"job"`
	Applicant         Applicant          `bson:"applicant" json:"applicant"`
	Resume            Resume             `bson:"resume" json:"resume"`
	CoverLetter       string             `bson:"cover_letter,omitempty" json:"coverLetter,omitempty"`
	YearsOfExperience int                `bson:"years_of_experience" json:"yearsOfExperience"`
	ExpectedSalary    float64            `bson:"expected_salary,omitempty" json:"expectedSalary,omitempty"`
	AvailableFrom     *time.Time         `bson:"available_from,omitempty" json:"availableFrom,omitempty"`
	Review            `bson:",inline"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Submit implements Submission.
func (a *JobApplication) Submit(now time.Time) primitive.ObjectID {
	a.ID = primitive.NewObjectID()
	a.Applicant.normalize()
	a.Review.reset()
	a.CreatedAt = now
	a.UpdatedAt = now
	return a.ID
}

// Posting implements Submission.
func (a *JobApplication) Posting() primitive.ObjectID { return a.JobID }
