// internal/domain/models/enrollment.go
package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment statuses.
const (
	EnrollmentPending    = "pending"
	EnrollmentConfirmed  = "confirmed"
	EnrollmentInProgress = "in-progress"
	EnrollmentCompleted  = "completed"
	EnrollmentCancelled  = "cancelled"
)

// EnrollmentStatuses lists every enrollment status.
var EnrollmentStatuses = []string{
	EnrollmentPending, EnrollmentConfirmed, EnrollmentInProgress, EnrollmentCompleted, EnrollmentCancelled,
}

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Progress tracks how far a learner is through a training.
type Progress struct {
	CompletedModules int        `bson:"completed_modules" json:"completedModules"`
	TotalModules     int        `bson:"total_modules" json:"totalModules"`
	Percentage       int        `bson:"percentage" json:"percentage"`
	LastAccessedAt   *time.Time `bson:"last_accessed_at,omitempty" json:"lastAccessedAt,omitempty"`
}

// Certificate is issued once an enrollment is complete.
type Certificate struct {
	Issued        bool       `bson:"issued" json:"issued"`
	IssuedAt      *time.Time `bson:"issued_at,omitempty" json:"issuedAt,omitempty"`
	CertificateID string     `bson:"certificate_id,omitempty" json:"certificateId,omitempty"`
	URL           string     `bson:"url,omitempty" json:"url,omitempty"`
}

// Feedback is the learner's rating of a training.
type Feedback struct {
	Rating      int        `bson:"rating" json:"rating"`
	Comment     string     `bson:"comment,omitempty" json:"comment,omitempty"`
	SubmittedAt *time.Time `bson:"submitted_at,omitempty" json:"submittedAt,omitempty"`
}

// Payment records what was paid for an enrollment.
type Payment struct {
	Amount float64    `bson:"amount" json:"amount"`
	Status string     `bson:"status" json:"status"`
	PaidAt *time.Time `bson:"paid_at,omitempty" json:"paidAt,omitempty"`
}

// Enrollment links a user to a training. (user, training) is unique.
type Enrollment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user" json:"user"`
	TrainingID  primitive.ObjectID `bson:"training" json:"training"`
	Status      string             `bson:"status" json:"status"`
	Progress    Progress           `bson:"progress" json:"progress"`
	Certificate Certificate        `bson:"certificate" json:"certificate"`
	Feedback    *Feedback          `bson:"feedback,omitempty" json:"feedback,omitempty"`
	Payment     Payment            `bson:"payment" json:"payment"`
	EnrolledAt  time.Time          `bson:"enrolled_at" json:"enrolledAt"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsComplete reports whether the enrollment is finished.
func (e *Enrollment) IsComplete() bool {
	return e.Progress.Percentage == 100 && e.Status == EnrollmentCompleted
}

// UpdateProgress records completed/total modules and recomputes the
// percentage. An in-progress enrollment that reaches 100% becomes completed;
// any other status is left untouched.
func (e *Enrollment) UpdateProgress(completed, total int, now time.Time) {
	e.Progress.CompletedModules = completed
	e.Progress.TotalModules = total
	e.Progress.Percentage = ProgressPercentage(completed, total)
	e.Progress.LastAccessedAt = &now

	if e.Progress.Percentage == 100 && e.Status == EnrollmentInProgress {
		e.Status = EnrollmentCompleted
		e.CompletedAt = &now
	}
}

// ProgressPercentage returns round(completed/total*100) clamped to 0..100.
func ProgressPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(completed) / float64(total) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
