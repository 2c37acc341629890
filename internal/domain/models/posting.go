// internal/domain/models/posting.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Posting statuses shared by jobs and internships.
const (
	PostingDraft  = "Draft"
	PostingActive = "Active"
	PostingClosed = "Closed"
	PostingFilled = "Filled"
	PostingOnHold = "On Hold"
)

// PostingStatuses lists every job/internship status.
var PostingStatuses = []string{PostingDraft, PostingActive, PostingClosed, PostingFilled, PostingOnHold}

// Application statuses shared by job and internship applications.
const (
	AppSubmitted          = "Submitted"
	AppUnderReview        = "Under Review"
	AppShortlisted        = "Shortlisted"
	AppInterviewScheduled = "Interview Scheduled"
	AppInterviewed        = "Interviewed"
	AppOffered            = "Offered"
	AppHired              = "Hired"
	AppRejected           = "Rejected"
	AppWithdrawn          = "Withdrawn"
)

// ApplicationStatuses lists every application status.
var ApplicationStatuses = []string{
	AppSubmitted, AppUnderReview, AppShortlisted, AppInterviewScheduled,
	AppInterviewed, AppOffered, AppHired, AppRejected, AppWithdrawn,
}

// ApplyAutoStatus returns the status a posting should have at now. Only an
// Active posting changes: past its deadline it is Closed, at capacity it is
// Filled. Nothing ever moves back to Active.
func ApplyAutoStatus(status string, deadline *time.Time, count, max int, now time.Time) string {
	if status != PostingActive {
		return status
	}
	if deadline != nil && now.After(*deadline) {
		return PostingClosed
	}
	if max > 0 && count >= max {
		return PostingFilled
	}
	return status
}

// Applicant is the contact block of an application.
type Applicant struct {
	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email" json:"email"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Portfolio string `bson:"portfolio,omitempty" json:"portfolio,omitempty"`
}

// Resume points at an uploaded resume.
type Resume struct {
	URL      string `bson:"url" json:"url"`
	Filename string `bson:"filename,omitempty" json:"filename,omitempty"`
}

// Interview types.
var InterviewTypes = []string{"in-person", "phone", "video"}

// Interview is the scheduled interview of an application.
type Interview struct {
	ScheduledAt time.Time `bson:"scheduled_at" json:"scheduledAt"`
	Location    string    `bson:"location,omitempty" json:"location,omitempty"`
	Type        string    `bson:"type" json:"type"`
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Interviewer string    `bson:"interviewer,omitempty" json:"interviewer,omitempty"`
}

// ReviewNote is an internal note left by a reviewer.
type ReviewNote struct {
	Content    string             `bson:"content" json:"content"`
	AuthorID   primitive.ObjectID `bson:"author" json:"author"`
	AuthorName string             `bson:"author_name" json:"authorName"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

// Review holds the fields common to both application kinds that reviewers touch.
type Review struct {
	Status     string              `bson:"status" json:"status"`
	ReviewedAt *time.Time          `bson:"reviewed_at,omitempty" json:"reviewedAt,omitempty"`
	ReviewedBy *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`
	Interview  *Interview          `bson:"interview,omitempty" json:"interview,omitempty"`
	Notes      []ReviewNote        `bson:"notes" json:"notes"`
	Rating     int                 `bson:"rating,omitempty" json:"rating,omitempty"`
}

// SetStatus changes the status, stamping the reviewer on the first move away
// from Submitted.
func (r *Review) SetStatus(status string, by primitive.ObjectID, now time.Time) {
	if r.ReviewedAt == nil && r.Status == AppSubmitted && status != AppSubmitted {
		r.ReviewedAt = &now
		r.ReviewedBy = &by
	}
	r.Status = status
}

// Submission is implemented by *JobApplication and *InternshipApplication so
// one store can handle both.
type Submission interface {
	// Submit prepares a new application for insert at now and returns the
	// id it assigned.
	Submit(now time.Time) primitive.ObjectID
	// Posting is the id of the job or internship applied to.
	Posting() primitive.ObjectID
}

func (r *Review) reset() {
	r.Status = AppSubmitted
	r.ReviewedAt = nil
	r.ReviewedBy = nil
	r.Interview = nil
	r.Notes = []ReviewNote{}
	r.Rating = 0
}

func (a *Applicant) normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.Phone = strings.TrimSpace(a.Phone)
}
