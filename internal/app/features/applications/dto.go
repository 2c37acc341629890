package applications

import (
	"time"

	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type applicantDTO struct {
	Name      string `json:"name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"max=30"`
	LinkedIn  string `json:"linkedin" validate:"omitempty,httpurl"`
	Portfolio string `json:"portfolio" validate:"omitempty,httpurl"`
}

type resumeDTO struct {
	URL      string `json:"url" validate:"required,max=500"`
	Filename string `json:"filename" validate:"max=200"`
}

type jobRequest struct {
	Job               string       `json:"job" validate:"required,objectid"`
	Applicant         applicantDTO `json:"applicant"`
	Resume            resumeDTO    `json:"resume"`
	CoverLetter       string       `json:"coverLetter" validate:"max=5000"`
	YearsOfExperience int          `json:"yearsOfExperience" validate:"gte=0,lte=60"`
	ExpectedSalary    float64      `json:"expectedSalary" validate:"gte=0"`
	AvailableFrom     *time.Time   `json:"availableFrom"`
}

func (d jobRequest) application() models.JobApplication {
	id, _ := primitive.ObjectIDFromHex(d.Job)
	return models.JobApplication{
		JobID:             id,
		Applicant:         models.Applicant(d.Applicant),
		Resume:            models.Resume(d.Resume),
		CoverLetter:       d.CoverLetter,
		YearsOfExperience: d.YearsOfExperience,
		ExpectedSalary:    d.ExpectedSalary,
		AvailableFrom:     d.AvailableFrom,
	}
}

type educationDTO struct {
	Institution    string `json:"institution" validate:"required,max=200"`
	Degree         string `json:"degree" validate:"required,max=100"`
	Field          string `json:"field" validate:"max=100"`
	GraduationYear int    `json:"graduationYear" validate:"omitempty,gte=1950,lte=2100"`
}

type internshipRequest struct {
	Internship    string       `json:"internship" validate:"required,objectid"`
	Applicant     applicantDTO `json:"applicant"`
	Education     educationDTO `json:"education"`
	Resume        resumeDTO    `json:"resume"`
	CoverLetter   string       `json:"coverLetter" validate:"max=5000"`
	AvailableFrom *time.Time   `json:"availableFrom"`
}

func (d internshipRequest) application() models.InternshipApplication {
	id, _ := primitive.ObjectIDFromHex(d.Internship)
	return models.InternshipApplication{
		InternshipID:  id,
		Applicant:     models.Applicant(d.Applicant),
		Education:     models.Education(d.Education),
		Resume:        models.Resume(d.Resume),
		CoverLetter:   d.CoverLetter,
		AvailableFrom: d.AvailableFrom,
	}
}

type statusRequest struct {
	Status string `json:"status" validate:"required,application_status"`
}

type ratingRequest struct {
	Rating int `json:"rating" validate:"required,gte=1,lte=5"`
}

type noteRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type interviewRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" validate:"required,future_date"`
	Location    string    `json:"location" validate:"max=200"`
	Type        string    `json:"type" validate:"required,interview_type"`
	Notes       string    `json:"notes" validate:"max=2000"`
	Interviewer string    `json:"interviewer" validate:"max=100"`
}
