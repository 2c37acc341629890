package applications

import (
	"net/http"
	"strconv"
	"time"

	internshipstore "github.com/dalemusser/careerhub/internal/app/store/internships"
	jobstore "github.com/dalemusser/careerhub/internal/app/store/jobs"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/domain/models"
)

type jobView struct {
	models.JobApplication
	Job *models.PostingRef `json:"job"`
}

type internshipView struct {
	models.InternshipApplication
	Internship *models.PostingRef `json:"internship"`
}

var commonHeaders = []string{"id", "posting", "name", "email", "phone", "status", "rating", "resume", "submitted_at"}

func commonRow(id, posting string, ap models.Applicant, rv models.Review, resume models.Resume, at time.Time) []string {
	rating := ""
	if rv.Rating > 0 {
		rating = strconv.Itoa(rv.Rating)
	}
	return []string{id, posting, ap.Name, ap.Email, ap.Phone, rv.Status, rating, resume.URL, at.UTC().Format(time.RFC3339)}
}

func title(p *models.PostingRef) string {
	if p == nil {
		return ""
	}
	return p.Title
}

func jobKind(jobs *jobstore.Store) kind[models.JobApplication] {
	return kind[models.JobApplication]{
		Name:     "Job",
		Resource: "job_application",
		Refs:     jobs.Refs,
		Decode: func(r *http.Request) (models.JobApplication, error) {
			var req jobRequest
			if err := respond.BindValid(r, &req); err != nil {
				return models.JobApplication{}, err
			}
			return req.application(), nil
		},
		View: func(a models.JobApplication, p *models.PostingRef) interface{} {
			return jobView{JobApplication: a, Job: p}
		},
		Headers: append(append([]string{}, commonHeaders...), "years_of_experience", "expected_salary"),
		Row: func(a models.JobApplication, p *models.PostingRef) []string {
			return append(commonRow(a.ID.Hex(), title(p), a.Applicant, a.Review, a.Resume, a.CreatedAt),
				strconv.Itoa(a.YearsOfExperience),
				strconv.FormatFloat(a.ExpectedSalary, 'f', -1, 64),
			)
		},
	}
}

func internshipKind(internships *internshipstore.Store) kind[models.InternshipApplication] {
	return kind[models.InternshipApplication]{
		Name:     "Internship",
		Resource: "internship_application",
		Refs:     internships.Refs,
		Decode: func(r *http.Request) (models.InternshipApplication, error) {
			var req internshipRequest
			if err := respond.BindValid(r, &req); err != nil {
				return models.InternshipApplication{}, err
			}
			return req.application(), nil
		},
		View: func(a models.InternshipApplication, p *models.PostingRef) interface{} {
			return internshipView{InternshipApplication: a, Internship: p}
		},
		Headers: append(append([]string{}, commonHeaders...), "institution", "degree", "graduation_year"),
		Row: func(a models.InternshipApplication, p *models.PostingRef) []string {
			year := ""
			if a.Education.GraduationYear > 0 {
				year = strconv.Itoa(a.Education.GraduationYear)
			}
			return append(commonRow(a.ID.Hex(), title(p), a.Applicant, a.Review, a.Resume, a.CreatedAt),
				a.Education.Institution, a.Education.Degree, year,
			)
		},
	}
}
