package inputval

import (
	"strings"
	"testing"
	"time"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"recruiter@careerhub.io", true},
		{"first.last+jobs@mail.example.co.uk", true},
		{"admin@localhost", true},
		{"", false},
		{"   ", false},
		{"applicant", false},
		{"applicant@", false},
		{"@careerhub.io", false},
		{".lead@careerhub.io", false},
		{"lead.@careerhub.io", false},
		{"a..b@careerhub.io", false},
		{"a@careerhub..io", false},
		{"Hiring Team <hr@careerhub.io>", false},
		{"hr @careerhub.io", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidate_DomainTags(t *testing.T) {
	type posting struct {
		Title    string    `json:"title" validate:"required,min=3"`
		Type     string    `json:"employmentType" validate:"required,employment_type"`
		Role     string    `json:"role" validate:"omitempty,role"`
		Deadline time.Time `json:"deadline" validate:"omitempty,future_date"`
		Skills   []string  `json:"skills" validate:"max=2"`
	}
	ok := func() posting {
		return posting{Title: "Backend Engineer", Type: "Full-time", Deadline: time.Now().Add(24 * time.Hour)}
	}

	tests := []struct {
		name   string
		mutate func(*posting)
		want   string
	}{
		{"valid", func(*posting) {}, ""},
		{"unknown employment type", func(p *posting) { p.Type = "gig" }, "employmentType must be one of:"},
		{"bad role", func(p *posting) { p.Role = "owner" }, "role must be a valid role"},
		{"past deadline", func(p *posting) { p.Deadline = time.Now().Add(-time.Hour) }, "deadline must be in the future"},
		{"too many skills", func(p *posting) { p.Skills = []string{"go", "sql", "k8s"} }, "skills must be at most 2 items"},
		{"short title", func(p *posting) { p.Title = "Go" }, "title must be at least 3 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ok()
			tt.mutate(&p)
			res := Validate(p)
			if tt.want == "" {
				if res.HasErrors() {
					t.Fatalf("unexpected errors: %s", res.All())
				}
				return
			}
			if !strings.HasPrefix(res.First(), tt.want) {
				t.Errorf("First() = %q, want prefix %q", res.First(), tt.want)
			}
		})
	}
}
