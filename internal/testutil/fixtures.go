package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/authutil"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestPassword is the password every fixture user is created with.
const TestPassword = "correct-horse-42"

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc interface{}) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

// CreateUser creates an active credentials user with TestPassword.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	hash, err := authutil.HashPassword(TestPassword)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Provider:     models.ProviderCredentials,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateAdmin creates an active admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin)
}

// CreateInactiveUser creates a user whose account has been deactivated.
func (f *Fixtures) CreateInactiveUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, name, email, models.RoleUser)
	u.Active = models.Bool(false)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"active": false}}); err != nil {
		f.t.Fatalf("failed to deactivate test user: %v", err)
	}
	return u
}

// CreateTraining creates an active training with a three module curriculum.
func (f *Fixtures) CreateTraining(ctx context.Context, title string) models.Training {
	f.t.Helper()

	now := time.Now().UTC()
	tr := models.Training{
		ID:          primitive.NewObjectID(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Description: "A training for tests",
		Category:    models.TrainingCategories[0],
		Level:       models.TrainingLevels[0],
		Duration:    models.Duration{Value: 4, Unit: "weeks"},
		Price:       100,
		Currency:    "USD",
		Instructor:  models.Instructor{Name: "Test Instructor"},
		Curriculum: []models.CurriculumModule{
			{Title: "Intro", Order: 1},
			{Title: "Core", Order: 2},
			{Title: "Wrap up", Order: 3},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "trainings", tr)
	return tr
}

// CreateJob creates a job posting in the given status.
func (f *Fixtures) CreateJob(ctx context.Context, title, status string, deadline *time.Time) models.Job {
	f.t.Helper()

	now := time.Now().UTC()
	j := models.Job{
		ID:                  primitive.NewObjectID(),
		Title:               title,
		TitleCI:             text.Fold(title),
		Description:         "A job for tests",
		Department:          "Engineering",
		Location:            "Remote",
		EmploymentType:      models.EmploymentTypes[0],
		ExperienceLevel:     models.ExperienceLevels[0],
		Salary:              models.Salary{Type: models.SalaryNegotiable, Currency: "USD"},
		ApplicationDeadline: deadline,
		Status:              status,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	f.insert(ctx, "jobs", j)
	return j
}

// CreateInternship creates an internship posting in the given status.
func (f *Fixtures) CreateInternship(ctx context.Context, title, status string, deadline *time.Time) models.Internship {
	f.t.Helper()

	now := time.Now().UTC()
	in := models.Internship{
		ID:                  primitive.NewObjectID(),
		Title:               title,
		TitleCI:             text.Fold(title),
		Description:         "An internship for tests",
		Department:          "Engineering",
		Location:            "Remote",
		Mode:                models.InternshipModes[0],
		Stipend:             models.Stipend{Type: models.StipendTypes[0], Currency: "USD"},
		Duration:            models.Duration{Value: 3, Unit: "months"},
		ApplicationDeadline: deadline,
		Status:              status,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	f.insert(ctx, "internships", in)
	return in
}
