package metricsstore_test

import (
	"testing"
	"time"

	metricsstore "github.com/dalemusser/careerhub/internal/app/store/metrics"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGrowthPercent(t *testing.T) {
	tests := []struct {
		this, last int64
		want       float64
	}{
		{0, 0, 0},
		{3, 0, 100},
		{10, 10, 0},
		{15, 10, 50},
		{5, 10, -50},
		{1, 3, -66.7},
		{4, 3, 33.3},
	}
	for _, tt := range tests {
		if got := metricsstore.GrowthPercent(tt.this, tt.last); got != tt.want {
			t.Errorf("GrowthPercent(%d, %d) = %v, want %v", tt.this, tt.last, got, tt.want)
		}
	}
}

func TestMonthStart(t *testing.T) {
	got := metricsstore.MonthStart(time.Date(2026, 3, 17, 22, 5, 0, 0, time.UTC))
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("MonthStart = %v, want %v", got, want)
	}
}

func TestEstimates_FlaggedAndDeterministic(t *testing.T) {
	stats := map[string]metricsstore.EntityStats{
		"users":       {Total: 10},
		"enrollments": {Total: 4},
		"trainings":   {Total: 20},
	}
	a := metricsstore.Estimates(stats)
	b := metricsstore.Estimates(stats)
	for name, e := range a {
		if !e.Estimated || e.Source != "placeholder" {
			t.Errorf("%s not flagged: %+v", name, e)
		}
		if b[name] != e {
			t.Errorf("%s differs between calls: %+v vs %+v", name, e, b[name])
		}
	}
	if a["monthlyVisitors"].Value != 220 {
		t.Errorf("monthlyVisitors = %v, want 220", a["monthlyVisitors"].Value)
	}
	if a["avgSessionMinutes"].Value != 4 {
		t.Errorf("avgSessionMinutes = %v, want 4", a["avgSessionMinutes"].Value)
	}
}

func TestFetch_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := metricsstore.Fetch(ctx, db, time.Now())
	if len(d.Unavailable) != 0 {
		t.Errorf("unavailable: %v", d.Unavailable)
	}
	for _, name := range []string{"users", "trainings", "enrollments", "jobs", "internshipApplications"} {
		st, ok := d.Authoritative.Entities[name]
		if !ok {
			t.Errorf("missing entity %q", name)
			continue
		}
		if st != (metricsstore.EntityStats{}) {
			t.Errorf("%s: got %+v, want zero", name, st)
		}
	}
	if d.Authoritative.Recent.Users == nil || d.Authoritative.Recent.Applications == nil {
		t.Error("recent lists should be empty, not nil")
	}
}

func TestFetch_CountsAndRecent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	thisMonth := now.AddDate(0, 0, -2)
	lastMonth := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	users := []interface{}{
		bson.M{"_id": primitive.NewObjectID(), "name": "A", "email": "a@x.io", "password_hash": "secret", "created_at": thisMonth},
		bson.M{"_id": primitive.NewObjectID(), "name": "B", "email": "b@x.io", "active": false, "created_at": thisMonth},
		bson.M{"_id": primitive.NewObjectID(), "name": "C", "email": "c@x.io", "created_at": lastMonth},
	}
	if _, err := db.Collection("users").InsertMany(ctx, users); err != nil {
		t.Fatalf("insert users: %v", err)
	}
	jobID := primitive.NewObjectID()
	apps := []interface{}{
		bson.M{"_id": primitive.NewObjectID(), "job": jobID, "applicant": bson.M{"name": "Ann", "email": "ann@x.io"}, "status": models.AppSubmitted, "created_at": lastMonth},
		bson.M{"_id": primitive.NewObjectID(), "job": jobID, "applicant": bson.M{"name": "Bo", "email": "bo@x.io"}, "status": models.AppRejected, "created_at": thisMonth},
	}
	if _, err := db.Collection("job_applications").InsertMany(ctx, apps); err != nil {
		t.Fatalf("insert applications: %v", err)
	}
	if _, err := db.Collection("enrollments").InsertOne(ctx, bson.M{
		"_id": primitive.NewObjectID(), "status": models.EnrollmentConfirmed,
		"payment": bson.M{"amount": 250.0, "status": models.PaymentPaid}, "created_at": thisMonth,
	}); err != nil {
		t.Fatalf("insert enrollment: %v", err)
	}

	d := metricsstore.Fetch(ctx, db, now)
	u := d.Authoritative.Entities["users"]
	want := metricsstore.EntityStats{Total: 3, Active: 2, ThisMonth: 2, LastMonth: 1, Growth: 100}
	if u != want {
		t.Errorf("users: got %+v, want %+v", u, want)
	}
	ja := d.Authoritative.Entities["jobApplications"]
	if ja.Total != 2 || ja.Active != 1 {
		t.Errorf("jobApplications: %+v", ja)
	}
	if d.Authoritative.Revenue != 250 {
		t.Errorf("revenue: got %v, want 250", d.Authoritative.Revenue)
	}

	recent := d.Authoritative.Recent
	if len(recent.Users) != 3 {
		t.Fatalf("recent users: got %d", len(recent.Users))
	}
	for _, ru := range recent.Users {
		if ru.PasswordHash != "" {
			t.Error("recent users must not carry password hashes")
		}
	}
	if len(recent.Applications) != 2 || recent.Applications[0].Name != "Bo" || recent.Applications[0].Kind != "job" {
		t.Errorf("recent applications: %+v", recent.Applications)
	}
}

func TestAnalytics_FillsEveryDay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	docs := []interface{}{
		bson.M{"_id": primitive.NewObjectID(), "created_at": now.Add(-time.Hour)},
		bson.M{"_id": primitive.NewObjectID(), "created_at": now.AddDate(0, 0, -3)},
		bson.M{"_id": primitive.NewObjectID(), "created_at": now.AddDate(0, 0, -30)},
	}
	if _, err := db.Collection("users").InsertMany(ctx, docs); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.Collection("internship_applications").InsertOne(ctx, bson.M{"_id": primitive.NewObjectID(), "created_at": now}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	days, err := metricsstore.Analytics(ctx, db, 7, now)
	if err != nil {
		t.Fatalf("Analytics failed: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("got %d days, want 7", len(days))
	}
	if days[0].Date != "2026-05-14" || days[6].Date != "2026-05-20" {
		t.Errorf("range: %s..%s", days[0].Date, days[6].Date)
	}
	if days[6].Users != 1 || days[6].Applications != 1 {
		t.Errorf("today: %+v", days[6])
	}
	if days[3].Users != 1 {
		t.Errorf("three days ago: %+v", days[3])
	}
	var total int64
	for _, d := range days {
		total += d.Users
	}
	if total != 2 {
		t.Errorf("users in range: got %d, want 2", total)
	}
}
