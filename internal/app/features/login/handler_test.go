package login_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/careerhub/internal/app/features/login"
	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/indexes"
	"github.com/dalemusser/careerhub/internal/app/system/ratelimit"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"github.com/dalemusser/careerhub/internal/testutil"
	"go.uber.org/zap"
)

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(auth.Config{
		SessionKey:  "test-session-key-must-be-32-chars-long",
		SessionName: "careerhub-test",
		TTL:         time.Hour,
		JWTSecret:   "test-jwt-secret-must-be-32-chars-long!",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

func setup(t *testing.T, limiter *ratelimit.LoginLimiter) (*testutil.Fixtures, http.Handler) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	h := login.NewHandler(db, newSessionManager(t), limiter, nil, zap.NewNop())
	return testutil.NewFixtures(t, db), login.Routes(h)
}

func serve(router http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func credentials(email, password string) map[string]string {
	return map[string]string{"email": email, "password": password}
}

func TestLogin_Success(t *testing.T) {
	fx, router := setup(t, nil)
	fx.CreateUser(context.Background(), "Kim", "kim@example.com", models.RoleHR)

	rec := serve(router, testutil.JSONRequest(t, http.MethodPost, "/login", credentials("KIM@example.com", testutil.TestPassword)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			Email       string     `json:"email"`
			Role        string     `json:"role"`
			LastLoginAt *time.Time `json:"lastLoginAt"`
		} `json:"user"`
	}
	testutil.DecodeEnvelope(t, rec, &resp)
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Email != "kim@example.com" || resp.User.Role != models.RoleHR {
		t.Errorf("user: %+v", resp.User)
	}
	if resp.User.LastLoginAt == nil {
		t.Error("last login should be recorded")
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}
}

func TestLogin_Failures(t *testing.T) {
	fx, router := setup(t, nil)
	ctx := context.Background()
	fx.CreateUser(ctx, "Kim", "kim@example.com", models.RoleUser)
	fx.CreateInactiveUser(ctx, "Off", "off@example.com")

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"wrong password", credentials("kim@example.com", "not-the-password"), http.StatusUnauthorized},
		{"unknown email", credentials("nobody@example.com", testutil.TestPassword), http.StatusUnauthorized},
		{"inactive", credentials("off@example.com", testutil.TestPassword), http.StatusForbidden},
		{"inactive wrong password", credentials("off@example.com", "nope-nope-nope"), http.StatusUnauthorized},
		{"malformed email", credentials("kim", testutil.TestPassword), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, testutil.JSONRequest(t, http.MethodPost, "/login", tt.body))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	limiter := ratelimit.NewLoginLimiter(1, time.Minute)
	defer limiter.Stop()
	fx, router := setup(t, limiter)
	fx.CreateUser(context.Background(), "Kim", "kim@example.com", models.RoleUser)

	first := serve(router, testutil.JSONRequest(t, http.MethodPost, "/login", credentials("kim@example.com", "wrong-password")))
	if first.Code != http.StatusUnauthorized {
		t.Fatalf("first attempt: got %d, want 401", first.Code)
	}
	second := serve(router, testutil.JSONRequest(t, http.MethodPost, "/login", credentials("kim@example.com", testutil.TestPassword)))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second attempt: got %d, want 429", second.Code)
	}
}

func TestRegister(t *testing.T) {
	_, router := setup(t, nil)

	body := map[string]string{"name": "New Person", "email": "new@example.com", "password": "long-enough-1"}
	rec := serve(router, testutil.JSONRequest(t, http.MethodPost, "/register", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	testutil.DecodeEnvelope(t, rec, &resp)
	if resp.Token == "" || resp.User.Role != models.RoleUser {
		t.Errorf("register response: %+v", resp)
	}

	if rec := serve(router, testutil.JSONRequest(t, http.MethodPost, "/register", body)); rec.Code != http.StatusConflict {
		t.Errorf("duplicate: got %d, want 409", rec.Code)
	}

	body["email"] = "other@example.com"
	body["role"] = models.RoleAdmin
	if rec := serve(router, testutil.JSONRequest(t, http.MethodPost, "/register", body)); rec.Code != http.StatusBadRequest {
		t.Errorf("role field: got %d, want 400", rec.Code)
	}
}

func TestSession(t *testing.T) {
	_, router := setup(t, nil)

	if rec := serve(router, testutil.NewRequest(http.MethodGet, "/session")); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}

	user := testutil.ManagerUser()
	rec := serve(router, testutil.WithUser(testutil.NewRequest(http.MethodGet, "/session"), user))
	if rec.Code != http.StatusOK {
		t.Fatalf("signed in: got %d", rec.Code)
	}
	var got auth.SessionUser
	testutil.DecodeEnvelope(t, rec, &got)
	if got.ID != user.ID || got.Role != models.RoleManager {
		t.Errorf("session user: %+v", got)
	}
}

func TestLogout(t *testing.T) {
	_, router := setup(t, nil)
	rec := serve(router, testutil.WithUser(testutil.NewRequest(http.MethodPost, "/logout"), testutil.RegularUser()))
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d", rec.Code)
	}
}
