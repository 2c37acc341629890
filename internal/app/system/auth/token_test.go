package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	ti := NewTokenIssuer("secret-secret-secret-secret-secret", "careerhub", time.Hour)
	u := &SessionUser{ID: "507f1f77bcf86cd799439011", Name: "Ada", Email: "ada@x.io", Role: "editor"}

	tok, exp, err := ti.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := ti.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := claims.User(); *got != *u {
		t.Errorf("User() = %+v, want %+v", got, u)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.Equal(exp.Truncate(time.Second)) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, exp)
	}
}

func TestTokenIssuer_Rejects(t *testing.T) {
	ti := NewTokenIssuer("secret-a-secret-a-secret-a-secret-a", "careerhub", time.Hour)
	tok, _, _ := ti.Issue(&SessionUser{ID: "x"})

	other := NewTokenIssuer("secret-b-secret-b-secret-b-secret-b", "careerhub", time.Hour)
	if _, err := other.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: err = %v", err)
	}

	wrongIssuer := NewTokenIssuer("secret-a-secret-a-secret-a-secret-a", "elsewhere", time.Hour)
	if _, err := wrongIssuer.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong issuer: err = %v", err)
	}

	later := NewTokenIssuer("secret-a-secret-a-secret-a-secret-a", "careerhub", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.Parse(tok); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expired: err = %v", err)
	}
}
