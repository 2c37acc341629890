package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	l := New(3, time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("fourth attempt should be blocked")
	}
	if l.Remaining("k") != 0 {
		t.Errorf("Remaining = %d, want 0", l.Remaining("k"))
	}
	if !l.Allow("other") {
		t.Error("other keys are independent")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("k") || l.Allow("k") {
		t.Fatal("expected one allowed then blocked")
	}
	now = now.Add(2 * time.Minute)
	if !l.Allow("k") {
		t.Error("new window should allow again")
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	l := New(1, time.Minute)
	l.Stop()
	l.Stop()
}

func TestLoginLimiter(t *testing.T) {
	ll := NewLoginLimiter(2, 5*time.Minute)
	defer ll.Stop()

	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "10.0.0.1:5555"

	if !ll.Check(r, "A@x.io") || !ll.Check(r, "a@x.io ") {
		t.Fatal("first two attempts should pass")
	}
	if ll.Check(r, "a@x.io") {
		t.Error("third attempt for same ip+email should be blocked")
	}
	if !ll.Check(r, "b@x.io") {
		t.Error("a different email from the same ip has its own window")
	}
	ll.Succeeded(r, "a@x.io")
	if !ll.Check(r, "a@x.io") {
		t.Error("success should reset the counter")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.168.1.9:1234"
	if got := ClientIP(r); got != "192.168.1.9" {
		t.Errorf("ClientIP = %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Errorf("ClientIP with XFF = %q", got)
	}
}
