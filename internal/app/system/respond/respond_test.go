package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"go.uber.org/zap"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestOKAndCreated(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]int{"n": 1})
	if rec.Code != http.StatusOK || !decode(t, rec).Success {
		t.Errorf("OK: code=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	Created(rec, "x")
	if rec.Code != http.StatusCreated {
		t.Errorf("Created: code=%d", rec.Code)
	}
}

func TestError(t *testing.T) {
	t.Cleanup(func() { SetProduction(false) })

	tests := []struct {
		name       string
		prod       bool
		err        error
		wantStatus int
		wantMsg    string
		wantDetail bool
	}{
		{"not found", false, wafflerrors.NotFound("Training not found"), 404, "Training not found", false},
		{"conflict", false, wafflerrors.Conflict("Email already exists"), 409, "Email already exists", false},
		{"wrapped", false, errors.Join(errors.New("ctx"), wafflerrors.Forbidden("nope")), 403, "nope", false},
		{"internal dev", false, errors.New("boom"), 500, "Internal server error", true},
		{"internal prod", true, errors.New("boom"), 500, "Internal server error", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetProduction(tt.prod)
			rec := httptest.NewRecorder()
			Error(rec, zap.NewNop(), tt.err)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			env := decode(t, rec)
			if env.Success || env.Message != tt.wantMsg {
				t.Errorf("envelope = %+v", env)
			}
			if (env.Error != "") != tt.wantDetail {
				t.Errorf("error detail = %q, want present=%v", env.Error, tt.wantDetail)
			}
		})
	}
}

func TestBindValid(t *testing.T) {
	type dto struct {
		Title string `json:"title" validate:"required,min=3"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"ok", `{"title":"Go 101"}`, ""},
		{"unknown field", `{"title":"Go 101","createdBy":"x"}`, "unknown field"},
		{"too short", `{"title":"Go"}`, "title must be at least 3 characters"},
		{"empty", ``, "request body is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var d dto
			err := BindValid(r, &d)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var we *wafflerrors.Error
			if !errors.As(err, &we) || we.HTTPStatus() != http.StatusBadRequest {
				t.Fatalf("err = %v, want 400", err)
			}
			if !strings.Contains(we.Message, tt.wantErr) {
				t.Errorf("message = %q, want it to contain %q", we.Message, tt.wantErr)
			}
		})
	}
}
