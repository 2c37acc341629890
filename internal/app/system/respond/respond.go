// internal/app/system/respond/respond.go
//
// Package respond writes the JSON envelope every API route answers with:
//
//	{ "success": true, "message": "...", "data": ... }
//	{ "success": false, "message": "..." }
package respond

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/dalemusser/careerhub/internal/app/system/inputval"
	"github.com/dalemusser/waffle/httputil"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"go.uber.org/zap"
)

// Envelope is the response body shape.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

var production atomic.Bool

// SetProduction hides internal error detail from responses when true.
func SetProduction(on bool) { production.Store(on) }

// OK writes 200 with data.
func OK(w http.ResponseWriter, data interface{}) {
	httputil.WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(w http.ResponseWriter, data interface{}) {
	httputil.WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message writes 200 with a message and optional data.
func Message(w http.ResponseWriter, msg string, data interface{}) {
	httputil.WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: msg, Data: data})
}

// Fail writes a failure envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, msg string) {
	httputil.WriteJSON(w, status, Envelope{Success: false, Message: msg})
}

// Error maps err to a status and writes a failure envelope. Errors that are
// not *errors.Error become 500s; those are logged, and their text is only
// included outside production.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	var we *wafflerrors.Error
	if !errors.As(err, &we) {
		we = wafflerrors.From(err)
	}
	status := we.HTTPStatus()

	env := Envelope{Success: false, Message: we.Message}
	if status >= http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", zap.Int("status", status), zap.Error(err))
		}
		env.Message = "Internal server error"
		if !production.Load() && err != nil {
			env.Error = err.Error()
		}
	} else if d, ok := we.Details["errors"]; ok {
		env.Details = d
	}
	httputil.WriteJSON(w, status, env)
}

// NotFound is the router's 404 handler.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Fail(w, http.StatusNotFound, "Route not found")
}

// MethodNotAllowed is the router's 405 handler.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// Bind decodes the JSON body into v, rejecting unknown fields.
func Bind(r *http.Request, v interface{}) error {
	if err := httputil.BindJSON(r, v); err != nil {
		return wafflerrors.BadRequest(err.Error())
	}
	return nil
}

// BindValid decodes the body into v and runs its validate tags.
func BindValid(r *http.Request, v interface{}) error {
	if err := Bind(r, v); err != nil {
		return err
	}
	return inputval.Validate(v).Err()
}
