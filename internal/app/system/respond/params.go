package respond

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ID parses the URL parameter name as an ObjectID. A malformed value is a 400.
func ID(r *http.Request, name string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, wafflerrors.BadRequest("Invalid " + name)
	}
	return oid, nil
}

// QueryID parses an optional ObjectID query parameter. A blank value returns
// nil; a malformed one is a 400.
func QueryID(r *http.Request, name string) (*primitive.ObjectID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, wafflerrors.BadRequest("Invalid " + name)
	}
	return &oid, nil
}

// QueryBool parses an optional boolean query parameter. Anything that is not
// a boolean is treated as absent.
func QueryBool(r *http.Request, name string) *bool {
	b, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil {
		return nil
	}
	return &b
}

// QueryFloat parses an optional numeric query parameter. A blank value
// returns nil; a malformed one is a 400.
func QueryFloat(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, wafflerrors.BadRequest("Invalid " + name)
	}
	return &f, nil
}

// Store maps the errors every store returns: a missing document becomes a
// 404 naming what, a duplicate key a 409. Other errors pass through.
func Store(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return wafflerrors.NotFound(what + " not found")
	case wafflemongo.IsDup(err):
		return wafflerrors.Conflict(what + " already exists")
	}
	return err
}
