// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"strings"
)

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// HasRole is a convenience wrapper for a single role.
func HasRole(r *http.Request, role string) bool {
	return HasAnyRole(r, role)
}

// Allowed reports whether the current user passes roles, with the same
// semantics as Require.
func Allowed(r *http.Request, roles Roles) bool {
	if len(roles) == 0 {
		return true
	}
	_, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if want == "*" {
			return true
		}
	}
	return HasAnyRole(r, roles...)
}
