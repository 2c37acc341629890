// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/careerhub/internal/app/system/auth"
	"github.com/dalemusser/careerhub/internal/app/system/respond"
	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles is an allow-list. An empty list admits anyone, including anonymous
// callers; SignedIn admits any authenticated user.
type Roles []string

// SignedIn admits every authenticated user regardless of role.
var SignedIn = Roles{"*"}

// Public admits everyone.
var Public Roles

// Policy is the access rule set for one resource.
type Policy struct {
	Read   Roles
	Write  Roles
	Delete Roles
}

var (
	adminManager = Roles{models.RoleAdmin, models.RoleManager}
	staffEditors = Roles{models.RoleAdmin, models.RoleManager, models.RoleEditor}
	recruiters   = Roles{models.RoleAdmin, models.RoleManager, models.RoleHR}
)

// Resource policies. Finer-grained rules (ownership, self-delete) live in the
// handlers; these are the route gates.
var (
	Users        = Policy{Read: adminManager, Write: Roles{models.RoleAdmin}, Delete: adminManager}
	Trainings    = Policy{Read: Public, Write: Roles{models.RoleAdmin, models.RoleManager, models.RoleInstructor}, Delete: Roles{models.RoleAdmin, models.RoleManager, models.RoleInstructor}}
	Enrollments  = Policy{Read: Roles{models.RoleAdmin, models.RoleManager, models.RoleInstructor}, Write: adminManager, Delete: adminManager}
	Products     = Policy{Read: Public, Write: adminManager, Delete: adminManager}
	Blog         = Policy{Read: Public, Write: staffEditors, Delete: staffEditors}
	Announcement = Policy{Read: adminManager, Write: adminManager, Delete: adminManager}
	Postings     = Policy{Read: Public, Write: recruiters, Delete: recruiters}
	Applications = Policy{Read: recruiters, Write: recruiters, Delete: Roles{models.RoleAdmin}}
	TeamMembers  = Policy{Read: Public, Write: staffEditors, Delete: staffEditors}
	Dashboard    = Policy{Read: adminManager}
	Settings     = Policy{Read: Public, Write: Roles{models.RoleAdmin}}
	Content      = Policy{Read: Public, Write: staffEditors, Delete: staffEditors}
	Uploads      = Policy{Write: Roles{models.RoleAdmin, models.RoleManager, models.RoleEditor, models.RoleHR, models.RoleInstructor}}
	AuditLog     = Policy{Read: Roles{models.RoleAdmin}}
)

// Require gates a route on roles: anonymous callers get 401, signed-in
// callers whose role is not listed get 403. An empty list lets everyone
// through.
func Require(roles Roles) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	_, anyRole := set["*"]

	return func(next http.Handler) http.Handler {
		if len(set) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.CurrentUser(r)
			if !ok {
				respond.Fail(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !anyRole {
				if _, has := set[strings.ToLower(u.Role)]; !has {
					respond.Fail(w, http.StatusForbidden, "You do not have permission to perform this action")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserCtx returns the user's role (lowercased), name, ObjectID and a found
// flag. A missing user or malformed id yields "visitor" and ok=false.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Fail closed on a corrupted session id.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// UserID returns the current user's ObjectID, or NilObjectID.
func UserID(r *http.Request) primitive.ObjectID {
	_, _, id, _ := UserCtx(r)
	return id
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	return HasRole(r, models.RoleAdmin)
}

// IsStaff reports whether the current user can see unpublished editorial
// content.
func IsStaff(r *http.Request) bool {
	return HasAnyRole(r, staffEditors...)
}
