// internal/app/system/inputval/inputval.go
//
// Package inputval validates request DTOs with go-playground/validator and
// turns failures into readable, per-field messages.
package inputval

import (
	"fmt"
	"net/mail"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/dalemusser/careerhub/internal/domain/models"
	wafflerrors "github.com/dalemusser/waffle/pantry/errors"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is one failing field with its display message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects the failures of one Validate call.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any field failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All returns every message joined with ", ".
func (r *Result) All() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, ", ")
}

// Err returns a 400 validation error carrying all messages, or nil.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return wafflerrors.Validation(r.All()).WithDetail("errors", r.Errors)
}

// Enums maps each closed-set tag to its allowed values. Every key is usable
// as a validate tag, e.g. `validate:"required,training_level"`.
var Enums = map[string][]string{
	"training_category":  models.TrainingCategories,
	"training_level":     models.TrainingLevels,
	"duration_unit":      {"hours", "days", "weeks", "months"},
	"enrollment_status":  models.EnrollmentStatuses,
	"payment_status":     {models.PaymentPending, models.PaymentPaid, models.PaymentRefunded},
	"product_category":   models.ProductCategories,
	"product_status":     models.ProductStatuses,
	"blog_status":        models.BlogStatuses,
	"announcement_type":  models.AnnouncementTypes,
	"priority":           models.AnnouncementPriorities,
	"audience":           models.AnnouncementAudiences,
	"display_location":   models.AnnouncementLocations,
	"employment_type":    models.EmploymentTypes,
	"experience_level":   models.ExperienceLevels,
	"salary_type":        {models.SalaryRange, models.SalaryFixed, models.SalaryNegotiable},
	"pay_period":         models.PayPeriods,
	"stipend_type":       models.StipendTypes,
	"internship_mode":    models.InternshipModes,
	"posting_status":     models.PostingStatuses,
	"application_status": models.ApplicationStatuses,
	"interview_type":     models.InterviewTypes,
	"content_type":       models.ContentTypes,
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// Field names come from the label tag, then the json name.
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
		return f.Name
	})

	must(val.RegisterValidation("email", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	}))
	must(val.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return IsValidHTTPURL(fl.Field().String())
	}))
	must(val.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return IsValidObjectID(fl.Field().String())
	}))
	must(val.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.IsValidRole(fl.Field().String())
	}))
	must(val.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.After(time.Now())
	}))
	for tag, allowed := range Enums {
		set := make(map[string]struct{}, len(allowed))
		for _, a := range allowed {
			set[a] = struct{}{}
		}
		must(val.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			_, ok := set[fl.Field().String()]
			return ok
		}))
	}
	return val
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate runs the struct's validate tags and returns the failures.
func Validate(s interface{}) *Result {
	res := &Result{}
	err := v.Struct(s)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return res
}

func message(fe validator.FieldError) string {
	f, p := fe.Field(), fe.Param()
	unit := ""
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = " items"
	}
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return f + " is required"
	case "email":
		return "A valid email address is required"
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s%s", f, p, unit)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s%s", f, p, unit)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f, p)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", f, p)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, strings.Join(strings.Fields(p), ", "))
	case "httpurl", "url":
		return f + " must be a valid http or https URL"
	case "objectid":
		return f + " must be a valid id"
	case "role":
		return f + " must be a valid role"
	case "future_date":
		return f + " must be in the future"
	case "gtefield", "gtfield":
		return fmt.Sprintf("%s must not be before %s", f, p)
	}
	if allowed, ok := Enums[fe.Tag()]; ok {
		return fmt.Sprintf("%s must be one of: %s", f, strings.Join(allowed, ", "))
	}
	return f + " is invalid"
}

// IsValidEmail reports whether s is a bare address (no display name) with
// well-formed dot-separated local and domain parts.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t<>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	local, domain := s[:at], s[at+1:]
	return dotsOK(local) && dotsOK(domain)
}

func dotsOK(s string) bool {
	return s != "" &&
		!strings.HasPrefix(s, ".") &&
		!strings.HasSuffix(s, ".") &&
		!strings.Contains(s, "..")
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether s is a 24-character hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
