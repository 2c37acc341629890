// internal/app/system/search/search.go
package search

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter returns an $or of case-insensitive substring matches of term over
// fields, or nil when term is blank. Regex metacharacters in term are escaped.
//
//	if f := search.Filter(q, "name", "email"); f != nil {
//	    filter["$or"] = f
//	}
func Filter(term string, fields ...string) bson.A {
	term = strings.TrimSpace(term)
	if term == "" || len(fields) == 0 {
		return nil
	}
	rx := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: rx})
	}
	return or
}

// Apply adds the search $or to filter when term is not blank.
func Apply(filter bson.M, term string, fields ...string) {
	if or := Filter(term, fields...); or != nil {
		filter["$or"] = or
	}
}

// Prefix returns an anchored case-insensitive prefix regex for term.
func Prefix(term string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(term)), Options: "i"}
}

// Contains returns an unanchored case-insensitive regex for term.
func Contains(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(term)), Options: "i"}
}
