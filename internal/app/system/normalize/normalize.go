// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Name trims a display name. Case is preserved.
func Name(s string) string { return strings.TrimSpace(s) }

// Role trims and lowercases a role.
func Role(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Provider trims and lowercases an auth provider name.
func Provider(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// QueryParam trims a raw query value.
func QueryParam(s string) string { return strings.TrimSpace(s) }

// Filter trims a list filter value; "all" means no filter and returns "".
func Filter(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// Tags trims each tag, drops blanks and removes case-insensitive duplicates,
// keeping the first spelling seen.
func Tags(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		k := strings.ToLower(t)
		if t == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}

// List trims each entry and drops blanks. The result is never nil.
func List(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
