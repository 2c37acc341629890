// internal/app/system/slug/slug.go
package slug

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Make derives a URL slug from s: diacritics folded, lowercase ASCII words
// joined by single hyphens. Returns "" when s has no letters or digits.
func Make(s string) string {
	folded := text.Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
