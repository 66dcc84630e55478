package extract

import "strings"

// NormalizeKey canonicalizes a field name for fuzzy matching: lower-cases
// and strips every rune that is not a letter or digit. Two field names refer
// to the same field iff their normalized forms are identical. Intentionally
// aggressive to tolerate naming drift from external tools ("Author Name",
// "author_name" and "AUTHOR-NAME" all collapse to "authorname").
func NormalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
