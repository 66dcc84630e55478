package extract

import (
	"regexp"
	"strings"
)

var (
	// yearPattern matches a 4-digit year, parenthesized form preferred
	// (group 1 is the parenthesized year, group 2 the bare one).
	yearPattern = regexp.MustCompile(`\((\d{4})\)|(\d{4})`)

	leadingAnd      = regexp.MustCompile(`(?i)^and\s+`)
	coAuthorClause  = regexp.MustCompile(`\s+&\s+.*$`)
	trailingInitial = regexp.MustCompile(`,\s*[A-Z]\.?\s*$`)
	leadingDelim    = regexp.MustCompile(`^[.,]\s*`)
	segmentDelim    = regexp.MustCompile(`[.,]\s+`)
	anyDelim        = regexp.MustCompile(`[.,]`)

	// segmentEnd finds the first . or , that ends a text segment, i.e. one
	// followed by whitespace or end of text. A delimiter glued to the next
	// character (as in "U.S.") is treated as a continuation, not a boundary.
	segmentEnd = regexp.MustCompile(`[.,](?:\s|$)`)

	institutionPattern = regexp.MustCompile(
		`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*(?:\s+(?:University|Institute|College|Press|Journal|Publisher))?)`)
)

// ExtractField produces the value for one column from one item's text.
// Policy, in priority order: explicit pattern (compiled regexp, or literal
// substring window if it does not compile), then semantic-type heuristics.
// The result is always trimmed; no match yields an empty string.
func ExtractField(itemText string, col ColumnSpec) string {
	pattern := strings.TrimSpace(col.Pattern)
	if pattern != "" {
		return strings.TrimSpace(extractByPattern(itemText, pattern))
	}
	return strings.TrimSpace(extractBySemanticType(itemText, col))
}

// extractByPattern applies the column's pattern hint. A compiling pattern is
// searched case-insensitively across lines; a capturing group takes priority
// over the whole match. A non-compiling pattern degrades to a literal
// case-insensitive substring search returning a window of surrounding text.
func extractByPattern(text, pattern string) string {
	re, err := regexp.Compile(`(?im)` + pattern)
	if err != nil {
		return literalWindow(text, pattern)
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if len(m) > 1 {
		return m[1]
	}
	return m[0]
}

// literalWindow returns text surrounding a case-insensitive literal hit:
// 50 characters before the match to match length + 100 after, clipped.
func literalWindow(text, needle string) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(needle))
	if idx < 0 {
		return ""
	}
	start := idx - 50
	if start < 0 {
		start = 0
	}
	end := idx + len(needle) + 100
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

// extractBySemanticType dispatches on the column's semantic type, falling
// back to substring matching on the column name when the type is unset or
// plain text.
func extractBySemanticType(text string, col ColumnSpec) string {
	colType := strings.ToLower(strings.TrimSpace(col.Type))
	nameLower := strings.ToLower(col.Name)
	has := func(substrs ...string) bool {
		for _, s := range substrs {
			if strings.Contains(nameLower, s) {
				return true
			}
		}
		return false
	}

	switch {
	case colType == TypeDate || has("date", "year"):
		return extractYear(text)
	case colType == TypeName || has("author", "name"):
		return extractAuthorName(text)
	case colType == TypeTitle || has("title"):
		return extractTitle(text)
	case colType == TypeInstitution || has("institution", "publisher", "organization"):
		return extractInstitution(text)
	case colType == TypeOrigin || has("origin", "country"):
		// Origin/country detection is not implemented; columns of this type
		// always resolve empty.
		return ""
	}
	return ""
}

// extractYear returns the first 4-digit year, preferring the parenthesized
// form.
func extractYear(text string) string {
	m := yearPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// extractAuthorName takes the text preceding the first year match (or the
// first delimiter when no year is present) and strips a leading enumeration
// marker, a leading "and ", any trailing &-joined co-author clause, and a
// trailing single initial left over from a removed co-author. The primary
// "Surname, I." form is kept intact: the initial strip only fires when the
// name still carries more than one comma-separated part.
func extractAuthorName(text string) string {
	text = enumMarker.ReplaceAllString(text, "")

	var name string
	if loc := yearPattern.FindStringIndex(text); loc != nil {
		name = strings.TrimSpace(text[:loc[0]])
	} else {
		name = strings.TrimSpace(anyDelim.Split(text, 2)[0])
	}

	name = leadingAnd.ReplaceAllString(name, "")
	name = coAuthorClause.ReplaceAllString(name, "")
	if strings.Count(name, ",") > 1 {
		name = trailingInitial.ReplaceAllString(name, "")
	}
	return name
}

// extractTitle returns the segment following the year match, up to the next
// delimiter that actually ends a segment. Without a year it falls back to
// the second delimiter-separated segment of the item.
func extractTitle(text string) string {
	if loc := yearPattern.FindStringIndex(text); loc != nil {
		after := strings.TrimSpace(text[loc[1]:])
		after = leadingDelim.ReplaceAllString(after, "")
		if end := segmentEnd.FindStringIndex(after); end != nil {
			return strings.TrimSpace(after[:end[0]])
		}
		return after
	}

	parts := segmentDelim.Split(text, 3)
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// extractInstitution finds the first run of capitalized words, optionally
// ending in an institution-type noun; failing that, the last delimiter
// separated segment.
func extractInstitution(text string) string {
	if m := institutionPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	parts := segmentDelim.Split(text, -1)
	if len(parts) > 1 {
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return ""
}
