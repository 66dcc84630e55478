package extract

import (
	"regexp"
	"strings"
)

// boundaryPatterns mark where a located section likely ends. Checked in
// order; the earliest qualifying match wins.
var boundaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:appendix|appendices|index|acknowledgements|acknowledgments)`),
	regexp.MustCompile(`(?i)(?:notes|footnotes|abstract|introduction)`),
	regexp.MustCompile(`(?i)(?:chapter\s+\d+|section\s+\d+)`),
}

// minBoundaryOffset guards against boundary phrases that appear inside the
// section's own header.
const minBoundaryOffset = 100

// LocateSection finds the sub-range of text relevant to the hint. An empty
// hint returns the full text unchanged. The hint is first matched as a
// whole (case-insensitive, whitespace-tolerant); failing that, any single
// token of the hint is tried word-boundary-anchored. The section runs from
// just past the match to the earliest boundary phrase found at least
// minBoundaryOffset characters in, or end of text.
func LocateSection(text, hint string) (string, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return text, nil
	}

	match := hintPattern(hint).FindStringIndex(text)
	if match == nil {
		for _, token := range strings.Fields(hint) {
			re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.ToLower(token)) + `\b`)
			if match = re.FindStringIndex(text); match != nil {
				break
			}
		}
	}
	if match == nil {
		return "", ErrSectionNotFound
	}

	section := strings.TrimSpace(text[match[1]:])

	end := len(section)
	for _, re := range boundaryPatterns {
		if m := re.FindStringIndex(section); m != nil && m[0] > minBoundaryOffset && m[0] < end {
			end = m[0]
		}
	}
	return strings.TrimSpace(section[:end]), nil
}

// hintPattern builds a case-insensitive regexp from the hint with literal
// characters escaped and internal whitespace runs widened to \s+.
func hintPattern(hint string) *regexp.Regexp {
	fields := strings.Fields(strings.ToLower(hint))
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, regexp.QuoteMeta(f))
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, `\s+`) + `)`)
}
