package extract

import (
	"regexp"
	"strings"
)

var (
	newlineRun  = regexp.MustCompile(`\n+`)
	enumMarker  = regexp.MustCompile(`^\d+[.)]\s+`)
	properStart = regexp.MustCompile(`^[A-Z][a-z]+`)
)

// maxBufferedItem is the heuristic "this entry is already complete" length:
// once the current buffer exceeds it, the next line starts a new item.
const maxBufferedItem = 150

// boundaryPredicate reports whether line begins a new item given the
// accumulated buffer. Predicates are checked in priority order.
type boundaryPredicate func(line, buffer string) bool

// itemBoundaries is the prioritized list of item-start predicates.
var itemBoundaries = []boundaryPredicate{
	func(line, _ string) bool { return enumMarker.MatchString(line) },
	func(line, _ string) bool { return properStart.MatchString(line) },
	func(_, buffer string) bool { return len(buffer) > maxBufferedItem },
}

// startsNewItem reports whether any boundary predicate fires.
func startsNewItem(line, buffer string) bool {
	for _, pred := range itemBoundaries {
		if pred(line, buffer) {
			return true
		}
	}
	return false
}

// SegmentItems splits section text into discrete logical entries. Lines are
// accumulated into a buffer; a line that fires a boundary predicate flushes
// the buffer as a completed item and starts the next one. Best effort: list
// and bibliography sections carry no machine-parseable delimiter, so this is
// a heuristic, not a grammar.
func SegmentItems(section string) []string {
	var items []string
	var buffer string

	for _, line := range newlineRun.Split(section, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buffer != "" && startsNewItem(line, buffer) {
			items = append(items, buffer)
			buffer = line
			continue
		}
		if buffer == "" {
			buffer = line
		} else {
			buffer += " " + line
		}
	}

	if buffer != "" {
		items = append(items, buffer)
	}
	return items
}
