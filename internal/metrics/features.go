// Package metrics derives cheap local features from a user message so turns
// can be characterised without storing their text.
package metrics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// imdbIDPattern matches IMDb title identifiers such as tt1375666.
var imdbIDPattern = regexp.MustCompile(`\btt\d{7,8}\b`)

// Features holds basic local text features derived from an input string.
type Features struct {
	Bytes   int
	Runes   int
	Words   int
	Lines   int
	IMDbIDs int
}

// CountFeatures computes byte, rune, word, line and IMDb identifier counts.
func CountFeatures(s string) Features {
	return Features{
		Bytes:   len(s),
		Runes:   utf8.RuneCountInString(s),
		Words:   len(strings.Fields(s)),
		Lines:   countLines(s),
		IMDbIDs: len(imdbIDPattern.FindAllString(s, -1)),
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
