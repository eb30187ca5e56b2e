package source

import (
	"regexp"
	"strconv"
	"strings"
)

// yearRe matches four-digit years in the 1900-2099 range.
var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ExtractYear pulls the first plausible four-digit year out of free text.
// Returns 0 when none is found.
func ExtractYear(text string) int {
	match := yearRe.FindString(strings.TrimSpace(text))
	if match == "" {
		return 0
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return year
}
