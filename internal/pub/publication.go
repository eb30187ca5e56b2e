package pub

import (
	"fmt"
	"regexp"
	"strings"
)

// Publication represents a bibliographic record from any source.
//
// Fields other than Title and Authors are optional: a zero Year means the
// year is unknown, and optional string fields are empty when absent. The
// matching and key-generation code treats publications as immutable values
// and never mutates them.
type Publication struct {
	Title   string   `json:"title"`
	Authors []Author `json:"authors"`
	Year    int      `json:"year,omitempty"`
	DOI     string   `json:"doi,omitempty"`
	Journal string   `json:"journal,omitempty"`
	Volume  string   `json:"volume,omitempty"`
	Issue   string   `json:"issue,omitempty"`
	Pages   string   `json:"pages,omitempty"`

	Abstract string `json:"abstract,omitempty"`
	URL      string `json:"url,omitempty"`

	// PublicationType is the item type ("article", "journalArticle", ...).
	PublicationType string `json:"publication_type,omitempty"`

	// Source labels the provenance, e.g. "ORCID" or "Zotero".
	Source string `json:"source,omitempty"`

	// RawData carries the opaque provenance payload. The core never reads it.
	RawData map[string]any `json:"-"`
}

// DefaultPublicationType is used when a source does not report an item type.
const DefaultPublicationType = "article"

// String renders a one-line citation: up to three authors with "et al."
// truncation, year, title, journal and DOI when present.
func (p Publication) String() string {
	names := make([]string, 0, 3)
	for i, a := range p.Authors {
		if i == 3 {
			break
		}
		names = append(names, a.String())
	}
	authorStr := strings.Join(names, ", ")
	if len(p.Authors) > 3 {
		authorStr += " et al."
	}

	var b strings.Builder
	b.WriteString(authorStr)
	if p.Year != 0 {
		fmt.Fprintf(&b, " (%d)", p.Year)
	}
	fmt.Fprintf(&b, ". %s.", p.Title)
	if p.Journal != "" {
		fmt.Fprintf(&b, " %s.", p.Journal)
	}
	if p.DOI != "" {
		fmt.Fprintf(&b, " DOI: %s", p.DOI)
	}
	return b.String()
}

// Matches reports whether two publications look like the same work.
//
// When both records carry a DOI the comparison is a case-insensitive DOI
// check and nothing else. Otherwise the titles are compared with a
// length-penalized word similarity and the years must agree when both are
// known. This is the quick convenience check; the match engine computes a
// richer multi-signal confidence.
func (p Publication) Matches(other Publication, threshold float64) bool {
	if p.DOI != "" && other.DOI != "" {
		return strings.EqualFold(strings.TrimSpace(p.DOI), strings.TrimSpace(other.DOI))
	}

	if p.Title == "" || other.Title == "" {
		return false
	}

	sim := titleSimilarity(p.Title, other.Title)
	yearMatch := true
	if p.Year != 0 && other.Year != 0 {
		yearMatch = p.Year == other.Year
	}
	return sim >= threshold && yearMatch
}

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// titleSimilarity is the strict variant: word-set Jaccard scaled by the
// ratio of the smaller to the larger word count, with no containment bonus.
func titleSimilarity(title1, title2 string) float64 {
	norm1 := normalizeTitle(title1)
	norm2 := normalizeTitle(title2)
	if norm1 == "" || norm2 == "" {
		return 0.0
	}
	if norm1 == norm2 {
		return 1.0
	}

	words1 := wordSet(norm1)
	words2 := wordSet(norm2)
	if len(words1) == 0 || len(words2) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range words1 {
		if words2[w] {
			intersection++
		}
	}
	union := len(words1) + len(words2) - intersection
	jaccard := float64(intersection) / float64(union)

	minLen, maxLen := len(words1), len(words2)
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	return jaccard * float64(minLen) / float64(maxLen)
}

func normalizeTitle(s string) string {
	s = strings.ToLower(s)
	s = nonWordRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
