package match

import (
	"strings"
	"unicode/utf8"

	"github.com/krystophny/puby/internal/pub"
)

// containmentMinLength is the normalized-title length (in runes) above which
// substring and word-subset containment bonuses apply. Short titles get no
// bonus: a five-word title contained in another is weak evidence.
const containmentMinLength = 15

// Jaccard returns |a∩b| / |a∪b| for two word sets, 0 if either is empty.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// WordSet splits a normalized string into its set of words.
func WordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// EnhancedTitleSimilarity scores two normalized titles in [0,1] using word
// overlap, with containment bonuses for longer titles so that abbreviated
// and full variants of the same title score highly.
func EnhancedTitleSimilarity(title1, title2 string) float64 {
	if title1 == "" || title2 == "" {
		return 0.0
	}
	if title1 == title2 {
		return 1.0
	}

	words1 := WordSet(title1)
	words2 := WordSet(title2)
	if len(words1) == 0 || len(words2) == 0 {
		return 0.0
	}

	jaccard := Jaccard(words1, words2)

	len1 := utf8.RuneCountInString(title1)
	len2 := utf8.RuneCountInString(title2)

	if len1 > containmentMinLength || len2 > containmentMinLength {
		shorter, longer := title1, title2
		shortLen, longLen := len1, len2
		if len1 > len2 {
			shorter, longer = title2, title1
			shortLen, longLen = len2, len1
		}

		if strings.Contains(longer, shorter) {
			containment := float64(shortLen)/float64(longLen) + 0.2
			return max(jaccard, min(1.0, containment))
		}

		shorterWords, longerWords := words1, words2
		if len(words1) > len(words2) {
			shorterWords, longerWords = words2, words1
		}
		if isSubset(shorterWords, longerWords) {
			containment := float64(len(shorterWords))/float64(len(longerWords)) + 0.4
			return max(jaccard, min(1.0, containment))
		}
	}

	// Boost similar-length titles when at least two words match and the
	// overlap covers half of the smaller word set.
	intersection := 0
	for w := range words1 {
		if words2[w] {
			intersection++
		}
	}
	smaller := min(len(words1), len(words2))
	if intersection >= 2 && float64(intersection)/float64(smaller) >= 0.5 {
		boost := 1.1
		if intersection >= 3 {
			boost = 1.2
		}
		return min(1.0, jaccard*boost)
	}

	return jaccard
}

// LengthPenalizedTitleSimilarity is the stricter variant: raw titles are
// normalized, then word-set Jaccard is scaled by the ratio of the smaller to
// the larger word count. No containment bonus applies.
func LengthPenalizedTitleSimilarity(title1, title2 string) float64 {
	if title1 == "" || title2 == "" {
		return 0.0
	}

	norm1 := NormalizeText(title1)
	norm2 := NormalizeText(title2)
	if norm1 == norm2 {
		if norm1 == "" {
			return 0.0
		}
		return 1.0
	}

	words1 := WordSet(norm1)
	words2 := WordSet(norm2)
	if len(words1) == 0 || len(words2) == 0 {
		return 0.0
	}

	jaccard := Jaccard(words1, words2)
	minLen := min(len(words1), len(words2))
	maxLen := max(len(words1), len(words2))
	return jaccard * float64(minLen) / float64(maxLen)
}

// AuthorSimilarity compares two author lists by canonicalizing each author
// to a "FAMILY,I" token and taking the Jaccard overlap of the token sets.
// Returns 0 when either list yields no tokens.
func AuthorSimilarity(authors1, authors2 []pub.Author) float64 {
	return Jaccard(authorTokens(authors1), authorTokens(authors2))
}

// authorTokens builds the set of canonical "FAMILY,I" tokens for a list.
func authorTokens(authors []pub.Author) map[string]bool {
	tokens := make(map[string]bool)
	for _, a := range authors {
		if t := canonicalAuthorToken(a); t != "" {
			tokens[t] = true
		}
	}
	return tokens
}

func canonicalAuthorToken(a pub.Author) string {
	family := strings.TrimSpace(a.FamilyName)
	if family == "" {
		fields := strings.Fields(a.Name)
		if len(fields) == 0 {
			return ""
		}
		family = fields[len(fields)-1]
	}

	initial := ""
	if given := strings.TrimSpace(a.GivenName); given != "" {
		initial = firstRune(given)
	} else if fields := strings.Fields(a.Name); len(fields) > 0 {
		initial = firstRune(fields[0])
	}

	return strings.ToUpper(family) + "," + strings.ToUpper(initial)
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func isSubset(sub, super map[string]bool) bool {
	for w := range sub {
		if !super[w] {
			return false
		}
	}
	return true
}
