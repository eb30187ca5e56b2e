// Package citekey derives deterministic BibTeX citation keys from
// publications and resolves key collisions within an export batch.
package citekey

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/krystophny/puby/internal/pub"
)

// UnknownSurname is the key component used when no usable surname exists.
const UnknownSurname = "Unknown"

// translit maps non-ASCII letters that NFD decomposition alone cannot
// reduce to ASCII.
var translit = map[rune]string{
	'ß': "ss",
	'æ': "ae", 'Æ': "Ae",
	'ø': "o", 'Ø': "O",
	'å': "a", 'Å': "A",
	'ł': "l", 'Ł': "L",
	'đ': "d", 'Đ': "D",
	'þ': "th", 'Þ': "Th",
	'ñ': "n", 'Ñ': "N",
	'ç': "c", 'Ç': "C",
	'ż': "z", 'ź': "z", 'ś': "s",
	'œ': "oe", 'Œ': "Oe",
	'ð': "d", 'Ð': "D",
}

// Generate derives the citation key for a publication: cleaned first-author
// surname, year (or "NoYear"), and the starting page prefixed with "-" when
// pages are known. It always returns a non-empty key; the worst case is
// "UnknownNoYear".
func Generate(p pub.Publication) string {
	key := cleanSurname(surname(p)) + yearSegment(p.Year)
	if seg := pageSegment(p.Pages); seg != "" {
		key += "-" + seg
	}
	return key
}

// Resolve returns Generate's key for p, disambiguated against existing:
// if the base key is taken, lowercase letter suffixes a through z are tried
// in order. After all 26 suffixes the base plus "z" is returned as a
// documented last resort; a batch that deep in collisions has bigger
// problems than key cosmetics.
//
// The caller owns existing and must add the returned key to it.
func Resolve(p pub.Publication, existing map[string]bool) string {
	base := Generate(p)
	if !existing[base] {
		return base
	}
	for c := 'a'; c <= 'z'; c++ {
		candidate := base + string(c)
		if !existing[candidate] {
			return candidate
		}
	}
	return base + "z"
}

// surname extracts the first author's surname: the structured family name
// when present, else the part before a comma, else the last word of the
// display name.
func surname(p pub.Publication) string {
	if len(p.Authors) == 0 {
		return UnknownSurname
	}
	first := p.Authors[0]

	if fam := strings.TrimSpace(first.FamilyName); fam != "" {
		return fam
	}

	name := strings.TrimSpace(first.Name)
	if name == "" {
		return UnknownSurname
	}
	if idx := strings.Index(name, ","); idx >= 0 {
		if before := strings.TrimSpace(name[:idx]); before != "" {
			return before
		}
		return UnknownSurname
	}
	fields := strings.Fields(name)
	return fields[len(fields)-1]
}

// cleanSurname reduces a surname to ASCII letters and hyphens: NFD
// decomposition drops accents, the transliteration table handles letters
// with no decomposition, everything else is removed.
func cleanSurname(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Combining mark left over from decomposition.
		case r == '-':
			b.WriteRune(r)
		case r < 128 && unicode.IsLetter(r):
			b.WriteRune(r)
		default:
			if repl, ok := translit[r]; ok {
				b.WriteString(repl)
			}
		}
	}

	cleaned := collapseHyphens(b.String())
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		return UnknownSurname
	}
	return cleaned
}

func collapseHyphens(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

func yearSegment(year int) string {
	if year == 0 {
		return "NoYear"
	}
	return strconv.Itoa(year)
}

// pageRangeSeparators are tried in encounter order; the earliest occurrence
// in the pages string wins.
var pageRangeSeparators = []string{"-", "—", " to ", " TO "}

// pageSegment returns the first page of a page range, or the raw pages
// string when the part before the separator is empty.
func pageSegment(pages string) string {
	if pages == "" {
		return ""
	}

	cut := -1
	for _, sep := range pageRangeSeparators {
		if idx := strings.Index(pages, sep); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	if cut < 0 {
		return strings.TrimSpace(pages)
	}

	first := strings.TrimSpace(pages[:cut])
	if first == "" {
		return strings.TrimSpace(pages)
	}
	return first
}
