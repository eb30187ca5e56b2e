package source

import (
	"strings"

	"github.com/krystophny/puby/internal/pub"
)

// separatorWords are list artifacts that must not become authors.
var separatorWords = map[string]bool{
	"and":    true,
	"&":      true,
	"et":     true,
	"al":     true,
	"et al":  true,
	"et al.": true,
}

// ParseCommaSeparatedAuthors parses authors from comma-separated text such
// as the Google Scholar byline "J Smith, M Johnson, K Lee".
func ParseCommaSeparatedAuthors(text string) []pub.Author {
	var authors []pub.Author
	for _, name := range strings.Split(text, ",") {
		name = strings.TrimSpace(name)
		if name == "" || isSeparatorWord(name) {
			continue
		}
		if a, ok := authorFromName(name); ok {
			authors = append(authors, a)
		}
	}
	return authors
}

// ParseBibTeXAuthors parses a BibTeX author field like
// "Last1, First1 and Last2, First2".
func ParseBibTeXAuthors(text string) []pub.Author {
	var authors []pub.Author
	for _, part := range strings.Split(text, " and ") {
		part = strings.TrimSpace(part)
		if part == "" || isSeparatorWord(part) {
			continue
		}
		if a, ok := authorFromName(part); ok {
			authors = append(authors, a)
		}
	}
	return authors
}

// ParsePlainAuthorNames parses a list of display names into authors.
func ParsePlainAuthorNames(names []string) []pub.Author {
	var authors []pub.Author
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || isSeparatorWord(name) {
			continue
		}
		if a, ok := authorFromName(name); ok {
			authors = append(authors, a)
		}
	}
	return authors
}

// StructuredAuthor builds an author from separate name components, as
// delivered by APIs like Zotero. Returns false when no usable name exists.
func StructuredAuthor(firstName, lastName, fullName string) (pub.Author, bool) {
	first := strings.TrimSpace(firstName)
	last := strings.TrimSpace(lastName)
	full := strings.TrimSpace(fullName)

	if first != "" || last != "" {
		display := strings.TrimSpace(first + " " + last)
		return pub.Author{
			Name:       display,
			GivenName:  first,
			FamilyName: last,
		}, true
	}

	if full != "" {
		return authorFromName(full)
	}

	return pub.Author{}, false
}

// authorFromName parses a single display name, recognizing both
// "Last, First" and "First Middle Last" orderings.
func authorFromName(name string) (pub.Author, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return pub.Author{}, false
	}

	if strings.Contains(name, ",") {
		return parseLastFirst(name), true
	}
	return parseFirstLast(name), true
}

// parseLastFirst parses "Last, First Middle" and reconstructs the display
// name in natural order.
func parseLastFirst(name string) pub.Author {
	parts := strings.SplitN(name, ",", 2)
	family := strings.TrimSpace(parts[0])
	given := ""
	if len(parts) > 1 {
		given = strings.TrimSpace(parts[1])
	}

	display := family
	if given != "" {
		display = given + " " + family
	}

	return pub.Author{Name: display, GivenName: given, FamilyName: family}
}

// parseFirstLast parses "First Middle Last": the last word is the family
// name, everything before it the given name. A single word is treated as a
// family name.
func parseFirstLast(name string) pub.Author {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return pub.Author{Name: name}
	case 1:
		return pub.Author{Name: name, FamilyName: name}
	default:
		return pub.Author{
			Name:       name,
			GivenName:  strings.Join(words[:len(words)-1], " "),
			FamilyName: words[len(words)-1],
		}
	}
}

func isSeparatorWord(text string) bool {
	return separatorWords[strings.ToLower(strings.TrimSpace(text))]
}
