package source

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/krystophny/puby/internal/pub"
)

var (
	bibtexEntryRe = regexp.MustCompile(`@\w+\s*\{`)
	bibtexFieldRe = regexp.MustCompile(`(?i)(\w+)\s*=\s*\{([^}]*)\}`)
)

// ParseBibTeX parses a BibTeX document (as served by Zotero's My
// Publications endpoint) into publications. Entries without a title are
// skipped; malformed entries are logged and skipped rather than failing
// the whole response.
func ParseBibTeX(content, sourceLabel string, log zerolog.Logger) []pub.Publication {
	var publications []pub.Publication

	boundaries := bibtexEntryRe.FindAllStringIndex(content, -1)
	for i, bounds := range boundaries {
		end := len(content)
		if i+1 < len(boundaries) {
			end = boundaries[i+1][0]
		}
		entry := content[bounds[1]:end]

		p, ok := parseBibTeXEntry(entry, sourceLabel)
		if !ok {
			log.Debug().Str("entry", firstLine(entry)).Msg("skipping BibTeX entry without title")
			continue
		}
		publications = append(publications, p)
	}

	return publications
}

func parseBibTeXEntry(entry, sourceLabel string) (pub.Publication, bool) {
	fields := make(map[string]string)
	for _, m := range bibtexFieldRe.FindAllStringSubmatch(entry, -1) {
		fields[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
	}

	title := fields["title"]
	if title == "" {
		return pub.Publication{}, false
	}

	authors := ParseBibTeXAuthors(fields["author"])
	if len(authors) == 0 {
		authors = []pub.Author{FallbackAuthor("")}
	}

	year := 0
	if y, err := strconv.Atoi(fields["year"]); err == nil {
		year = y
	}

	return pub.Publication{
		Title:           title,
		Authors:         authors,
		Year:            year,
		Journal:         fields["journal"],
		DOI:             fields["doi"],
		Volume:          fields["volume"],
		Pages:           fields["pages"],
		PublicationType: pub.DefaultPublicationType,
		Source:          sourceLabel,
		RawData:         map[string]any{"bibtex": entry},
	}, true
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
