// Package export serializes publications to BibTeX.
package export

import (
	"fmt"
	"strings"

	"github.com/krystophny/puby/internal/citekey"
	"github.com/krystophny/puby/internal/pub"
)

// entryTypes maps source item types to BibTeX entry types.
var entryTypes = map[string]string{
	"article":         "article",
	"journalArticle":  "article",
	"preprint":        "article",
	"conferencePaper": "inproceedings",
	"book":            "book",
	"bookSection":     "incollection",
	"thesis":          "phdthesis",
	"report":          "techreport",
}

// ToBibTeX converts a publication to a BibTeX entry with the given key.
func ToBibTeX(p pub.Publication, key string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType(p), key))
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(p.Title)))

	if len(p.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(p.Authors)))
	}
	if p.Year != 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", p.Year))
	}
	if p.Journal != "" {
		b.WriteString(fmt.Sprintf("  journal = {%s},\n", escapeLatex(p.Journal)))
	}
	if p.Volume != "" {
		b.WriteString(fmt.Sprintf("  volume = {%s},\n", escapeLatex(p.Volume)))
	}
	if p.Issue != "" {
		b.WriteString(fmt.Sprintf("  number = {%s},\n", escapeLatex(p.Issue)))
	}
	if p.Pages != "" {
		b.WriteString(fmt.Sprintf("  pages = {%s},\n", escapeLatex(p.Pages)))
	}
	if p.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", p.DOI))
	}
	if p.URL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", p.URL))
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts publications to BibTeX, generating citation keys in
// input order and resolving collisions with letter suffixes.
func ToBibTeXList(pubs []pub.Publication) string {
	existing := make(map[string]bool, len(pubs))
	entries := make([]string, 0, len(pubs))

	for _, p := range pubs {
		key := citekey.Resolve(p, existing)
		existing[key] = true
		entries = append(entries, ToBibTeX(p, key))
	}

	return strings.Join(entries, "\n")
}

func entryType(p pub.Publication) string {
	if t, ok := entryTypes[p.PublicationType]; ok {
		return t
	}
	return "article"
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First".
func formatAuthors(authors []pub.Author) string {
	formatted := make([]string, 0, len(authors))
	for _, a := range authors {
		if a.FamilyName != "" && a.GivenName != "" {
			formatted = append(formatted, fmt.Sprintf("%s, %s", escapeLatex(a.FamilyName), escapeLatex(a.GivenName)))
		} else {
			formatted = append(formatted, escapeLatex(a.String()))
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
