// Package report renders matching results for human and machine consumers.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/krystophny/puby/internal/export"
	"github.com/krystophny/puby/internal/match"
	"github.com/krystophny/puby/internal/pub"
)

// Output formats supported by the reporter.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatBibTeX = "bibtex"
)

const (
	titleWidth   = 50
	journalWidth = 30
	authorWidth  = 20

	// maxPotentialMatches bounds the potential-match listing; beyond
	// that the output stops being reviewable.
	maxPotentialMatches = 10
)

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	switch format {
	case FormatTable, FormatJSON, FormatCSV, FormatBibTeX:
		return true
	}
	return false
}

// Reporter writes publication listings and match results.
type Reporter struct {
	w      io.Writer
	format string
}

// New creates a Reporter writing format to w.
func New(w io.Writer, format string) (*Reporter, error) {
	if !ValidFormat(format) {
		return nil, fmt.Errorf("unknown output format %q (must be one of table, json, csv, bibtex)", format)
	}
	return &Reporter{w: w, format: format}, nil
}

// Missing reports publications found in sourceName but absent from the
// reference library.
func (r *Reporter) Missing(sourceName string, missing []pub.Publication) error {
	if r.format == FormatTable {
		if len(missing) == 0 {
			fmt.Fprintf(r.w, "\n%s: no missing publications\n", sourceName)
			return nil
		}
		fmt.Fprintf(r.w, "\n%s: %d publication(s) missing from library\n", sourceName, len(missing))
	}
	return r.Publications(missing)
}

// Publications writes a publication list in the configured format.
func (r *Reporter) Publications(publications []pub.Publication) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(r.w, publications)
	case FormatCSV:
		return writeCSV(r.w, publications)
	case FormatBibTeX:
		return writeBibTeX(r.w, publications)
	default:
		return writeTable(r.w, publications)
	}
}

// Duplicates reports duplicate groups found within the reference library.
func (r *Reporter) Duplicates(groups [][]pub.Publication) error {
	if r.format == FormatJSON {
		return writeJSON(r.w, groups)
	}

	if len(groups) == 0 {
		fmt.Fprintln(r.w, "\nNo duplicates found in library")
		return nil
	}

	fmt.Fprintf(r.w, "\n%d duplicate group(s) found in library\n", len(groups))
	for i, group := range groups {
		fmt.Fprintf(r.w, "\nGroup %d:\n", i+1)
		for _, p := range group {
			fmt.Fprintf(r.w, "  - %s\n", p.String())
		}
	}
	return nil
}

// PotentialMatches reports near-threshold pairs needing manual review.
func (r *Reporter) PotentialMatches(matches []match.PotentialMatch) error {
	if r.format == FormatJSON {
		return writeJSON(r.w, matches)
	}

	if len(matches) == 0 {
		return nil
	}

	fmt.Fprintf(r.w, "\n%d potential match(es) need manual review\n", len(matches))
	shown := matches
	if len(shown) > maxPotentialMatches {
		shown = shown[:maxPotentialMatches]
	}
	for _, m := range shown {
		fmt.Fprintf(r.w, "  %3.0f%%  %s\n        ~ %s\n",
			m.Confidence*100, truncate(m.Source.Title, titleWidth+20), truncate(m.Reference.Title, titleWidth+20))
	}
	if len(matches) > maxPotentialMatches {
		fmt.Fprintf(r.w, "  ... and %d more\n", len(matches)-maxPotentialMatches)
	}
	return nil
}

func writeTable(w io.Writer, publications []pub.Publication) error {
	if len(publications) == 0 {
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Year", "Authors", "Title", "Journal", "DOI"})

	for _, p := range publications {
		tw.AppendRow(table.Row{
			yearCell(p.Year),
			truncate(authorSummary(p.Authors), authorWidth),
			truncate(p.Title, titleWidth),
			truncate(p.Journal, journalWidth),
			p.DOI,
		})
	}

	tw.Render()
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(w io.Writer, publications []pub.Publication) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "authors", "title", "journal", "doi", "url"}); err != nil {
		return err
	}
	for _, p := range publications {
		record := []string{
			yearCell(p.Year),
			authorSummary(p.Authors),
			p.Title,
			p.Journal,
			p.DOI,
			p.URL,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeBibTeX(w io.Writer, publications []pub.Publication) error {
	_, err := io.WriteString(w, export.ToBibTeXList(publications))
	return err
}

func yearCell(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprintf("%d", year)
}

// authorSummary joins author names, shortening long lists to "first et al."
func authorSummary(authors []pub.Author) string {
	if len(authors) == 0 {
		return ""
	}
	if len(authors) > 3 {
		return authors[0].String() + " et al."
	}
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.String()
	}
	return strings.Join(names, "; ")
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
