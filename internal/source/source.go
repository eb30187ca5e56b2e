// Package source defines the publication source contract and the parsing
// helpers shared by the concrete source adapters.
package source

import (
	"context"

	"github.com/krystophny/puby/internal/pub"
)

// Source fetches publications from one upstream system. Implementations
// guarantee every returned publication has a non-empty title and at least
// one author, substituting FallbackAuthor when none are discoverable.
type Source interface {
	// Name identifies the source in logs and reports, e.g. "ORCID".
	Name() string

	// Fetch retrieves all publications from the source.
	Fetch(ctx context.Context) ([]pub.Publication, error)
}

// FallbackAuthorName is the sentinel display name used when a record has no
// discoverable authors, so downstream code never sees an empty author list.
const FallbackAuthorName = "[No authors]"

// FallbackAuthor returns the sentinel author with the given display text,
// or the default "[No authors]" when text is empty.
func FallbackAuthor(text string) pub.Author {
	if text == "" {
		text = FallbackAuthorName
	}
	return pub.Author{Name: text}
}
