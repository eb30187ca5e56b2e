package orcid

import (
	"encoding/json"

	"github.com/krystophny/puby/internal/pub"
	"github.com/krystophny/puby/internal/source"
)

// worksSummary is the /works response: groups of equivalent work summaries.
type worksSummary struct {
	Groups []workGroup `json:"group"`
}

type workGroup struct {
	WorkSummaries []workSummary `json:"work-summary"`
}

type workSummary struct {
	PutCode int64 `json:"put-code"`
}

// work is the detailed /work/{put-code} record, reduced to the fields the
// publication model needs.
type work struct {
	Title struct {
		Title struct {
			Value string `json:"value"`
		} `json:"title"`
	} `json:"title"`
	JournalTitle struct {
		Value string `json:"value"`
	} `json:"journal-title"`
	PublicationDate struct {
		Year struct {
			Value string `json:"value"`
		} `json:"year"`
	} `json:"publication-date"`
	URL struct {
		Value string `json:"value"`
	} `json:"url"`
	ExternalIDs struct {
		ExternalID []externalID `json:"external-id"`
	} `json:"external-ids"`
	Contributors struct {
		Contributor []contributor `json:"contributor"`
	} `json:"contributors"`
}

type externalID struct {
	Type  string `json:"external-id-type"`
	Value string `json:"external-id-value"`
}

type contributor struct {
	CreditName struct {
		Value string `json:"value"`
	} `json:"credit-name"`
}

// toPublication maps a work record to the domain model. Returns false when
// the work has no title.
func (w *work) toPublication() (pub.Publication, bool) {
	title := w.Title.Title.Value
	if title == "" {
		return pub.Publication{}, false
	}

	doi := ""
	for _, ext := range w.ExternalIDs.ExternalID {
		if ext.Type == "doi" && ext.Value != "" {
			doi = ext.Value
			break
		}
	}

	var names []string
	for _, c := range w.Contributors.Contributor {
		if c.CreditName.Value != "" {
			names = append(names, c.CreditName.Value)
		}
	}
	authors := source.ParsePlainAuthorNames(names)
	if len(authors) == 0 {
		authors = []pub.Author{source.FallbackAuthor("[Authors not available]")}
	}

	raw := map[string]any{}
	if data, err := json.Marshal(w); err == nil {
		raw["work"] = json.RawMessage(data)
	}

	return pub.Publication{
		Title:           title,
		Authors:         authors,
		Year:            source.ExtractYear(w.PublicationDate.Year.Value),
		Journal:         w.JournalTitle.Value,
		DOI:             doi,
		URL:             w.URL.Value,
		PublicationType: pub.DefaultPublicationType,
		Source:          "ORCID",
		RawData:         raw,
	}, true
}
