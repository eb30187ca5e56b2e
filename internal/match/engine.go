package match

import (
	"strings"

	"github.com/krystophny/puby/internal/pub"
)

// Default thresholds for the engine and matcher.
const (
	DefaultSimilarityThreshold = 0.8
	DefaultPotentialThreshold  = 0.5
	DefaultYearTolerance       = 1
)

// Signal weights for the confidence score. DOI equality bypasses them all.
const (
	titleWeight   = 0.5
	yearWeight    = 0.2
	authorsWeight = 0.2
	journalWeight = 0.1

	// Minimum per-signal similarity before the signal contributes.
	titleGate   = 0.6
	authorsGate = 0.3
)

// Result is the outcome of comparing a source publication against a
// reference publication.
type Result struct {
	Source     pub.Publication `json:"source"`
	Reference  pub.Publication `json:"reference"`
	Confidence float64         `json:"confidence"`
	IsMatch    bool            `json:"is_match"`

	// Reasons lists the signals that contributed, e.g. ["title", "year"].
	// A DOI match yields exactly ["doi"].
	Reasons []string `json:"reasons"`
}

// PotentialMatch is a pair whose confidence landed between the potential
// and the match thresholds, surfaced for human review.
type PotentialMatch struct {
	Source     pub.Publication `json:"source"`
	Reference  pub.Publication `json:"reference"`
	Confidence float64         `json:"confidence"`
}

// Engine combines a DOI override with weighted title, year, author and
// journal signals into a single confidence score. The zero value is not
// usable; construct with NewEngine.
type Engine struct {
	similarityThreshold float64
	yearTolerance       int
}

// NewEngine returns an engine with the given match threshold and year
// tolerance. Non-positive arguments fall back to the defaults.
func NewEngine(similarityThreshold float64, yearTolerance int) Engine {
	if similarityThreshold <= 0 {
		similarityThreshold = DefaultSimilarityThreshold
	}
	if yearTolerance <= 0 {
		yearTolerance = DefaultYearTolerance
	}
	return Engine{similarityThreshold: similarityThreshold, yearTolerance: yearTolerance}
}

// Match scores how likely source and reference describe the same work.
//
// When both records carry a DOI the decision is made on the DOI alone:
// equal DOIs give confidence 1.0 and a mismatch gives 0.0, regardless of any
// other field. Without a DOI pair, the confidence accumulates from title,
// year, author and journal signals and the pair matches when it reaches the
// similarity threshold.
func (e Engine) Match(source, reference pub.Publication) Result {
	res := Result{Source: source, Reference: reference}

	if source.DOI != "" && reference.DOI != "" {
		if strings.EqualFold(strings.TrimSpace(source.DOI), strings.TrimSpace(reference.DOI)) {
			res.Confidence = 1.0
			res.IsMatch = true
			res.Reasons = []string{"doi"}
		}
		return res
	}

	confidence := 0.0

	if source.Title != "" && reference.Title != "" {
		sim := EnhancedTitleSimilarity(NormalizeText(source.Title), NormalizeText(reference.Title))
		if sim > titleGate {
			confidence += sim * titleWeight
			res.Reasons = append(res.Reasons, "title")
		}
	}

	if source.Year != 0 && reference.Year != 0 {
		diff := source.Year - reference.Year
		if diff < 0 {
			diff = -diff
		}
		if diff <= e.yearTolerance {
			proximity := 1.0 - float64(diff)/float64(e.yearTolerance+1)
			if proximity < 0 {
				proximity = 0
			}
			confidence += proximity * yearWeight
			res.Reasons = append(res.Reasons, "year")
		}
	}

	if len(source.Authors) > 0 && len(reference.Authors) > 0 {
		sim := AuthorSimilarity(source.Authors, reference.Authors)
		if sim > authorsGate {
			confidence += sim * authorsWeight
			res.Reasons = append(res.Reasons, "authors")
		}
	}

	if source.Journal != "" && reference.Journal != "" &&
		NormalizeText(source.Journal) == NormalizeText(reference.Journal) {
		confidence += journalWeight
		res.Reasons = append(res.Reasons, "journal")
	}

	res.Confidence = min(confidence, 1.0)
	res.IsMatch = res.Confidence >= e.similarityThreshold
	return res
}

// MatchPublications compares two publications with default thresholds.
func MatchPublications(source, reference pub.Publication) Result {
	return NewEngine(DefaultSimilarityThreshold, DefaultYearTolerance).Match(source, reference)
}
