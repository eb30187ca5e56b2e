package match

import (
	"sort"

	"github.com/krystophny/puby/internal/pub"
)

// Matcher orchestrates cross-source comparison: missing-entry detection,
// duplicate grouping and potential-match banding. A Matcher is immutable
// after construction and safe for concurrent use.
type Matcher struct {
	engine             Engine
	potentialThreshold float64
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithSimilarityThreshold sets the confidence required for a confirmed match.
func WithSimilarityThreshold(t float64) MatcherOption {
	return func(m *Matcher) {
		m.engine.similarityThreshold = t
	}
}

// WithYearTolerance sets the maximum year difference that still contributes
// to the confidence score.
func WithYearTolerance(tol int) MatcherOption {
	return func(m *Matcher) {
		m.engine.yearTolerance = tol
	}
}

// WithPotentialThreshold sets the floor of the potential-match band.
func WithPotentialThreshold(t float64) MatcherOption {
	return func(m *Matcher) {
		m.potentialThreshold = t
	}
}

// NewMatcher returns a matcher with default thresholds (match at 0.8,
// potential band from 0.5, year tolerance 1), adjusted by opts.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		engine:             NewEngine(DefaultSimilarityThreshold, DefaultYearTolerance),
		potentialThreshold: DefaultPotentialThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Engine exposes the matcher's underlying engine.
func (m *Matcher) Engine() Engine {
	return m.engine
}

// FindMissing returns the source publications that match nothing in
// referencePubs, in their original order. Scanning stops at the first
// reference that matches each source publication.
func (m *Matcher) FindMissing(sourcePubs, referencePubs []pub.Publication) []pub.Publication {
	missing := []pub.Publication{}

	for _, src := range sourcePubs {
		found := false
		for _, ref := range referencePubs {
			if m.engine.Match(src, ref).IsMatch {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, src)
		}
	}

	return missing
}

// FindDuplicates groups publications that match each other within a single
// list and returns only groups with two or more members, ordered by the
// first member's position.
//
// The scan is greedy: each unclaimed publication seeds a group and claims
// every later unclaimed publication that matches it. When the match relation
// is not transitive (A matches B, B matches C, A does not match C) the
// grouping depends on encounter order; this mirrors the behavior reports
// are calibrated against, so it is kept rather than replaced with
// equivalence-class grouping.
func (m *Matcher) FindDuplicates(publications []pub.Publication) [][]pub.Publication {
	var groups [][]pub.Publication
	claimed := make(map[int]bool)

	for i, first := range publications {
		if claimed[i] {
			continue
		}

		group := []pub.Publication{first}
		for j := i + 1; j < len(publications); j++ {
			if claimed[j] {
				continue
			}
			if m.engine.Match(first, publications[j]).IsMatch {
				group = append(group, publications[j])
				claimed[j] = true
			}
		}

		if len(group) > 1 {
			groups = append(groups, group)
			claimed[i] = true
		}
	}

	return groups
}

// FindPotentialMatches returns every (source, reference) pair whose
// confidence falls in [potential, match), sorted by descending confidence.
// Ties keep generation order: sources outer, references inner.
func (m *Matcher) FindPotentialMatches(sourcePubs, referencePubs []pub.Publication) []PotentialMatch {
	var potentials []PotentialMatch

	for _, src := range sourcePubs {
		for _, ref := range referencePubs {
			res := m.engine.Match(src, ref)
			if res.Confidence >= m.potentialThreshold && res.Confidence < m.engine.similarityThreshold {
				potentials = append(potentials, PotentialMatch{
					Source:     src,
					Reference:  ref,
					Confidence: res.Confidence,
				})
			}
		}
	}

	sort.SliceStable(potentials, func(i, j int) bool {
		return potentials[i].Confidence > potentials[j].Confidence
	})

	return potentials
}
