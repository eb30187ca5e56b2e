// Package orcid fetches publications from the public ORCID v3.0 API.
package orcid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/krystophny/puby/internal/pub"
)

const (
	// BaseURL is the public (unauthenticated) ORCID API.
	BaseURL = "https://pub.orcid.org/v3.0"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// requestsPerSecond keeps the per-work detail fetches polite. The
	// public API documents a 24 req/s burst limit for anonymous clients.
	requestsPerSecond = 8.0
)

// idRe matches an ORCID iD like 0000-0002-1825-0097 (checksum digit may be X).
var idRe = regexp.MustCompile(`\d{4}-\d{4}-\d{4}-\d{3}[\dX]`)

// Source fetches a researcher's works from ORCID.
type Source struct {
	id         string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Source) {
		s.httpClient = hc
	}
}

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(s *Source) {
		s.baseURL = url
	}
}

// New creates an ORCID source from a profile URL or a bare ORCID iD.
func New(orcidURL string, log zerolog.Logger, opts ...Option) (*Source, error) {
	id := idRe.FindString(orcidURL)
	if id == "" {
		return nil, fmt.Errorf("invalid ORCID URL or ID: %s", orcidURL)
	}

	s := &Source{
		id:         id,
		baseURL:    BaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		log:        log.With().Str("source", "orcid").Str("orcid_id", id).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements source.Source.
func (s *Source) Name() string { return "ORCID" }

// ID returns the extracted ORCID iD.
func (s *Source) ID() string { return s.id }

// Fetch retrieves the works summary and then each work's detail record.
// Works that fail to fetch or parse are logged and skipped.
func (s *Source) Fetch(ctx context.Context) ([]pub.Publication, error) {
	var summary worksSummary
	url := fmt.Sprintf("%s/%s/works", s.baseURL, s.id)
	if err := s.getJSON(ctx, url, &summary); err != nil {
		return nil, fmt.Errorf("fetching ORCID works: %w", err)
	}

	var publications []pub.Publication
	for _, group := range summary.Groups {
		if len(group.WorkSummaries) == 0 {
			continue
		}
		// Summaries within a group describe the same work; the first wins.
		putCode := group.WorkSummaries[0].PutCode
		if putCode == 0 {
			continue
		}

		work, err := s.fetchWorkDetail(ctx, putCode)
		if err != nil {
			s.log.Warn().Err(err).Int64("put_code", putCode).Msg("skipping work")
			continue
		}
		if p, ok := work.toPublication(); ok {
			publications = append(publications, p)
		}
	}

	s.log.Info().Int("count", len(publications)).Msg("fetched publications")
	return publications, nil
}

func (s *Source) fetchWorkDetail(ctx context.Context, putCode int64) (*work, error) {
	var w work
	url := fmt.Sprintf("%s/%s/work/%d", s.baseURL, s.id, putCode)
	if err := s.getJSON(ctx, url, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Source) getJSON(ctx context.Context, url string, v any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
