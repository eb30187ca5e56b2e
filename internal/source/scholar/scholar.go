// Package scholar scrapes publication lists from Google Scholar profiles.
package scholar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/krystophny/puby/internal/pub"
	"github.com/krystophny/puby/internal/source"
)

const (
	// BaseURL is the Scholar citations endpoint.
	BaseURL = "https://scholar.google.com/citations"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// pageSize is Scholar's maximum rows per profile page.
	pageSize = 100

	// Scholar blocks aggressive clients; one page every couple of seconds
	// mirrors the delays interactive users produce.
	requestsPerMinute = 30.0
)

// journalIndicators mark text that names a venue rather than an author list.
var journalIndicators = []string{
	"journal", "proceedings", "conference", "review", "letters", "transactions",
}

// Source scrapes one Scholar profile.
type Source struct {
	userID     string
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

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(s *Source) {
		s.baseURL = u
	}
}

// New creates a Scholar source from a profile URL or a bare user ID.
func New(profileURL string, log zerolog.Logger, opts ...Option) (*Source, error) {
	userID, err := extractUserID(profileURL)
	if err != nil {
		return nil, err
	}

	s := &Source{
		userID:     userID,
		baseURL:    BaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), 1),
		log:        log.With().Str("source", "scholar").Str("user", userID).Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements source.Source.
func (s *Source) Name() string { return "Google Scholar" }

// UserID returns the extracted Scholar user ID.
func (s *Source) UserID() string { return s.userID }

// extractUserID pulls the user ID out of a profile URL, or accepts a bare ID.
func extractUserID(profileURL string) (string, error) {
	trimmed := strings.TrimSpace(profileURL)
	if !strings.HasPrefix(trimmed, "http") {
		if trimmed == "" {
			return "", fmt.Errorf("empty Scholar URL")
		}
		return trimmed, nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid Scholar URL %s: %w", profileURL, err)
	}
	if id := parsed.Query().Get("user"); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("could not extract Scholar user ID from URL: %s", profileURL)
}

// Fetch walks the profile's publication table page by page.
func (s *Source) Fetch(ctx context.Context) ([]pub.Publication, error) {
	var publications []pub.Publication

	for start := 0; ; start += pageSize {
		doc, err := s.fetchPage(ctx, start)
		if err != nil {
			return nil, fmt.Errorf("fetching Scholar page at %d: %w", start, err)
		}

		pagePubs := s.parsePage(doc)
		if len(pagePubs) == 0 {
			break
		}
		publications = append(publications, pagePubs...)

		if !hasNextPage(doc) {
			break
		}
	}

	s.log.Info().Int("count", len(publications)).Msg("fetched publications")
	return publications, nil
}

func (s *Source) fetchPage(ctx context.Context, start int) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	pageURL := fmt.Sprintf("%s?user=%s&cstart=%d&pagesize=%d",
		s.baseURL, url.QueryEscape(s.userID), start, pageSize)
	s.log.Debug().Str("url", pageURL).Msg("fetching profile page")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	source.SetBrowserHeadersRandomUA(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

// hasNextPage checks whether the "next" pagination button is enabled.
func hasNextPage(doc *goquery.Document) bool {
	next := doc.Find("button#gsc_bpf_next")
	if next.Length() == 0 {
		return false
	}
	_, disabled := next.Attr("disabled")
	return !disabled && !next.HasClass("disabled")
}

// parsePage extracts publications from one profile page.
func (s *Source) parsePage(doc *goquery.Document) []pub.Publication {
	var publications []pub.Publication

	doc.Find("table#gsc_a_t tr.gsc_a_tr").Each(func(_ int, row *goquery.Selection) {
		if p, ok := s.parseRow(row); ok {
			publications = append(publications, p)
		}
	})

	return publications
}

func (s *Source) parseRow(row *goquery.Selection) (pub.Publication, bool) {
	titleCell := row.Find("td.gsc_a_t")
	if titleCell.Length() == 0 {
		return pub.Publication{}, false
	}

	title := strings.TrimSpace(titleCell.Find("a.gsc_a_at").Text())
	if title == "" {
		return pub.Publication{}, false
	}

	authors, journal, year := parseMetadata(titleCell)
	if year == 0 {
		year = source.ExtractYear(row.Find("span.gsc_a_h").Text())
	}
	if len(authors) == 0 {
		authors = []pub.Author{source.FallbackAuthor("")}
	}

	return pub.Publication{
		Title:           title,
		Authors:         authors,
		Year:            year,
		Journal:         journal,
		PublicationType: pub.DefaultPublicationType,
		Source:          "Google Scholar",
	}, true
}

// parseMetadata reads the gray byline divs under the title: typically an
// author list first, then a venue line with the year. Scholar's format
// varies, so each line is classified heuristically.
func parseMetadata(titleCell *goquery.Selection) ([]pub.Author, string, int) {
	var authors []pub.Author
	journal := ""
	year := 0

	titleCell.Find("div.gs_gray").Each(func(_ int, line *goquery.Selection) {
		text := strings.TrimSpace(line.Text())
		if text == "" {
			return
		}

		lineAuthors, lineJournal, lineYear := classifyLine(text)
		authors = append(authors, lineAuthors...)
		if lineJournal != "" {
			journal = lineJournal
		}
		if lineYear != 0 {
			year = lineYear
		}
	})

	return authors, journal, year
}

// classifyLine decides whether a byline fragment holds authors or a venue,
// extracting the year either way.
func classifyLine(text string) ([]pub.Author, string, int) {
	year := source.ExtractYear(text)
	if year != 0 {
		text = strings.TrimSpace(strings.Replace(text, fmt.Sprintf("%d", year), "", 1))
		text = strings.TrimSpace(strings.TrimSuffix(text, ","))
	}
	if text == "" {
		return nil, "", year
	}

	if looksLikeJournal(text) {
		return nil, text, year
	}

	if strings.Contains(text, ",") {
		return source.ParseCommaSeparatedAuthors(text), "", year
	}

	if len(text) > 50 {
		return nil, text, year
	}
	return source.ParsePlainAuthorNames([]string{text}), "", year
}

func looksLikeJournal(text string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range journalIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
