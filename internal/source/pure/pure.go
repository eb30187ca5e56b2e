// Package pure fetches publications from Elsevier Pure research portals.
//
// Pure portals expose a REST API that is usually locked down, so the
// source first probes the API and falls back to scraping the public
// profile pages when the API is unavailable.
package pure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/krystophny/puby/internal/pub"
	"github.com/krystophny/puby/internal/source"
)

const (
	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// maxPages caps pagination when scraping, in case a portal's
	// "next" links loop.
	maxPages = 10

	requestsPerSecond = 1.0
)

var doiRe = regexp.MustCompile(`10\.\d+/[^\s]+`)

// Source fetches one researcher's outputs from a Pure portal.
type Source struct {
	profileURL string
	baseURL    string
	personID   string
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

// New creates a Pure source from a researcher profile URL.
func New(profileURL string, log zerolog.Logger, opts ...Option) (*Source, error) {
	trimmed := strings.TrimSpace(profileURL)
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		return nil, fmt.Errorf("invalid Pure URL: %s", profileURL)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid Pure URL %s: %w", profileURL, err)
	}

	s := &Source{
		profileURL: trimmed,
		baseURL:    parsed.Scheme + "://" + parsed.Host,
		personID:   extractPersonID(parsed),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		log:        log.With().Str("source", "pure").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name implements source.Source.
func (s *Source) Name() string { return "Pure" }

// extractPersonID returns the path segment after "persons", if any.
func extractPersonID(u *url.URL) string {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, segment := range segments {
		if segment == "persons" && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	return ""
}

// Fetch tries the Pure REST API first, then scrapes the portal pages.
func (s *Source) Fetch(ctx context.Context) ([]pub.Publication, error) {
	if s.personID != "" {
		publications, err := s.fetchAPI(ctx)
		if err == nil && len(publications) > 0 {
			return publications, nil
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("Pure API unavailable, scraping portal pages")
		}
	}
	return s.scrape(ctx)
}

// fetchAPI probes the portal's research-outputs endpoint. Most public
// portals reject unauthenticated API calls, in which case the caller
// falls back to scraping. Response parsing is portal specific and not
// implemented; a successful probe still yields no publications.
func (s *Source) fetchAPI(ctx context.Context) ([]pub.Publication, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	apiURL := fmt.Sprintf("%s/ws/api/persons/%s/research-outputs", s.baseURL, s.personID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil, nil
}

// scrape walks the researcher's publication pages.
func (s *Source) scrape(ctx context.Context) ([]pub.Publication, error) {
	var publications []pub.Publication

	pageURL := s.publicationsURL()
	for page := 0; page < maxPages && pageURL != ""; page++ {
		doc, err := s.get(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetching Pure page %s: %w", pageURL, err)
		}

		pagePubs := s.parsePage(doc)
		if len(pagePubs) == 0 {
			break
		}
		publications = append(publications, pagePubs...)

		pageURL = s.nextPageURL(doc)
	}

	s.log.Info().Int("count", len(publications)).Msg("fetched publications")
	return publications, nil
}

func (s *Source) publicationsURL() string {
	base := strings.TrimSuffix(s.profileURL, "/")
	if strings.Contains(base, "/publications") {
		return base
	}
	return base + "/publications/"
}

func (s *Source) get(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	source.SetBrowserHeaders(req)

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

// parsePage extracts publications from one portal page. Pure portals are
// themeable, so container and field selectors cascade from the common
// rendering classes down to generic fallbacks.
func (s *Source) parsePage(doc *goquery.Document) []pub.Publication {
	var publications []pub.Publication

	containers := doc.Find("div.rendering_contributiontojournal, article.rendering_contributiontojournal")
	if containers.Length() == 0 {
		containers = doc.Find(`div[class*="result"], div[class*="publication"], li[class*="result"], div[class*="research-output"]`)
	}

	containers.Each(func(_ int, container *goquery.Selection) {
		if p, ok := s.parseContainer(container); ok {
			publications = append(publications, p)
		}
	})

	return publications
}

func (s *Source) parseContainer(container *goquery.Selection) (pub.Publication, bool) {
	title := extractTitle(container)
	if title == "" {
		return pub.Publication{}, false
	}

	p := pub.Publication{
		Title:           title,
		Authors:         extractAuthors(container),
		Year:            source.ExtractYear(container.Text()),
		Journal:         extractVenue(container),
		PublicationType: pub.DefaultPublicationType,
		Source:          "Pure",
	}
	if len(p.Authors) == 0 {
		p.Authors = []pub.Author{source.FallbackAuthor("")}
	}

	if href, ok := container.Find(`a[href*="doi.org"]`).First().Attr("href"); ok {
		p.DOI = doiRe.FindString(href)
	}
	if href, ok := container.Find(`a[href*="/publications/"]`).First().Attr("href"); ok {
		p.URL = s.resolveURL(href)
	}

	return p, true
}

func extractTitle(container *goquery.Selection) string {
	selectors := []string{"h2", "h3", ".title", `[class*="title"]`, `a[href*="publications"]`}
	for _, selector := range selectors {
		text := strings.TrimSpace(container.Find(selector).First().Text())
		if len(text) > 10 {
			return text
		}
	}
	return ""
}

func extractAuthors(container *goquery.Selection) []pub.Author {
	var authors []pub.Author
	container.Find(".persons .name").Each(func(_ int, name *goquery.Selection) {
		if author, ok := authorFromText(name.Text()); ok {
			authors = append(authors, author)
		}
	})
	if len(authors) > 0 {
		return authors
	}

	for _, selector := range []string{".authors", `[class*="author"]`, ".person-name", ".persons"} {
		text := strings.TrimSpace(container.Find(selector).First().Text())
		if text != "" {
			return source.ParseCommaSeparatedAuthors(text)
		}
	}
	return nil
}

func authorFromText(text string) (pub.Author, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return pub.Author{}, false
	}
	authors := source.ParsePlainAuthorNames([]string{trimmed})
	if len(authors) == 0 {
		return pub.Author{}, false
	}
	return authors[0], true
}

func extractVenue(container *goquery.Selection) string {
	for _, selector := range []string{".journal", `[class*="journal"]`, ".venue", `[class*="venue"]`} {
		text := strings.TrimSpace(container.Find(selector).First().Text())
		if text != "" {
			return text
		}
	}
	return ""
}

// nextPageURL finds a pagination link to follow, if the portal has one.
func (s *Source) nextPageURL(doc *goquery.Document) string {
	for _, selector := range []string{"a.nextLink", `a[rel="next"]`, `a[class*="next"]`, `a[class*="load-more"]`} {
		if href, ok := doc.Find(selector).First().Attr("href"); ok && href != "" {
			return s.resolveURL(href)
		}
	}
	return ""
}

func (s *Source) resolveURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return s.baseURL + "/" + strings.TrimPrefix(href, "/")
}
