// Package zotero fetches publications from the Zotero Web API.
package zotero

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/krystophny/puby/internal/pub"
	"github.com/krystophny/puby/internal/source"
)

const (
	// BaseURL is the Zotero Web API endpoint.
	BaseURL = "https://api.zotero.org"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// pageSize is the Zotero API maximum for one items request.
	pageSize = 100

	requestsPerSecond = 5.0
)

// Format selects how My Publications entries are retrieved.
const (
	FormatJSON   = "json"
	FormatBibTeX = "bibtex"
)

var apiKeyRe = regexp.MustCompile(`^[a-zA-Z0-9]{24}$`)

// publicationItemTypes are the Zotero item types treated as publications.
var publicationItemTypes = map[string]bool{
	"journalArticle":  true,
	"book":            true,
	"bookSection":     true,
	"conferencePaper": true,
	"thesis":          true,
	"report":          true,
	"preprint":        true,
}

// Config holds the options needed to reach a Zotero library.
type Config struct {
	// APIKey authenticates against the Web API. Create one at
	// https://www.zotero.org/settings/keys.
	APIKey string

	// LibraryType is "user" or "group".
	LibraryType string

	// LibraryID identifies the library. For user libraries it can be
	// left empty and is discovered from the API key.
	LibraryID string

	// UseMyPublications fetches the curated My Publications list
	// instead of the whole library.
	UseMyPublications bool

	// Format is the My Publications retrieval format, FormatJSON or
	// FormatBibTeX.
	Format string
}

// Source fetches publications from one Zotero library.
type Source struct {
	cfg        Config
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

// New creates a Zotero source after validating the configuration.
func New(cfg Config, log zerolog.Logger, opts ...Option) (*Source, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if cfg.LibraryType == "" {
		cfg.LibraryType = "user"
	}
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}

	s := &Source{
		cfg:        cfg,
		baseURL:    BaseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		log:        log.With().Str("source", "zotero").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func validate(cfg Config) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("Zotero API key is required; create one at https://www.zotero.org/settings/keys")
	}
	if !apiKeyRe.MatchString(cfg.APIKey) {
		return fmt.Errorf("invalid Zotero API key format (expected 24 alphanumeric characters); check https://www.zotero.org/settings/keys")
	}
	switch cfg.LibraryType {
	case "", "user", "group":
	default:
		return fmt.Errorf("invalid Zotero library type %q (must be \"user\" or \"group\")", cfg.LibraryType)
	}
	if cfg.LibraryType == "group" && cfg.LibraryID == "" {
		return fmt.Errorf("Zotero group library requires a library ID")
	}
	switch cfg.Format {
	case "", FormatJSON, FormatBibTeX:
	default:
		return fmt.Errorf("invalid Zotero format %q (must be %q or %q)", cfg.Format, FormatJSON, FormatBibTeX)
	}
	return nil
}

// Name implements source.Source.
func (s *Source) Name() string {
	if s.cfg.UseMyPublications {
		return "Zotero My Publications"
	}
	return "Zotero"
}

// Fetch retrieves the configured library's publications.
func (s *Source) Fetch(ctx context.Context) ([]pub.Publication, error) {
	libraryID := s.cfg.LibraryID
	if libraryID == "" {
		discovered, err := s.discoverUserID(ctx)
		if err != nil {
			return nil, fmt.Errorf("discovering Zotero user ID: %w", err)
		}
		libraryID = discovered
	}

	if s.cfg.UseMyPublications {
		publications, err := s.fetchMyPublications(ctx, libraryID)
		if err == nil {
			return publications, nil
		}
		var httpErr *statusError
		if errors.As(err, &httpErr) && httpErr.code == http.StatusNotFound {
			s.log.Warn().Msg("My Publications not found, fetching library items instead")
			return s.fetchLibrary(ctx, libraryID)
		}
		return nil, err
	}

	return s.fetchLibrary(ctx, libraryID)
}

// discoverUserID resolves the user ID that owns the API key.
func (s *Source) discoverUserID(ctx context.Context) (string, error) {
	var key struct {
		UserID int64 `json:"userID"`
	}
	if err := s.getJSON(ctx, s.baseURL+"/keys/current", &key); err != nil {
		return "", err
	}
	if key.UserID == 0 {
		return "", fmt.Errorf("API key response did not include a user ID")
	}
	return fmt.Sprintf("%d", key.UserID), nil
}

// fetchLibrary pages through the library's top-level items.
func (s *Source) fetchLibrary(ctx context.Context, libraryID string) ([]pub.Publication, error) {
	prefix := s.libraryPrefix(libraryID)
	var publications []pub.Publication

	for start := 0; ; start += pageSize {
		itemsURL := fmt.Sprintf("%s%s/items/top?format=json&limit=%d&start=%d",
			s.baseURL, prefix, pageSize, start)

		var items []item
		if err := s.getJSON(ctx, itemsURL, &items); err != nil {
			return nil, fmt.Errorf("fetching Zotero items: %w", err)
		}
		if len(items) == 0 {
			break
		}

		for _, it := range items {
			if p, ok := it.toPublication(s.Name()); ok {
				publications = append(publications, p)
			}
		}
		if len(items) < pageSize {
			break
		}
	}

	s.log.Info().Int("count", len(publications)).Msg("fetched publications")
	return publications, nil
}

// fetchMyPublications retrieves the curated My Publications collection.
func (s *Source) fetchMyPublications(ctx context.Context, libraryID string) ([]pub.Publication, error) {
	pubsURL := fmt.Sprintf("%s/users/%s/publications/items", s.baseURL, libraryID)

	if s.cfg.Format == FormatBibTeX {
		content, err := s.getRaw(ctx, pubsURL, "application/x-bibtex")
		if err != nil {
			return nil, err
		}
		return source.ParseBibTeX(content, s.Name(), s.log), nil
	}

	var items []item
	if err := s.getJSON(ctx, pubsURL+"?format=json&limit=100", &items); err != nil {
		return nil, err
	}

	publications := make([]pub.Publication, 0, len(items))
	for _, it := range items {
		if p, ok := it.toPublication(s.Name()); ok {
			publications = append(publications, p)
		}
	}
	s.log.Info().Int("count", len(publications)).Msg("fetched My Publications")
	return publications, nil
}

func (s *Source) libraryPrefix(libraryID string) string {
	if s.cfg.LibraryType == "group" {
		return "/groups/" + libraryID
	}
	return "/users/" + libraryID
}

func (s *Source) getJSON(ctx context.Context, url string, v any) error {
	body, err := s.getRaw(ctx, url, "application/json")
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(body), v)
}

func (s *Source) getRaw(ctx context.Context, url, accept string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Zotero-API-Key", s.cfg.APIKey)
	req.Header.Set("Zotero-API-Version", "3")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return "", fmt.Errorf("Zotero API key not authorized for %s; check key permissions at https://www.zotero.org/settings/keys", url)
	default:
		return "", &statusError{code: resp.StatusCode, url: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.code, e.url)
}

// item is one entry of a Zotero items response.
type item struct {
	Key  string `json:"key"`
	Data struct {
		ItemType         string `json:"itemType"`
		Title            string `json:"title"`
		Date             string `json:"date"`
		PublicationTitle string `json:"publicationTitle"`
		Volume           string `json:"volume"`
		Issue            string `json:"issue"`
		Pages            string `json:"pages"`
		DOI              string `json:"DOI"`
		URL              string `json:"url"`
		AbstractNote     string `json:"abstractNote"`
		Creators         []struct {
			CreatorType string `json:"creatorType"`
			FirstName   string `json:"firstName"`
			LastName    string `json:"lastName"`
			Name        string `json:"name"`
		} `json:"creators"`
	} `json:"data"`
}

func (it *item) toPublication(sourceLabel string) (pub.Publication, bool) {
	data := it.Data
	if !publicationItemTypes[data.ItemType] || strings.TrimSpace(data.Title) == "" {
		return pub.Publication{}, false
	}

	var authors []pub.Author
	for _, creator := range data.Creators {
		if creator.CreatorType != "author" {
			continue
		}
		if author, ok := source.StructuredAuthor(creator.FirstName, creator.LastName, creator.Name); ok {
			authors = append(authors, author)
		}
	}
	if len(authors) == 0 {
		authors = []pub.Author{source.FallbackAuthor("")}
	}

	publicationType := data.ItemType
	if publicationType == "" {
		publicationType = pub.DefaultPublicationType
	}

	raw := map[string]any{"key": it.Key, "itemType": data.ItemType}

	return pub.Publication{
		Title:           strings.TrimSpace(data.Title),
		Authors:         authors,
		Year:            source.ExtractYear(data.Date),
		DOI:             strings.TrimSpace(data.DOI),
		Journal:         strings.TrimSpace(data.PublicationTitle),
		Volume:          data.Volume,
		Issue:           data.Issue,
		Pages:           data.Pages,
		Abstract:        data.AbstractNote,
		URL:             data.URL,
		PublicationType: publicationType,
		Source:          sourceLabel,
		RawData:         raw,
	}, true
}
