// Package openlibrary adapts the Open Library search API to the opds
// data-provider contract: it issues search requests, translates the
// heterogeneous work/edition documents into normalized records, and memoizes
// the MARC-to-ISO language code table the translation needs.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"openlibrary-opds-provider/internal/opds"
)

const (
	// DefaultBaseURL is the public Open Library instance.
	DefaultBaseURL = "https://openlibrary.org"

	// DefaultTimeout is the default outbound HTTP timeout.
	DefaultTimeout = 30 * time.Second

	providerTitle      = "OpenLibrary.org OPDS Service"
	catalogPath        = "/opds/catalog"
	searchPathTemplate = "/opds/search{?query}"
)

// searchFields is the field-selection list sent with every search so the
// response carries exactly what the mapper consumes.
var searchFields = []string{
	"key", "title", "editions", "description", "providers", "author_name",
	"cover_i", "availability", "ebook_access", "author_key", "subtitle",
	"language", "number_of_pages_median",
}

// Config holds the provider's endpoints and client settings. Zero values
// fall back to the public Open Library defaults.
type Config struct {
	BaseURL      string
	LanguagesURL string
	Timeout      time.Duration
}

// Provider implements opds.DataProvider against Open Library.
type Provider struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	langs   *languageTable
}

// New creates a new Open Library provider.
func New(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.LanguagesURL == "" {
		cfg.LanguagesURL = DefaultLanguagesURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := &http.Client{Timeout: cfg.Timeout}
	return &Provider{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  client,
		// Open Library asks bulk consumers to stay well under their limits.
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		langs:   newLanguageTable(cfg.LanguagesURL, client),
	}
}

// ID returns the unique identifier for this provider.
func (p *Provider) ID() string {
	return "openlibrary"
}

// Info returns the static navigation constants of this provider.
func (p *Provider) Info() opds.ProviderInfo {
	return opds.ProviderInfo{
		BaseURL:            p.baseURL,
		Title:              providerTitle,
		CatalogPath:        catalogPath,
		SearchPathTemplate: searchPathTemplate,
	}
}

// searchEnvelope is the top-level search response.
type searchEnvelope struct {
	NumFound int       `json:"numFound"`
	Docs     []WorkDoc `json:"docs"`
}

// Search issues one search request and maps every returned document. Failure
// is per-request: a transport error, a non-2xx status, or a language table
// failure aborts the whole call and no partial results are returned.
func (p *Provider) Search(ctx context.Context, req opds.SearchRequest) (*opds.SearchResponse, error) {
	if req.Limit <= 0 {
		req.Limit = opds.DefaultLimit
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.searchURL(req), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("openlibrary: search: http %d: %s", resp.StatusCode, string(b))
	}

	var env searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("openlibrary: search: %w", err)
	}

	// The language table is only needed when a document actually carries
	// language codes; populate it before any record is handed out so a
	// fetch failure fails the search instead of a later metadata view.
	if docsNeedLanguages(env.Docs) {
		if err := p.langs.Ensure(ctx); err != nil {
			return nil, err
		}
	}

	records := make([]opds.Record, 0, len(env.Docs))
	for i := range env.Docs {
		records = append(records, newRecord(env.Docs[i], p.baseURL, p.langs))
	}

	return &opds.SearchResponse{Records: records, Total: env.NumFound, Request: req}, nil
}

func (p *Provider) searchURL(req opds.SearchRequest) string {
	page := 1
	if req.Limit > 0 {
		page = req.Offset/req.Limit + 1
	}

	q := url.Values{}
	q.Set("editions", "true")
	q.Set("q", req.Query)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(req.Limit))
	q.Set("fields", strings.Join(searchFields, ","))
	if req.Sort != "" {
		q.Set("sort", req.Sort)
	}
	return p.baseURL + "/search.json?" + q.Encode()
}

func docsNeedLanguages(docs []WorkDoc) bool {
	for i := range docs {
		if book, _ := docs[i].effectiveBook(); len(book.Language) > 0 {
			return true
		}
	}
	return false
}
