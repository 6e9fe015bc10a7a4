// Package opds defines the boundary between data providers and the OPDS 2.0
// catalog surface: the normalized record shape providers emit and the
// contract the HTTP layer consumes to build feeds.
package opds

import (
	"context"
	"errors"
	"strings"
)

// DefaultLimit is the page size used when a search request does not set one.
const DefaultLimit = 50

// Link is a single OPDS link object.
type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel,omitempty"`
	Type string `json:"type,omitempty"`
}

// Contributor is an author or other agent attached to a publication.
type Contributor struct {
	Name  string `json:"name"`
	Links []Link `json:"links,omitempty"`
}

// Metadata is the normalized metadata bundle of a publication.
type Metadata struct {
	Type          string        `json:"@type,omitempty"`
	Title         string        `json:"title"`
	Subtitle      string        `json:"subtitle,omitempty"`
	Author        []Contributor `json:"author,omitempty"`
	Description   string        `json:"description,omitempty"`
	Language      []string      `json:"language,omitempty"`
	NumberOfPages *int          `json:"numberOfPages,omitempty"`
}

// Validate reports whether the metadata satisfies the fields a publication
// requires. Providers map whatever the source gives them; enforcing required
// fields happens here, not in the mappers.
func (m Metadata) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return errors.New("opds: publication metadata requires a title")
	}
	return nil
}

// Record is one normalized search result. The views are derived from the raw
// source document on every call and must not retain shared mutable state.
type Record interface {
	// Type returns the schema.org IRI classifying the record.
	Type() string

	// Links returns navigation and acquisition links, structural links first.
	Links() []Link

	// Images returns cover image links, or nil when the record has no cover.
	// Callers must treat nil and an empty slice the same way.
	Images() []Link

	// Metadata returns the normalized metadata bundle.
	Metadata() Metadata
}

// SearchRequest carries the caller's search parameters through to a provider.
type SearchRequest struct {
	Query  string
	Limit  int
	Offset int
	Sort   string
}

// SearchResponse is an ordered list of normalized records plus the total
// match count reported by the source, which may exceed len(Records).
type SearchResponse struct {
	Records []Record
	Total   int
	Request SearchRequest
}

// ProviderInfo holds the static descriptive constants the catalog surface
// reads to build outer OPDS navigation.
type ProviderInfo struct {
	BaseURL            string
	Title              string
	CatalogPath        string
	SearchPathTemplate string
}

// DataProvider is the interface every source adapter implements.
type DataProvider interface {
	// ID returns the unique identifier of the provider (e.g., "openlibrary").
	ID() string

	// Info returns the provider's static navigation constants.
	Info() ProviderInfo

	// Search queries the source and returns normalized records.
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}
