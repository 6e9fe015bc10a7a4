package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"openlibrary-opds-provider/internal/opds"
	"openlibrary-opds-provider/internal/service"
)

// mockRecord implements opds.Record for testing.
type mockRecord struct {
	md opds.Metadata
}

func (m *mockRecord) Type() string            { return "http://schema.org/Book" }
func (m *mockRecord) Links() []opds.Link      { return []opds.Link{{Href: "https://example.org/1", Rel: "self"}} }
func (m *mockRecord) Images() []opds.Link     { return nil }
func (m *mockRecord) Metadata() opds.Metadata { return m.md }

// mockProvider implements opds.DataProvider for testing.
type mockProvider struct {
	id      string
	records []opds.Record
	total   int
	err     error
}

func (m *mockProvider) ID() string { return m.id }

func (m *mockProvider) Info() opds.ProviderInfo {
	return opds.ProviderInfo{
		Title:              "Mock Provider",
		CatalogPath:        "/opds/catalog",
		SearchPathTemplate: "/opds/search{?query}",
	}
}

func (m *mockProvider) Search(_ context.Context, req opds.SearchRequest) (*opds.SearchResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &opds.SearchResponse{Records: m.records, Total: m.total, Request: req}, nil
}

func TestSearch_WithQueryParam(t *testing.T) {
	mock := &mockProvider{
		id:      "test",
		records: []opds.Record{&mockRecord{md: opds.Metadata{Title: "Result"}}},
		total:   1,
	}
	h := NewHandler(service.NewService(mock))

	req := httptest.NewRequest(http.MethodGet, "/opds/search?query=fox", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/opds+json" {
		t.Errorf("unexpected content type %q", ct)
	}

	var feed opds.Feed
	if err := json.NewDecoder(rec.Body).Decode(&feed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(feed.Publications) != 1 || feed.Publications[0].Metadata.Title != "Result" {
		t.Errorf("unexpected publications: %+v", feed.Publications)
	}
	if feed.Metadata.NumberOfItems != 1 {
		t.Errorf("expected numberOfItems 1, got %d", feed.Metadata.NumberOfItems)
	}
}

func TestSearch_WithShortQueryParam(t *testing.T) {
	mock := &mockProvider{
		id:      "test",
		records: []opds.Record{&mockRecord{md: opds.Metadata{Title: "Fallback"}}},
	}
	h := NewHandler(service.NewService(mock))

	req := httptest.NewRequest(http.MethodGet, "/opds/search?q=fox", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	h := NewHandler(service.NewService())

	req := httptest.NewRequest(http.MethodGet, "/opds/search", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSearch_InvalidPagination(t *testing.T) {
	h := NewHandler(service.NewService())

	for _, target := range []string{
		"/opds/search?query=fox&limit=abc",
		"/opds/search?query=fox&limit=0",
		"/opds/search?query=fox&offset=-1",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		h.Search(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestSearch_ProviderErrorStillAggregates(t *testing.T) {
	mock := &mockProvider{id: "test", err: errors.New("provider failure")}
	h := NewHandler(service.NewService(mock))

	req := httptest.NewRequest(http.MethodGet, "/opds/search?query=fox", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	// The aggregated search logs and skips failing providers.
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 (aggregated search skips errors), got %d", rec.Code)
	}
}

func TestSearch_UntitledRecordIsValidationError(t *testing.T) {
	mock := &mockProvider{
		id:      "test",
		records: []opds.Record{&mockRecord{md: opds.Metadata{}}},
	}
	h := NewHandler(service.NewService(mock))

	req := httptest.NewRequest(http.MethodGet, "/opds/search?query=fox", nil)
	rec := httptest.NewRecorder()

	h.Search(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for validation failure, got %d", rec.Code)
	}
}

func TestSearchSingle_ValidQuery(t *testing.T) {
	mock := &mockProvider{
		id:      "openlibrary",
		records: []opds.Record{&mockRecord{md: opds.Metadata{Title: "OpenLibrary Result"}}},
		total:   1,
	}
	h := NewHandler(service.NewService(mock))

	req := httptest.NewRequest(http.MethodGet, "/opds/openlibrary/search?query=fox", nil)
	rec := httptest.NewRecorder()

	h.SearchSingle(rec, req, "openlibrary")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var feed opds.Feed
	if err := json.NewDecoder(rec.Body).Decode(&feed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(feed.Publications) != 1 || feed.Publications[0].Metadata.Title != "OpenLibrary Result" {
		t.Errorf("unexpected publications: %+v", feed.Publications)
	}
	if feed.Metadata.Title != "Mock Provider" {
		t.Errorf("expected provider title on feed, got %q", feed.Metadata.Title)
	}
}

func TestSearchSingle_ProviderFailure(t *testing.T) {
	mock := &mockProvider{id: "openlibrary", err: errors.New("upstream down")}
	h := NewHandler(service.NewService(mock))

	req := httptest.NewRequest(http.MethodGet, "/opds/openlibrary/search?query=fox", nil)
	rec := httptest.NewRecorder()

	h.SearchSingle(rec, req, "openlibrary")

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestSearchSingle_UnknownProvider(t *testing.T) {
	h := NewHandler(service.NewService())

	req := httptest.NewRequest(http.MethodGet, "/opds/unknown/search?query=fox", nil)
	rec := httptest.NewRecorder()

	h.SearchSingle(rec, req, "unknown")

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}

func TestCatalog(t *testing.T) {
	mock := &mockProvider{id: "openlibrary"}
	h := NewHandler(service.NewService(mock))

	req := httptest.NewRequest(http.MethodGet, "/opds/catalog", nil)
	rec := httptest.NewRecorder()

	h.Catalog(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var feed opds.Feed
	if err := json.NewDecoder(rec.Body).Decode(&feed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if feed.Metadata.Title != "Mock Provider" {
		t.Errorf("expected provider title, got %q", feed.Metadata.Title)
	}
	if len(feed.Links) != 1 || feed.Links[0].Rel != "search" {
		t.Errorf("expected one search link, got %+v", feed.Links)
	}
}
