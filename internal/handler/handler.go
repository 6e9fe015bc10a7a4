// Package handler exposes the OPDS catalog surface over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"openlibrary-opds-provider/internal/opds"
	"openlibrary-opds-provider/internal/service"
)

const feedContentType = "application/opds+json"

type Handler struct {
	service *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		service: svc,
	}
}

// Search serves the aggregated search feed across all providers.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := parseSearchRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Search(r.Context(), req)
	if err != nil {
		slog.Error("Search failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	h.writeFeed(w, "Search results", nil, resp)
}

// SearchSingle serves the search feed of one provider.
func (h *Handler) SearchSingle(w http.ResponseWriter, r *http.Request, providerID string) {
	req, ok := parseSearchRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.service.SearchByProviderID(r.Context(), providerID, req)
	if err != nil {
		slog.Error("Search failed", "provider", providerID, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	var info opds.ProviderInfo
	for _, p := range h.service.Providers() {
		if p.ID() == providerID {
			info = p.Info()
		}
	}

	h.writeFeed(w, info.Title, opds.NavigationLinks(info), resp)
}

// Catalog serves the navigation feed listing every registered provider.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	feed := opds.Feed{
		Metadata:     opds.FeedMetadata{Title: "Catalog"},
		Publications: []opds.Publication{},
	}
	for _, p := range h.service.Providers() {
		info := p.Info()
		feed.Links = append(feed.Links, opds.Link{
			Href: "/opds/" + p.ID() + "/search{?query}",
			Rel:  "search",
			Type: feedContentType,
		})
		feed.Metadata.Title = info.Title
	}

	w.Header().Set("Content-Type", feedContentType)
	_ = json.NewEncoder(w).Encode(feed)
}

func (h *Handler) writeFeed(w http.ResponseWriter, title string, links []opds.Link, resp *opds.SearchResponse) {
	feed, err := opds.NewFeed(title, links, resp)
	if err != nil {
		slog.Error("Feed assembly failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", feedContentType)
	_ = json.NewEncoder(w).Encode(feed)
}

// parseSearchRequest reads query, limit, offset and sort from the URL. It
// writes a 400 and returns ok=false when the query is missing or a numeric
// parameter does not parse.
func parseSearchRequest(w http.ResponseWriter, r *http.Request) (opds.SearchRequest, bool) {
	q := r.URL.Query()

	query := q.Get("query")
	if query == "" {
		query = q.Get("q")
	}
	if query == "" {
		http.Error(w, "query parameter 'query' or 'q' is required", http.StatusBadRequest)
		return opds.SearchRequest{}, false
	}

	req := opds.SearchRequest{Query: query, Limit: opds.DefaultLimit, Sort: q.Get("sort")}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid 'limit' parameter", http.StatusBadRequest)
			return opds.SearchRequest{}, false
		}
		req.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid 'offset' parameter", http.StatusBadRequest)
			return opds.SearchRequest{}, false
		}
		req.Offset = n
	}

	return req, true
}
