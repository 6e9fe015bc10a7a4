// Package service dispatches search requests to registered data providers.
// Results are never cached or persisted; every search goes to the source.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"openlibrary-opds-provider/internal/opds"
)

// Service orchestrates searches across the registered providers.
type Service struct {
	providers []opds.DataProvider
}

// NewService creates a new search service with the given providers.
func NewService(providers ...opds.DataProvider) *Service {
	return &Service{providers: providers}
}

// Providers returns the list of registered providers.
func (s *Service) Providers() []opds.DataProvider {
	return s.providers
}

// Search queries all registered providers and aggregates their results. A
// failing provider is logged and skipped so the others still answer; totals
// are summed across the providers that succeeded.
func (s *Service) Search(ctx context.Context, req opds.SearchRequest) (*opds.SearchResponse, error) {
	out := &opds.SearchResponse{Request: req}

	for _, p := range s.providers {
		resp, err := p.Search(ctx, req)
		if err != nil {
			slog.Error("Provider search failed", "provider", p.ID(), "error", err)
			continue
		}
		out.Records = append(out.Records, resp.Records...)
		out.Total += resp.Total
	}

	return out, nil
}

// SearchByProviderID queries a specific provider. Unlike the aggregated
// search, its failure propagates to the caller.
func (s *Service) SearchByProviderID(ctx context.Context, providerID string, req opds.SearchRequest) (*opds.SearchResponse, error) {
	p := s.getProvider(providerID)
	if p == nil {
		return nil, fmt.Errorf("provider not found: %s", providerID)
	}
	return p.Search(ctx, req)
}

// getProvider helper to find a provider by ID.
func (s *Service) getProvider(id string) opds.DataProvider {
	for _, p := range s.providers {
		if p.ID() == id {
			return p
		}
	}
	return nil
}
