package provider

import (
	"openlibrary-opds-provider/internal/config"
	"openlibrary-opds-provider/internal/opds"
	"openlibrary-opds-provider/internal/provider/openlibrary"
)

// NewAll instantiates and returns all available providers.
// Add new providers here when implementing them.
func NewAll(cfg *config.Config) []opds.DataProvider {
	return []opds.DataProvider{
		openlibrary.New(openlibrary.Config{
			BaseURL:      cfg.OpenLibraryURL,
			LanguagesURL: cfg.LanguagesURL,
			Timeout:      cfg.HTTPTimeout,
		}),
	}
}
