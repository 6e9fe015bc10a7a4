package provider

import (
	"testing"

	"openlibrary-opds-provider/internal/config"
)

func TestNewAll(t *testing.T) {
	providers := NewAll(&config.Config{})
	if len(providers) != 1 {
		t.Fatalf("expected 1 provider, got %d", len(providers))
	}
	if providers[0].ID() != "openlibrary" {
		t.Errorf("expected openlibrary provider, got %q", providers[0].ID())
	}
}
