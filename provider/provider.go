// Package provider implements the per-vendor offer collectors.
//
// Every provider takes a product identity and returns zero or one
// normalized offers. Providers surface their internal failures as plain
// errors; the aggregator logs the error arm and never lets it abort the
// other vendors.
package provider

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/prixwatch/browse"
	"github.com/hazyhaar/prixwatch/offer"
)

// Provider is the uniform vendor contract.
type Provider interface {
	Name() string
	Collect(ctx context.Context, id offer.Identity) ([]offer.Offer, error)
}

// Config configures the provider set.
type Config struct {
	// Browse configures the headless sessions used by storefront providers.
	Browse browse.Config

	// HTTPClient is shared by the non-browser providers (marketplace API,
	// static storefronts). Default: 30s timeout client.
	HTTPClient *http.Client

	// MarketplaceURL is the marketplace API base URL.
	MarketplaceURL string

	// MarketplaceToken is the bearer token for the marketplace API.
	// Empty disables that provider entirely.
	MarketplaceToken string

	// Overrides replaces built-in vendor search URLs and selectors,
	// keyed by vendor name. See LoadOverrides.
	Overrides map[string]Override

	Logger *slog.Logger
}

func (c *Config) defaults() {
	// Non-browser providers read the UA directly, so it must be resolved
	// here and not only inside browse.Open.
	if c.Browse.UserAgent == "" {
		c.Browse.UserAgent = browse.DefaultUserAgent
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.MarketplaceURL == "" {
		c.MarketplaceURL = "https://openapi.rakuten.fr/v1"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// All returns every configured provider in a stable order: six storefronts
// plus the marketplace API client.
func All(cfg Config) []Provider {
	cfg.defaults()
	return []Provider{
		NewLDLC(cfg),
		NewMaterielNet(cfg),
		NewTopAchat(cfg),
		NewGrosBill(cfg),
		NewCybertek(cfg),
		NewRueDuCommerce(cfg),
		NewRakuten(cfg),
	}
}
