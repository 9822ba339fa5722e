package provider

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverrides(t *testing.T) {
	// WHAT: The YAML override file parses into per-vendor overrides.
	// WHY: Storefront redesigns are absorbed without a rebuild.
	path := filepath.Join(t.TempDir(), "vendors.yaml")
	data := `
ldlc:
  search_url: "https://www.ldlc.com/v4/recherche/%s/"
  price_selectors: [".price__amount"]
topachat:
  result_selectors: ["a.new-art-link"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	overrides, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if overrides["ldlc"].SearchURL != "https://www.ldlc.com/v4/recherche/%s/" {
		t.Errorf("ldlc search url: got %q", overrides["ldlc"].SearchURL)
	}
	if len(overrides["ldlc"].PriceSelectors) != 1 {
		t.Errorf("ldlc price selectors: got %v", overrides["ldlc"].PriceSelectors)
	}
	if len(overrides["topachat"].ResultSelectors) != 1 {
		t.Errorf("topachat result selectors: got %v", overrides["topachat"].ResultSelectors)
	}
}

func TestAll_ProviderSet(t *testing.T) {
	// WHAT: The full set is six storefronts plus the marketplace client.
	providers := All(Config{})
	if len(providers) != 7 {
		t.Fatalf("got %d providers, want 7", len(providers))
	}
	seen := map[string]bool{}
	for _, p := range providers {
		if seen[p.Name()] {
			t.Errorf("duplicate provider name %q", p.Name())
		}
		seen[p.Name()] = true
	}
}
