package provider

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Override replaces a vendor's built-in search URL and selectors, so a
// storefront redesign can be absorbed without a rebuild.
type Override struct {
	SearchURL       string   `yaml:"search_url"`
	ResultSelectors []string `yaml:"result_selectors"`
	PriceSelectors  []string `yaml:"price_selectors"`
}

// LoadOverrides reads a YAML file mapping vendor name to Override.
//
//	ldlc:
//	  search_url: "https://www.ldlc.com/v4/recherche/%s/"
//	  price_selectors: [".price__amount"]
func LoadOverrides(path string) (map[string]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("provider: read overrides: %w", err)
	}
	var out map[string]Override
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("provider: parse overrides: %w", err)
	}
	return out, nil
}
