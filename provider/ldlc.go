package provider

// NewLDLC returns the ldlc.com provider.
func NewLDLC(cfg Config) Provider {
	return newScrapeProvider(vendorSpec{
		name:      "ldlc",
		baseURL:   "https://www.ldlc.com",
		searchURL: "https://www.ldlc.com/recherche/%s/",
		resultSelectors: []string{
			".listing-product .pdt-item .pdt-desc a",
			".listing-product a.pdt-link",
		},
		priceSelectors: []string{
			".product-price .price",
			"aside .price",
		},
	}, cfg)
}
