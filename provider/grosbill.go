package provider

// NewGrosBill returns the grosbill.com provider.
func NewGrosBill(cfg Config) Provider {
	return newScrapeProvider(vendorSpec{
		name:      "grosbill",
		baseURL:   "https://www.grosbill.com",
		searchURL: "https://www.grosbill.com/recherche?q=%s",
		resultSelectors: []string{
			".grb_list-produit a.grb__liste-produit__liste-produit",
			".product-list a[href*='.html']",
		},
		priceSelectors: []string{
			".grb_prix_produit",
			".product-price .price",
		},
	}, cfg)
}
