package provider

// NewMaterielNet returns the materiel.net provider.
func NewMaterielNet(cfg Config) Provider {
	return newScrapeProvider(vendorSpec{
		name:      "materielnet",
		baseURL:   "https://www.materiel.net",
		searchURL: "https://www.materiel.net/recherche/%s/",
		resultSelectors: []string{
			".c-products-list .c-product__meta a",
			"ul.c-products-list a.c-product__link",
		},
		priceSelectors: []string{
			".o-product__price",
			".c-price .o-product__price",
		},
	}, cfg)
}
