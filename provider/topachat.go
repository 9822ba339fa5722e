package provider

// NewTopAchat returns the topachat.com provider.
func NewTopAchat(cfg Config) Provider {
	return newScrapeProvider(vendorSpec{
		name:      "topachat",
		baseURL:   "https://www.topachat.com",
		searchURL: "https://www.topachat.com/pages/recherche.php?mc=%s",
		resultSelectors: []string{
			".produits.list article a.art-link",
			"section.produits a[href*='/fiche/']",
		},
		priceSelectors: []string{
			".prod_px_euro",
			"#fiche-produit .priceFinal",
		},
	}, cfg)
}
