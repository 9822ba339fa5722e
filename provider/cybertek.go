package provider

// NewCybertek returns the cybertek.fr provider.
func NewCybertek(cfg Config) Provider {
	return newScrapeProvider(vendorSpec{
		name:      "cybertek",
		baseURL:   "https://www.cybertek.fr",
		searchURL: "https://www.cybertek.fr/boutique/produit.aspx?q=%s",
		resultSelectors: []string{
			".listing_search a.prod_txt_left",
			".bloc-produit-listing a[href*='.aspx']",
		},
		priceSelectors: []string{
			".prix_produit_page",
			".bloc-prix .prix",
		},
	}, cfg)
}
