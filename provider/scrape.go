package provider

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/hazyhaar/prixwatch/browse"
	"github.com/hazyhaar/prixwatch/extract"
	"github.com/hazyhaar/prixwatch/offer"
)

// inStockRe matches the French in-stock phrasings used as the fallback
// stock signal when structured data carries none.
var inStockRe = regexp.MustCompile(`(?i)en stock|expédié|disponible|en magasin`)

// vendorSpec drives the shared storefront scrape pipeline.
type vendorSpec struct {
	name            string
	baseURL         string
	searchURL       string // %s is replaced with the url-escaped search term
	resultSelectors []string
	priceSelectors  []string
}

func (v vendorSpec) withOverride(overrides map[string]Override) vendorSpec {
	o, ok := overrides[v.name]
	if !ok {
		return v
	}
	if o.SearchURL != "" {
		v.searchURL = o.SearchURL
	}
	if len(o.ResultSelectors) > 0 {
		v.resultSelectors = o.ResultSelectors
	}
	if len(o.PriceSelectors) > 0 {
		v.priceSelectors = o.PriceSelectors
	}
	return v
}

// scrapeProvider is a storefront provider running the common pipeline in a
// disposable browser session: search, first result, condition check,
// structured data, selector/text fallbacks.
type scrapeProvider struct {
	spec vendorSpec
	cfg  Config
}

func newScrapeProvider(spec vendorSpec, cfg Config) *scrapeProvider {
	cfg.defaults()
	return &scrapeProvider{spec: spec.withOverride(cfg.Overrides), cfg: cfg}
}

func (p *scrapeProvider) Name() string { return p.spec.name }

func (p *scrapeProvider) Collect(ctx context.Context, id offer.Identity) ([]offer.Offer, error) {
	term := id.SearchTerm()
	if term == "" {
		return nil, nil
	}

	return browse.WithSession(ctx, p.cfg.Browse, func(ctx context.Context, s *browse.Session) ([]offer.Offer, error) {
		searchURL := fmt.Sprintf(p.spec.searchURL, url.QueryEscape(term))
		if err := s.Navigate(ctx, searchURL); err != nil {
			return nil, err
		}

		href, found := s.FirstLink(ctx, p.spec.resultSelectors...)
		if !found {
			return nil, nil
		}
		productURL := resolveURL(p.spec.baseURL, href)

		if err := s.Navigate(ctx, productURL); err != nil {
			return nil, err
		}

		text, err := s.Text(ctx)
		if err != nil {
			return nil, err
		}
		if !extract.IsNewCondition(text) {
			return nil, nil
		}

		body, err := s.HTML(ctx)
		if err != nil {
			return nil, err
		}

		o, ok := buildOffer(p.spec.name, productURL, body, text, func() (float64, bool) {
			raw, has := s.ElementText(ctx, p.spec.priceSelectors...)
			if !has {
				return 0, false
			}
			return extract.ParsePrice(raw)
		})
		if !ok {
			return nil, nil
		}
		return []offer.Offer{o}, nil
	})
}

// buildOffer merges the structured-data signals with the vendor-specific
// fallbacks: CSS price selectors when JSON-LD has no usable price, the
// in-stock text regex when it has no availability.
func buildOffer(vendor, pageURL, body, text string, fallbackPrice func() (float64, bool)) (offer.Offer, bool) {
	var price float64
	var inStock, stockKnown bool

	if ld, ok := extract.FindOffer(extract.StructuredData(body)); ok {
		price = ld.Price
		if ld.Availability != "" {
			inStock, stockKnown = ld.InStock(), true
		}
	}

	if price <= 0 {
		if p, ok := fallbackPrice(); ok {
			price = p
		}
	}
	if !stockKnown {
		inStock = inStockRe.MatchString(text)
	}

	if price <= 0 || !inStock {
		return offer.Offer{}, false
	}
	return offer.Offer{
		Vendor:      vendor,
		Price:       price,
		Currency:    offer.CurrencyEUR,
		InStock:     true,
		URL:         pageURL,
		CollectedAt: time.Now().UTC(),
		Condition:   offer.ConditionNew,
	}, true
}

func resolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}
