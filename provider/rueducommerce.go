package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/hazyhaar/prixwatch/extract"
	"github.com/hazyhaar/prixwatch/offer"
)

// rueDuCommerce scrapes rueducommerce.fr. The storefront is fully
// server-rendered, so a plain collector is enough and no browser session
// is needed.
type rueDuCommerce struct {
	spec vendorSpec
	cfg  Config
}

// NewRueDuCommerce returns the rueducommerce.fr provider.
func NewRueDuCommerce(cfg Config) Provider {
	cfg.defaults()
	spec := vendorSpec{
		name:      "rueducommerce",
		baseURL:   "https://www.rueducommerce.fr",
		searchURL: "https://www.rueducommerce.fr/recherche/%s",
		resultSelectors: []string{
			".product-list .product-item a[href]",
		},
		priceSelectors: []string{
			".product-price .price",
			".item-price",
		},
	}
	return &rueDuCommerce{spec: spec.withOverride(cfg.Overrides), cfg: cfg}
}

func (p *rueDuCommerce) Name() string { return p.spec.name }

func (p *rueDuCommerce) Collect(ctx context.Context, id offer.Identity) ([]offer.Offer, error) {
	term := id.SearchTerm()
	if term == "" {
		return nil, nil
	}

	productURL, err := p.firstResult(ctx, fmt.Sprintf(p.spec.searchURL, url.QueryEscape(term)))
	if err != nil {
		return nil, err
	}
	if productURL == "" {
		return nil, nil
	}

	body, fallbackPrice, err := p.productPage(ctx, productURL)
	if err != nil {
		return nil, err
	}
	if !extract.IsNewCondition(body) {
		return nil, nil
	}

	o, ok := buildOffer(p.spec.name, productURL, body, body, func() (float64, bool) {
		return fallbackPrice, fallbackPrice > 0
	})
	if !ok {
		return nil, nil
	}
	return []offer.Offer{o}, nil
}

func (p *rueDuCommerce) collector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(p.cfg.Browse.UserAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(30 * time.Second)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "fr-FR")
	})
	return c
}

func (p *rueDuCommerce) firstResult(ctx context.Context, searchURL string) (string, error) {
	var productURL string
	c := p.collector(ctx)
	for _, sel := range p.spec.resultSelectors {
		c.OnHTML(sel, func(e *colly.HTMLElement) {
			if productURL == "" {
				productURL = e.Request.AbsoluteURL(e.Attr("href"))
			}
		})
	}
	if err := c.Visit(searchURL); err != nil {
		return "", fmt.Errorf("rueducommerce: search: %w", err)
	}
	return productURL, nil
}

func (p *rueDuCommerce) productPage(ctx context.Context, productURL string) (body string, fallbackPrice float64, err error) {
	c := p.collector(ctx)
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	for _, sel := range p.spec.priceSelectors {
		c.OnHTML(sel, func(e *colly.HTMLElement) {
			if fallbackPrice <= 0 {
				if v, ok := extract.ParsePrice(e.Text); ok {
					fallbackPrice = v
				}
			}
		})
	}
	if err := c.Visit(productURL); err != nil {
		return "", 0, fmt.Errorf("rueducommerce: product: %w", err)
	}
	return body, fallbackPrice, nil
}
