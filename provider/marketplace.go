package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/hazyhaar/prixwatch/offer"
)

// rakuten is the marketplace API provider: a single authenticated call,
// filtered server-side to new-condition EUR listings. No browser involved.
type rakuten struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewRakuten returns the marketplace provider. An empty bearer token
// disables it: Collect short-circuits to no offers.
func NewRakuten(cfg Config) Provider {
	cfg.defaults()
	return &rakuten{
		client:  cfg.HTTPClient,
		baseURL: cfg.MarketplaceURL,
		token:   cfg.MarketplaceToken,
	}
}

func (r *rakuten) Name() string { return "rakuten" }

type marketplaceListing struct {
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Quantity  int     `json:"quantity"`
	URL       string  `json:"url"`
	Condition string  `json:"condition"`
}

func (r *rakuten) Collect(ctx context.Context, id offer.Identity) ([]offer.Offer, error) {
	if r.token == "" {
		return nil, nil
	}
	term := id.EAN
	if term == "" {
		term = id.SearchTerm()
	}
	if term == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("q", term)
	q.Set("condition", "new")
	q.Set("currency", offer.CurrencyEUR)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/listings?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("rakuten: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rakuten: http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, fmt.Errorf("rakuten: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("rakuten: read body: %w", err)
	}

	var parsed struct {
		Listings []marketplaceListing `json:"listings"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("rakuten: json decode: %w", err)
	}

	// Server-side filters notwithstanding, drop anything out of stock or
	// with a non-finite price before it reaches aggregation.
	best := marketplaceListing{}
	for _, l := range parsed.Listings {
		if l.Quantity <= 0 || l.Price <= 0 || math.IsNaN(l.Price) || math.IsInf(l.Price, 0) {
			continue
		}
		if l.Currency != "" && l.Currency != offer.CurrencyEUR {
			continue
		}
		if l.Condition != "" && l.Condition != offer.ConditionNew {
			continue
		}
		if best.Price == 0 || l.Price < best.Price {
			best = l
		}
	}
	if best.Price == 0 {
		return nil, nil
	}

	return []offer.Offer{{
		Vendor:      r.Name(),
		Price:       best.Price,
		Currency:    offer.CurrencyEUR,
		InStock:     true,
		URL:         best.URL,
		CollectedAt: time.Now().UTC(),
		Condition:   offer.ConditionNew,
	}}, nil
}
