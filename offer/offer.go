// Package offer defines the normalized offer model shared by providers,
// the aggregator, and the refresh job.
package offer

import (
	"math"
	"time"
)

const (
	// ConditionNew is the only condition providers are allowed to surface.
	ConditionNew = "new"
	// CurrencyEUR is the only currency the pipeline handles.
	CurrencyEUR = "EUR"
)

// Identity is the search key handed to every provider for one product.
// At least one field must be set for a provider to attempt a lookup.
type Identity struct {
	EAN   string `json:"ean,omitempty"`
	MPN   string `json:"mpn,omitempty"`
	Query string `json:"q,omitempty"`
}

// Empty reports whether no search field is set.
func (id Identity) Empty() bool {
	return id.EAN == "" && id.MPN == "" && id.Query == ""
}

// SearchTerm returns the preferred search string: exact identifiers
// (EAN, then MPN) win over the free-text query.
func (id Identity) SearchTerm() string {
	switch {
	case id.EAN != "":
		return id.EAN
	case id.MPN != "":
		return id.MPN
	default:
		return id.Query
	}
}

// Offer is one vendor's priced, in-stock, new-condition listing for a
// product at a point in time. Offers are request-scoped: only the best
// offer's fields are ever folded into the catalogue.
type Offer struct {
	ProductID   string    `json:"product_id"`
	Vendor      string    `json:"vendor"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	InStock     bool      `json:"in_stock"`
	URL         string    `json:"url"`
	CollectedAt time.Time `json:"collected_at"`
	Condition   string    `json:"condition"`
}

// Valid reports whether the offer satisfies the surface invariants:
// finite positive price, in stock, new condition.
func (o Offer) Valid() bool {
	if o.Price <= 0 || math.IsNaN(o.Price) || math.IsInf(o.Price, 0) {
		return false
	}
	return o.InStock && o.Condition == ConditionNew
}
