package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hazyhaar/prixwatch/offer"
)

func TestRakuten_NoTokenShortCircuits(t *testing.T) {
	// WHAT: An absent bearer token disables the provider entirely.
	// WHY: Graceful degradation, not an error.
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	p := NewRakuten(Config{MarketplaceURL: srv.URL})
	offers, err := p.Collect(context.Background(), offer.Identity{EAN: "123"})
	if err != nil || len(offers) != 0 {
		t.Errorf("got %v offers, err %v; want none", len(offers), err)
	}
	if called {
		t.Error("no request should be made without a token")
	}
}

func TestRakuten_FiltersAndMaps(t *testing.T) {
	// WHAT: The cheapest in-stock new EUR listing maps to one Offer;
	// out-of-stock, wrong-currency and used listings are dropped.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekret" {
			t.Errorf("auth header: got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "1234567890123" {
			t.Errorf("query: got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"listings":[
			{"price": 210.00, "currency": "EUR", "quantity": 0, "url": "u1", "condition": "new"},
			{"price": 190.00, "currency": "USD", "quantity": 3, "url": "u2", "condition": "new"},
			{"price": 180.00, "currency": "EUR", "quantity": 2, "url": "u3", "condition": "used"},
			{"price": 205.50, "currency": "EUR", "quantity": 5, "url": "u4", "condition": "new"},
			{"price": 199.99, "currency": "EUR", "quantity": 1, "url": "u5", "condition": "new"}
		]}`))
	}))
	defer srv.Close()

	p := NewRakuten(Config{MarketplaceURL: srv.URL, MarketplaceToken: "sekret"})
	offers, err := p.Collect(context.Background(), offer.Identity{EAN: "1234567890123"})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(offers))
	}
	o := offers[0]
	if o.Price != 199.99 || o.URL != "u5" || !o.InStock || o.Condition != offer.ConditionNew {
		t.Errorf("got %+v", o)
	}
}

func TestRakuten_HTTPErrorSurfaces(t *testing.T) {
	// WHAT: A 5xx becomes an error for the aggregator to log, not a panic
	// and not a fake empty success.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer srv.Close()

	p := NewRakuten(Config{MarketplaceURL: srv.URL, MarketplaceToken: "x"})
	if _, err := p.Collect(context.Background(), offer.Identity{EAN: "1"}); err == nil {
		t.Error("expected an error")
	}
}
