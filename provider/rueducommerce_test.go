package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hazyhaar/prixwatch/browse"
	"github.com/hazyhaar/prixwatch/offer"
)

func rdcTestServer(t *testing.T, productPage string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/recherche/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="product-list">
			<div class="product-item"><a href="/produit/cpu-1">Ryzen 7</a></div>
			<div class="product-item"><a href="/produit/cpu-2">Ryzen 5</a></div>
		</div></body></html>`))
	})
	mux.HandleFunc("/produit/cpu-1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productPage))
	})
	return httptest.NewServer(mux)
}

func rdcProvider(srvURL string) Provider {
	return NewRueDuCommerce(Config{
		Overrides: map[string]Override{
			"rueducommerce": {SearchURL: srvURL + "/recherche/%s"},
		},
	})
}

func TestRueDuCommerce_CollectsFirstResult(t *testing.T) {
	// WHAT: The first search result's page yields one normalized offer from
	// structured data.
	srv := rdcTestServer(t, `<html><head><script type="application/ld+json">
	{"@type":"Product","offers":{"price":"339.00","availability":"https://schema.org/InStock"}}
	</script></head><body>Ryzen 7 7800X3D - En stock</body></html>`)
	defer srv.Close()

	p := rdcProvider(srv.URL)
	offers, err := p.Collect(context.Background(), offer.Identity{EAN: "1234567890123"})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("got %d offers, want 1", len(offers))
	}
	o := offers[0]
	if o.Price != 339.00 || !o.InStock || o.Vendor != "rueducommerce" {
		t.Errorf("got %+v", o)
	}
	if o.URL != srv.URL+"/produit/cpu-1" {
		t.Errorf("url: got %q", o.URL)
	}
}

func TestRueDuCommerce_FallbackPriceSelector(t *testing.T) {
	// WHAT: Without structured data, the CSS price selector plus the
	// in-stock phrasing establish the offer.
	srv := rdcTestServer(t, `<html><body>
		<div class="product-price"><span class="price">449,99 €</span></div>
		<p>Disponible, expédié sous 24h</p>
	</body></html>`)
	defer srv.Close()

	offers, err := rdcProvider(srv.URL).Collect(context.Background(), offer.Identity{Query: "rtx 4070"})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(offers) != 1 || offers[0].Price != 449.99 {
		t.Errorf("got %+v", offers)
	}
}

func TestRueDuCommerce_RejectsRefurbished(t *testing.T) {
	// WHAT: A product page carrying a refurb marker yields no offer.
	srv := rdcTestServer(t, `<html><body>
		<div class="product-price"><span class="price">199,99 €</span></div>
		<p>Produit reconditionné - En stock</p>
	</body></html>`)
	defer srv.Close()

	offers, err := rdcProvider(srv.URL).Collect(context.Background(), offer.Identity{EAN: "1"})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(offers) != 0 {
		t.Errorf("got %+v, want none", offers)
	}
}

func TestRueDuCommerce_DefaultUserAgent(t *testing.T) {
	// WHAT: With no UA configured, requests present the shared desktop UA
	// rather than an empty header.
	// WHY: All vendors must show the same browser fingerprint; only the rod
	// sessions apply browse defaults on their own.
	var got string
	mux := http.NewServeMux()
	mux.HandleFunc("/recherche/", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte(`<html><body></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	if _, err := rdcProvider(srv.URL).Collect(context.Background(), offer.Identity{EAN: "1"}); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if got != browse.DefaultUserAgent {
		t.Errorf("user agent: got %q, want %q", got, browse.DefaultUserAgent)
	}
}

func TestRueDuCommerce_NoResults(t *testing.T) {
	// WHAT: An empty search page yields no offer and no error.
	mux := http.NewServeMux()
	mux.HandleFunc("/recherche/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Aucun résultat</p></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	offers, err := rdcProvider(srv.URL).Collect(context.Background(), offer.Identity{EAN: "404"})
	if err != nil || len(offers) != 0 {
		t.Errorf("got %v offers, err %v; want none", len(offers), err)
	}
}

func TestRueDuCommerce_EmptyIdentity(t *testing.T) {
	// WHAT: An empty identity short-circuits without network traffic.
	offers, err := rdcProvider("http://127.0.0.1:0").Collect(context.Background(), offer.Identity{})
	if err != nil || len(offers) != 0 {
		t.Errorf("got %v offers, err %v; want immediate empty", len(offers), err)
	}
}
