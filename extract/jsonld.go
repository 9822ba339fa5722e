package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// StructuredData collects and parses every ld+json script block in a page
// body. Blocks that fail to parse are skipped; the result may be empty.
func StructuredData(body string) []any {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var blocks []any
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && isLDJSON(n) {
			var buf strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					buf.WriteString(c.Data)
				}
			}
			var v any
			if err := json.Unmarshal([]byte(buf.String()), &v); err == nil {
				blocks = append(blocks, v)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks
}

func isLDJSON(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key == "type" && strings.EqualFold(strings.TrimSpace(a.Val), "application/ld+json") {
			return true
		}
	}
	return false
}

// LDOffer is the decoded view of one structured-data offer entry. A zero
// Availability means the block carried no stock signal.
type LDOffer struct {
	Price        float64
	Availability string
}

// InStock reports whether the availability string signals stock.
func (o LDOffer) InStock() bool {
	return strings.Contains(strings.ToLower(o.Availability), "instock")
}

// FindOffer walks structured-data blocks looking for a usable offer entry.
// Entries whose availability contains "instock" are preferred; entries whose
// serialized form carries a refurbished marker are rejected outright.
// Returns ok=false when no entry with a positive price exists.
func FindOffer(blocks []any) (LDOffer, bool) {
	var found LDOffer
	var ok bool

	var visit func(v any)
	visit = func(v any) {
		switch t := v.(type) {
		case []any:
			for _, e := range t {
				visit(e)
			}
		case map[string]any:
			if g, has := t["@graph"]; has {
				visit(g)
			}
			if offers, has := t["offers"]; has {
				visit(offers)
			}
			price, hasPrice := numericField(t, "price")
			if !hasPrice {
				price, hasPrice = numericField(t, "lowPrice")
			}
			if !hasPrice || price <= 0 {
				return
			}
			if raw, err := json.Marshal(t); err == nil && HasUsedMarker(string(raw)) {
				return
			}
			cand := LDOffer{Price: price, Availability: stringField(t, "availability")}
			// First hit wins unless a later entry adds an in-stock signal.
			if !ok || (!found.InStock() && cand.InStock()) {
				found, ok = cand, true
			}
		}
	}
	visit(blocks)
	return found, ok
}

func numericField(obj map[string]any, key string) (float64, bool) {
	switch v := obj[key].(type) {
	case float64:
		return v, true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}
