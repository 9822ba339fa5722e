// Package extract provides the shared page-scraping helpers: localized
// price parsing, condition classification, and structured-data extraction.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// priceRe matches a euro-tagged numeric token. Thousands separators may be
// plain spaces, non-breaking spaces (U+00A0, U+202F) or dots; the decimal
// separator may be a comma or a dot.
var priceRe = regexp.MustCompile(`([0-9][0-9\x{00a0}\x{202f} .,]*)\s*€`)

// ParsePrice locates the first euro price in free-form page text.
// "1 299,99 €", "1299.99 €" and "45,00€" all parse; input with no currency
// marker or no digits returns ok=false.
func ParsePrice(text string) (float64, bool) {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	tok := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ':
			return -1
		}
		return r
	}, m[1])
	tok = strings.Trim(tok, ".,")

	if strings.Contains(tok, ",") {
		// Comma is the decimal separator, dots are thousands separators.
		tok = strings.ReplaceAll(tok, ".", "")
		if i := strings.LastIndexByte(tok, ','); i >= 0 {
			tok = strings.ReplaceAll(tok[:i], ",", "") + "." + tok[i+1:]
		}
	} else if n := strings.Count(tok, "."); n > 0 {
		if n > 1 {
			// Multiple dots: the last one is the decimal separator.
			i := strings.LastIndexByte(tok, '.')
			tok = strings.ReplaceAll(tok[:i], ".", "") + tok[i:]
		} else if i := strings.IndexByte(tok, '.'); len(tok)-i-1 == 3 {
			// "1.299" is a thousands separator, "1299.99" a decimal one.
			tok = strings.ReplaceAll(tok, ".", "")
		}
	}

	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
