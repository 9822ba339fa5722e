package extract

import "strings"

// usedMarkers are the refurbished/second-hand phrases that disqualify a
// page from being treated as a new-condition listing. French vendors mix
// languages, so both French and English forms are listed.
var usedMarkers = []string{
	"reconditionné",
	"occasion",
	"used",
	"refurb",
	"2nde main",
	"second hand",
}

// IsNewCondition reports whether the page text carries no refurbished or
// second-hand marker. Matching is case-insensitive.
func IsNewCondition(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range usedMarkers {
		if strings.Contains(lower, m) {
			return false
		}
	}
	return true
}

// HasUsedMarker reports whether the given serialized fragment contains a
// refurbished or second-hand marker. Used to reject individual structured
// data offers on pages that mix conditions.
func HasUsedMarker(s string) bool {
	return !IsNewCondition(s)
}
