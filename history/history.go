// Package history maintains the per-product price time series: a capped
// append-only sequence per product, the outlier guard protecting it, and
// the read-side statistics projection.
package history

import (
	"errors"
	"io/fs"
	"math"
	"sort"

	"github.com/hazyhaar/prixwatch/docfile"
)

// MaxPoints caps each product's series; the oldest point is evicted first.
const MaxPoints = 200

// Point is one price observation.
type Point struct {
	TS    int64   `json:"ts"` // epoch millis
	Price float64 `json:"price"`
}

// Document maps product id to its ordered price series, newest last.
type Document map[string][]Point

// Load reads the history document. A missing file yields an empty document.
func Load(path string) (Document, error) {
	var d Document
	if err := docfile.Read(path, &d); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, nil
		}
		return nil, err
	}
	if d == nil {
		d = Document{}
	}
	return d, nil
}

// Save rewrites the history document atomically.
func (d Document) Save(path string) error {
	return docfile.Write(path, d)
}

// Append adds a point to the product's series and enforces the cap.
func (d Document) Append(productID string, p Point) {
	pts := append(d[productID], p)
	if len(pts) > MaxPoints {
		pts = pts[len(pts)-MaxPoints:]
	}
	d[productID] = pts
}

// Median returns the median of values: sort ascending, average the two
// middle elements for even lengths. Empty input yields ok=false.
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}

// Guard is the statistical check rejecting a candidate price that deviates
// too far from the recent historical median.
type Guard struct {
	// MinPoints is the series length below which the guard never rejects.
	// Default: 3.
	MinPoints int
	// Window is how many recent points the median is computed over.
	// Default: 20.
	Window int
	// Band is the tolerated relative deviation around the median.
	// Default: 0.25 (accept within [0.75×median, 1.25×median]).
	Band float64
}

func (g *Guard) defaults() {
	if g.MinPoints <= 0 {
		g.MinPoints = 3
	}
	if g.Window <= 0 {
		g.Window = 20
	}
	if g.Band <= 0 {
		g.Band = 0.25
	}
}

// Accept evaluates a candidate price against the product's series. It
// returns the accept decision and the median it was judged against, zero
// when the guard did not activate.
func (g Guard) Accept(points []Point, candidate float64) (bool, float64) {
	g.defaults()

	if len(points) < g.MinPoints {
		return true, 0
	}

	recent := points
	if len(recent) > g.Window {
		recent = recent[len(recent)-g.Window:]
	}

	var prices []float64
	for _, p := range recent {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			continue
		}
		prices = append(prices, p.Price)
	}
	if len(prices) < g.MinPoints {
		return true, 0
	}

	med, ok := Median(prices)
	if !ok || med <= 0 {
		return true, 0
	}

	if candidate < (1-g.Band)*med || candidate > (1+g.Band)*med {
		return false, med
	}
	return true, med
}
