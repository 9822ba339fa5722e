package history

// Trend directions reported by Stats.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Stats is the read-side projection of one product's series. It is what
// the display layer consumes; computing it has no side effects.
type Stats struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Avg          float64 `json:"avg"`
	Median       float64 `json:"median"`
	Current      float64 `json:"current"`
	Trend        string  `json:"trend"`
	TrendPercent float64 `json:"trend_percent"`
	DataPoints   int     `json:"data_points"`
	LastUpdate   int64   `json:"last_update"`
}

// Stats computes the projection for one product. ok=false when the product
// has no history.
func (d Document) Stats(productID string) (Stats, bool) {
	points := d[productID]
	if len(points) == 0 {
		return Stats{}, false
	}

	prices := make([]float64, len(points))
	sum := 0.0
	min, max := points[0].Price, points[0].Price
	for i, p := range points {
		prices[i] = p.Price
		sum += p.Price
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}
	med, _ := Median(prices)

	last := points[len(points)-1]
	s := Stats{
		Min:        min,
		Max:        max,
		Avg:        sum / float64(len(points)),
		Median:     med,
		Current:    last.Price,
		Trend:      TrendStable,
		DataPoints: len(points),
		LastUpdate: last.TS,
	}

	if len(points) >= 2 {
		prev := points[len(points)-2].Price
		switch {
		case last.Price > prev:
			s.Trend = TrendUp
		case last.Price < prev:
			s.Trend = TrendDown
		}
		if prev != 0 {
			s.TrendPercent = (last.Price - prev) / prev * 100
		}
	}
	return s, true
}
