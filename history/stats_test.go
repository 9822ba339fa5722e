package history

import (
	"math"
	"testing"
)

func TestStats(t *testing.T) {
	// WHAT: The projection reports min/max/avg/median/current and the
	// trend between the last two points.
	d := Document{"cpu-1": {
		{TS: 1, Price: 100},
		{TS: 2, Price: 120},
		{TS: 3, Price: 110},
	}}

	s, ok := d.Stats("cpu-1")
	if !ok {
		t.Fatal("expected stats")
	}
	if s.Min != 100 || s.Max != 120 || s.Median != 110 || s.Current != 110 {
		t.Errorf("got %+v", s)
	}
	if math.Abs(s.Avg-110) > 1e-9 {
		t.Errorf("avg: got %v, want 110", s.Avg)
	}
	if s.Trend != TrendDown {
		t.Errorf("trend: got %q, want down", s.Trend)
	}
	wantPct := (110.0 - 120.0) / 120.0 * 100
	if math.Abs(s.TrendPercent-wantPct) > 1e-9 {
		t.Errorf("trend percent: got %v, want %v", s.TrendPercent, wantPct)
	}
	if s.DataPoints != 3 || s.LastUpdate != 3 {
		t.Errorf("counters: got %+v", s)
	}
}

func TestStats_SinglePointAndMissing(t *testing.T) {
	// WHAT: One point means a stable trend; no history means ok=false.
	d := Document{"p": {{TS: 9, Price: 42}}}

	s, ok := d.Stats("p")
	if !ok || s.Trend != TrendStable || s.TrendPercent != 0 {
		t.Errorf("single point: got %+v (ok=%v)", s, ok)
	}

	if _, ok := d.Stats("unknown"); ok {
		t.Error("missing product should yield ok=false")
	}
}
