// Package aggregate fans one product identity out to every provider
// concurrently and merges the surviving offers.
package aggregate

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hazyhaar/prixwatch/offer"
	"github.com/hazyhaar/prixwatch/provider"
)

// Provider invocation outcomes, as reported to the Recorder.
const (
	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

// Result is the merged outcome for one product: offers sorted ascending by
// price, and the cheapest one (nil when the list is empty).
type Result struct {
	Offers []offer.Offer
	Best   *offer.Offer
}

// Recorder receives the outcome of each provider invocation. The fetch log
// implements this; a nil Recorder disables recording.
type Recorder interface {
	Record(ctx context.Context, productID, vendor, status string, price float64, d time.Duration, errMsg string)
}

// Collector aggregates offers across providers.
type Collector struct {
	providers []provider.Provider
	recorder  Recorder
	logger    *slog.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) { c.logger = l }
}

// WithRecorder sets the per-invocation outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Collector) { c.recorder = r }
}

// New creates a Collector over the given providers.
func New(providers []provider.Provider, opts ...Option) *Collector {
	c := &Collector{providers: providers, logger: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CollectNewOnly queries every provider concurrently with the same identity
// and merges the results. A provider's error never aborts the others: the
// error arm is logged and recorded, then treated as an empty result. Only
// in-stock new-condition offers with a valid price survive the merge.
func (c *Collector) CollectNewOnly(ctx context.Context, productID string, id offer.Identity) Result {
	results := make([][]offer.Offer, len(c.providers))

	var wg sync.WaitGroup
	for i, p := range c.providers {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			start := time.Now()
			offers, err := p.Collect(ctx, id)
			if err != nil {
				c.logger.Warn("aggregate: provider failed",
					"vendor", p.Name(), "product_id", productID, "error", err)
				c.record(ctx, productID, p.Name(), StatusError, 0, time.Since(start), err.Error())
				return
			}
			results[i] = offers
			if len(offers) == 0 {
				c.record(ctx, productID, p.Name(), StatusEmpty, 0, time.Since(start), "")
				return
			}
			c.record(ctx, productID, p.Name(), StatusOK, offers[0].Price, time.Since(start), "")
		}(i, p)
	}
	wg.Wait()

	var merged []offer.Offer
	for _, offers := range results {
		for _, o := range offers {
			if !o.Valid() {
				continue
			}
			o.ProductID = productID
			merged = append(merged, o)
		}
	}

	sort.Slice(merged, func(a, b int) bool { return merged[a].Price < merged[b].Price })

	res := Result{Offers: merged}
	if len(merged) > 0 {
		res.Best = &merged[0]
	}
	return res
}

func (c *Collector) record(ctx context.Context, productID, vendor, status string, price float64, d time.Duration, errMsg string) {
	if c.recorder == nil {
		return
	}
	c.recorder.Record(ctx, productID, vendor, status, price, d, errMsg)
}
