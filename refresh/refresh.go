// Package refresh implements the catalogue price sweep: one sequential
// pass over every trackable product, aggregating vendor offers, applying
// the outlier guard, and persisting the updated catalogue and history.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hazyhaar/prixwatch/aggregate"
	"github.com/hazyhaar/prixwatch/catalog"
	"github.com/hazyhaar/prixwatch/events"
	"github.com/hazyhaar/prixwatch/history"
	"github.com/hazyhaar/prixwatch/offer"
)

// Aggregator is what the job needs from the aggregation layer.
type Aggregator interface {
	CollectNewOnly(ctx context.Context, productID string, id offer.Identity) aggregate.Result
}

// Paths locates the three persisted documents.
type Paths struct {
	Catalogue  string
	Identities string
	History    string
}

// Config configures the sweep.
type Config struct {
	// MinDelay/MaxDelay bound the randomized politeness delay applied
	// after each product. Defaults: 1500ms / 2000ms.
	MinDelay time.Duration
	MaxDelay time.Duration

	// Guard is the outlier check applied to each candidate best price.
	Guard history.Guard

	// CheckpointEvery flushes the documents every N processed products.
	// 0 (the default) flushes only at the end of the run.
	CheckpointEvery int

	Logger *slog.Logger

	// Sleep is the delay primitive, replaceable in tests.
	// Default: context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration)
}

func (c *Config) defaults() {
	if c.MinDelay <= 0 {
		c.MinDelay = 1500 * time.Millisecond
	}
	if c.MaxDelay < c.MinDelay {
		c.MaxDelay = 2000 * time.Millisecond
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Sleep == nil {
		c.Sleep = sleepCtx
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Job is one catalogue sweep. It is the single writer of the catalogue and
// history documents for the duration of the run.
type Job struct {
	agg    Aggregator
	paths  Paths
	pub    *events.Publisher
	config Config
}

// New creates a Job. pub may be nil (no event publishing).
func New(agg Aggregator, paths Paths, pub *events.Publisher, cfg Config) *Job {
	cfg.defaults()
	return &Job{agg: agg, paths: paths, pub: pub, config: cfg}
}

// Run executes the sweep and returns the number of products whose price
// was updated. Loading or persisting a document is fatal; everything
// inside the per-product loop is not.
func (j *Job) Run(ctx context.Context) (int, error) {
	log := j.config.Logger

	doc, err := catalog.Load(j.paths.Catalogue)
	if err != nil {
		return 0, fmt.Errorf("refresh: load catalogue: %w", err)
	}
	identities, err := catalog.LoadIdentities(j.paths.Identities)
	if err != nil {
		return 0, fmt.Errorf("refresh: load identities: %w", err)
	}
	hist, err := history.Load(j.paths.History)
	if err != nil {
		return 0, fmt.Errorf("refresh: load history: %w", err)
	}

	products := doc.Trackable()
	log.Info("refresh: starting", "products", len(products))

	updated := 0
	processed := 0
	interrupted := false

	for _, p := range products {
		if ctx.Err() != nil {
			interrupted = true
			break
		}

		id, ok := identities[p.ID]
		if !ok || id.Empty() {
			// Unmapped products are skipped without the politeness delay:
			// no vendor traffic happens on this branch.
			log.Debug("refresh: no identity mapping", "product_id", p.ID)
			continue
		}

		res := j.agg.CollectNewOnly(ctx, p.ID, id)
		processed++
		if j.apply(ctx, p, hist, res) {
			updated++
		}

		// The counter includes empty and rejected products so a run of
		// misses still bounds the window of unpersisted updates.
		if n := j.config.CheckpointEvery; n > 0 && processed%n == 0 {
			if err := j.flush(doc, hist); err != nil {
				log.Warn("refresh: checkpoint flush", "error", err)
			}
		}

		j.throttle(ctx)
	}

	if err := j.flush(doc, hist); err != nil {
		return updated, err
	}

	log.Info("refresh: complete", "updated", updated, "products", len(products))
	if interrupted {
		return updated, ctx.Err()
	}
	return updated, nil
}

// apply folds the aggregation result into the catalogue entry and history
// series, reporting whether the product's price was updated.
func (j *Job) apply(ctx context.Context, p *catalog.Product, hist history.Document, res aggregate.Result) bool {
	log := j.config.Logger

	if res.Best == nil {
		log.Debug("refresh: no offers", "product_id", p.ID)
		return false
	}
	best := *res.Best

	if ok, med := j.config.Guard.Accept(hist[p.ID], best.Price); !ok {
		log.Warn("refresh: outlier rejected",
			"product_id", p.ID, "price", best.Price, "median", med, "vendor", best.Vendor)
		return false
	}

	now := time.Now().UTC()
	oldPrice := p.CurrentPriceEUR
	p.CurrentPriceEUR = best.Price
	p.LastPriceSeenAt = now.Format(time.RFC3339)
	p.BestOffer = &catalog.BestOffer{
		Vendor:   best.Vendor,
		Price:    best.Price,
		URL:      best.URL,
		Currency: best.Currency,
	}
	hist.Append(p.ID, history.Point{TS: now.UnixMilli(), Price: best.Price})

	log.Info("refresh: price updated",
		"product_id", p.ID, "price", best.Price, "vendor", best.Vendor, "offers", len(res.Offers))

	if err := j.pub.Publish(ctx, events.PriceUpdated{
		ProductID: p.ID,
		Vendor:    best.Vendor,
		Price:     best.Price,
		OldPrice:  oldPrice,
		Currency:  best.Currency,
		UpdatedAt: now,
	}); err != nil {
		log.Warn("refresh: publish event", "product_id", p.ID, "error", err)
	}
	return true
}

func (j *Job) flush(doc *catalog.Document, hist history.Document) error {
	if err := doc.Save(j.paths.Catalogue); err != nil {
		return fmt.Errorf("refresh: save catalogue: %w", err)
	}
	if err := hist.Save(j.paths.History); err != nil {
		return fmt.Errorf("refresh: save history: %w", err)
	}
	return nil
}

// throttle sleeps the randomized inter-product politeness delay.
func (j *Job) throttle(ctx context.Context) {
	d := j.config.MinDelay
	if span := j.config.MaxDelay - j.config.MinDelay; span > 0 {
		d += time.Duration(rand.Int64N(int64(span)))
	}
	j.config.Sleep(ctx, d)
}
