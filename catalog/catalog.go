// Package catalog owns the persisted catalogue and identity-map documents.
//
// The catalogue is a static product document whose entries the refresh job
// augments with live pricing fields. Fields the pipeline does not model are
// round-tripped untouched, so rewriting the document never loses catalogue
// data owned by other tools.
package catalog

import (
	"encoding/json"

	"github.com/hazyhaar/prixwatch/docfile"
)

// BestOffer is the winning offer folded into a catalogue entry.
type BestOffer struct {
	Vendor   string  `json:"vendor"`
	Price    float64 `json:"price"`
	URL      string  `json:"url"`
	Currency string  `json:"currency"`
}

// Product is one catalogue entry. Only the fields the pipeline reads or
// writes are typed; everything else lives in extra and survives rewrites.
type Product struct {
	ID              string
	Name            string
	CurrentPriceEUR float64
	LastPriceSeenAt string
	BestOffer       *BestOffer

	extra map[string]json.RawMessage
}

// JSON keys lifted out of extra into typed fields.
const (
	keyID         = "id"
	keyName       = "name"
	keyPrice      = "current_price_eur"
	keySeenAt     = "last_price_seen_at"
	keyBest       = "best_offer"
	keyCategories = "categories"
	keyCPUs       = "cpus"
	keyGPUs       = "gpus"
	keySSDs       = "ssds"
	keyMemoryKits = "memory_kits"
	keyChipsets   = "chipsets"
)

// takeKey unmarshals raw[key] into dst and removes the key, leaving raw
// holding only the fields the pipeline does not model.
func takeKey(raw map[string]json.RawMessage, key string, dst any) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	return json.Unmarshal(v, dst)
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := takeKey(raw, keyID, &p.ID); err != nil {
		return err
	}
	if err := takeKey(raw, keyName, &p.Name); err != nil {
		return err
	}
	if err := takeKey(raw, keyPrice, &p.CurrentPriceEUR); err != nil {
		return err
	}
	if err := takeKey(raw, keySeenAt, &p.LastPriceSeenAt); err != nil {
		return err
	}
	if err := takeKey(raw, keyBest, &p.BestOffer); err != nil {
		return err
	}
	p.extra = raw
	return nil
}

func (p *Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.extra)+5)
	for k, v := range p.extra {
		out[k] = v
	}
	out[keyID] = p.ID
	out[keyName] = p.Name
	if p.CurrentPriceEUR > 0 {
		out[keyPrice] = p.CurrentPriceEUR
	}
	if p.LastPriceSeenAt != "" {
		out[keySeenAt] = p.LastPriceSeenAt
	}
	if p.BestOffer != nil {
		out[keyBest] = p.BestOffer
	}
	return json.Marshal(out)
}

// Categories holds the price-trackable product arrays. Category keys the
// pipeline does not track are preserved like unknown product fields.
type Categories struct {
	CPUs       []*Product
	GPUs       []*Product
	SSDs       []*Product
	MemoryKits []*Product
	Chipsets   []*Product

	extra map[string]json.RawMessage
}

func (c *Categories) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := takeKey(raw, keyCPUs, &c.CPUs); err != nil {
		return err
	}
	if err := takeKey(raw, keyGPUs, &c.GPUs); err != nil {
		return err
	}
	if err := takeKey(raw, keySSDs, &c.SSDs); err != nil {
		return err
	}
	if err := takeKey(raw, keyMemoryKits, &c.MemoryKits); err != nil {
		return err
	}
	if err := takeKey(raw, keyChipsets, &c.Chipsets); err != nil {
		return err
	}
	c.extra = raw
	return nil
}

func (c *Categories) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.extra)+5)
	for k, v := range c.extra {
		out[k] = v
	}
	// Absent category keys stay absent.
	for key, group := range map[string][]*Product{
		keyCPUs:       c.CPUs,
		keyGPUs:       c.GPUs,
		keySSDs:       c.SSDs,
		keyMemoryKits: c.MemoryKits,
		keyChipsets:   c.Chipsets,
	} {
		if group != nil {
			out[key] = group
		}
	}
	return json.Marshal(out)
}

// Document is the whole catalogue file. Top-level keys other than
// categories (version, metadata) are carried through rewrites untouched.
type Document struct {
	Categories Categories

	extra map[string]json.RawMessage
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := takeKey(raw, keyCategories, &d.Categories); err != nil {
		return err
	}
	d.extra = raw
	return nil
}

func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.extra)+1)
	for k, v := range d.extra {
		out[k] = v
	}
	out[keyCategories] = &d.Categories
	return json.Marshal(out)
}

// Trackable flattens all price-trackable products in category order.
func (d *Document) Trackable() []*Product {
	var out []*Product
	for _, group := range [][]*Product{
		d.Categories.CPUs,
		d.Categories.GPUs,
		d.Categories.SSDs,
		d.Categories.MemoryKits,
		d.Categories.Chipsets,
	} {
		out = append(out, group...)
	}
	return out
}

// Load reads the catalogue document.
func Load(path string) (*Document, error) {
	var d Document
	if err := docfile.Read(path, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Save rewrites the catalogue document atomically.
func (d *Document) Save(path string) error {
	return docfile.Write(path, d)
}
