package catalog

import (
	"sort"

	"discount-service/internal/entity"
)

// Catalog is a read-only price lookup.
type Catalog interface {
	Name() string
	Price(id entity.ItemID) (float64, bool)
	Contains(id entity.ItemID) bool
}

// Static is an immutable map-backed Catalog.
type Static struct {
	name   string
	prices map[entity.ItemID]float64
}

// NewStatic copies prices into a new Static catalog.
func NewStatic(name string, prices map[entity.ItemID]float64) *Static {
	cp := make(map[entity.ItemID]float64, len(prices))
	for id, p := range prices {
		cp[id] = p
	}
	return &Static{name: name, prices: cp}
}

// FromEntries builds a Static catalog from stored price rows.
func FromEntries(name string, entries []entity.PriceEntry) *Static {
	prices := make(map[entity.ItemID]float64, len(entries))
	for _, e := range entries {
		prices[e.ItemID] = e.Price
	}
	return &Static{name: name, prices: prices}
}

func (c *Static) Name() string {
	return c.name
}

func (c *Static) Price(id entity.ItemID) (float64, bool) {
	p, ok := c.prices[id]
	return p, ok
}

func (c *Static) Contains(id entity.ItemID) bool {
	_, ok := c.prices[id]
	return ok
}

// Entries returns the catalog rows sorted by item id.
func (c *Static) Entries() []entity.PriceEntry {
	entries := make([]entity.PriceEntry, 0, len(c.prices))
	for id, p := range c.prices {
		entries = append(entries, entity.PriceEntry{CatalogName: c.name, ItemID: id, Price: p})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ItemID < entries[j].ItemID })
	return entries
}

// Lister is implemented by catalogs that can enumerate their rows.
type Lister interface {
	Entries() []entity.PriceEntry
}
