// Package basket holds the mutable multiset of items a checkout works on.
//
// A Basket is owned by exactly one checkout pass; it is not safe for
// concurrent use and must never be shared between checkouts.
package basket

import (
	"discount-service/internal/catalog"
	"discount-service/internal/entity"
)

type Basket struct {
	items   []entity.ItemID
	catalog catalog.Catalog
}

// New builds a basket from items, dropping every id the catalog does not sell.
func New(items []entity.ItemID, c catalog.Catalog) *Basket {
	kept := make([]entity.ItemID, 0, len(items))
	for _, id := range items {
		if c.Contains(id) {
			kept = append(kept, id)
		}
	}
	return &Basket{items: kept, catalog: c}
}

func (b *Basket) Catalog() catalog.Catalog {
	return b.catalog
}

// Contents returns a snapshot of the remaining items in basket order.
func (b *Basket) Contents() []entity.ItemID {
	out := make([]entity.ItemID, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Basket) Len() int {
	return len(b.items)
}

// Count returns how many occurrences of id remain.
func (b *Basket) Count(id entity.ItemID) int {
	n := 0
	for _, it := range b.items {
		if it == id {
			n++
		}
	}
	return n
}

// Has reports whether the basket can supply every id in ids at once,
// respecting multiplicity: Has("A", "A") needs two A's.
func (b *Basket) Has(ids ...entity.ItemID) bool {
	need := make(map[entity.ItemID]int, len(ids))
	for _, id := range ids {
		need[id]++
	}
	for id, n := range need {
		if b.Count(id) < n {
			return false
		}
	}
	return true
}

// ExtractAndPrice removes one occurrence of each target still present and
// returns their summed price reduced by fraction. Missing targets add nothing.
func (b *Basket) ExtractAndPrice(targets []entity.ItemID, fraction float64) float64 {
	var sum float64
	for _, id := range targets {
		idx := b.indexOf(id)
		if idx < 0 {
			continue
		}
		b.items = append(b.items[:idx], b.items[idx+1:]...)
		price, _ := b.catalog.Price(id)
		sum += price * (1 - fraction)
	}
	return sum
}

// LiquidateRemainder prices everything left at full price and empties the basket.
func (b *Basket) LiquidateRemainder() float64 {
	var sum float64
	for _, id := range b.items {
		price, _ := b.catalog.Price(id)
		sum += price
	}
	b.items = b.items[:0]
	return sum
}

func (b *Basket) indexOf(id entity.ItemID) int {
	for i, it := range b.items {
		if it == id {
			return i
		}
	}
	return -1
}
