package catalog

import "discount-service/internal/entity"

// PriceList1 holds whole-unit prices for items A through M.
var PriceList1 = NewStatic("1", map[entity.ItemID]float64{
	"A": 100.0,
	"B": 101.0,
	"C": 102.0,
	"D": 103.0,
	"E": 104.0,
	"F": 105.0,
	"G": 106.0,
	"H": 107.0,
	"I": 108.0,
	"J": 109.0,
	"K": 110.0,
	"L": 111.0,
	"M": 112.0,
})

// PriceList2 holds fractional prices for A and O through Z.
var PriceList2 = NewStatic("2", map[entity.ItemID]float64{
	"A": 0.1000,
	"O": 0.1010,
	"P": 0.1020,
	"Q": 0.1030,
	"R": 0.1040,
	"S": 0.1050,
	"T": 0.1060,
	"U": 0.1070,
	"W": 0.1080,
	"V": 0.1090,
	"X": 0.1100,
	"Y": 0.1110,
	"Z": 0.1120,
})

// Registry resolves catalogs by name.
type Registry struct {
	catalogs map[string]Catalog
}

// NewRegistry returns a registry seeded with the given catalogs.
func NewRegistry(catalogs ...Catalog) *Registry {
	r := &Registry{catalogs: make(map[string]Catalog, len(catalogs))}
	for _, c := range catalogs {
		r.Register(c)
	}
	return r
}

// DefaultRegistry holds the two reference price lists.
func DefaultRegistry() *Registry {
	return NewRegistry(PriceList1, PriceList2)
}

func (r *Registry) Register(c Catalog) {
	r.catalogs[c.Name()] = c
}

func (r *Registry) Lookup(name string) (Catalog, bool) {
	c, ok := r.catalogs[name]
	return c, ok
}
