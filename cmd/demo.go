package main

import (
	"fmt"
	"io"

	"discount-service/internal/basket"
	"discount-service/internal/catalog"
	"discount-service/internal/checkout"
	"discount-service/internal/discount"
	"discount-service/internal/entity"
)

type scenario struct {
	label   string
	catalog catalog.Catalog
	items   string
}

var scenarios = []scenario{
	{"Basket_1", catalog.PriceList1, "AB"},
	{"Basket_1", catalog.PriceList1, "ABABAB"},
	{"Basket_1", catalog.PriceList1, "DE"},
	{"Basket_1", catalog.PriceList1, "DEDE"},
	{"Basket_1", catalog.PriceList1, "EFG"},
	{"Basket_1", catalog.PriceList1, "EFGEFG"},
	{"Basket_1", catalog.PriceList1, "AKLM"},
	{"Basket_1", catalog.PriceList1, "AKLMAKLM"},
	{"Basket_1", catalog.PriceList1, "IJK"},
	{"Basket_1", catalog.PriceList1, "IJKL"},
	{"Basket_1", catalog.PriceList1, "IJKLM"},
	{"Basket_1", catalog.PriceList1, "ABCDEIJKLMWZABA"},
	{"Basket_2", catalog.PriceList2, "ABCDEIJKLMWZABA"},
}

func itemsOf(s string) []entity.ItemID {
	items := make([]entity.ItemID, 0, len(s))
	for _, r := range s {
		items = append(items, entity.ItemID(r))
	}
	return items
}

// runDemo prices each reference basket with its own Basket instance.
func runDemo(w io.Writer, chain *discount.Chain) {
	for _, sc := range scenarios {
		b := basket.New(itemsOf(sc.items), sc.catalog)
		result := checkout.Total(chain, b)
		fmt.Fprintf(w, "%s: %s\n%s\n\n", sc.label, sc.items, result.Display())
	}
}
