package discount

import "discount-service/internal/entity"

// Reference returns the stock rules in chain order.
func Reference() []Rule {
	nonDiscounted := []entity.ItemID{"A", "C"}
	return []Rule{
		// A and B together: 10% off each pair.
		&Combo{Label: "pair-AB", Items: []entity.ItemID{"A", "B"}, Rate: 0.10},
		// D and E together: 5% off each pair.
		&Combo{Label: "pair-DE", Items: []entity.ItemID{"D", "E"}, Rate: 0.05},
		// E, F and G together: 5% off each triple.
		&Combo{Label: "triple-EFG", Items: []entity.ItemID{"E", "F", "G"}, Rate: 0.05},
		// A with one of K, L, M: 5% off the pair.
		&Conditional{Label: "A-with-KLM", Base: "A", Alternatives: []entity.ItemID{"K", "L", "M"}, Rate: 0.05},
		// 5+ items other than A and C: 20% off all of them.
		&Threshold{Label: "bulk-5", Exclude: nonDiscounted, Above: 4, Rate: 0.20},
		// 4 items other than A and C: 10%.
		&Threshold{Label: "bulk-4", Exclude: nonDiscounted, Above: 3, Rate: 0.10},
		// 3 items other than A and C: 5%.
		&Threshold{Label: "bulk-3", Exclude: nonDiscounted, Above: 2, Rate: 0.05},
	}
}

// DefaultChain links the reference rules.
func DefaultChain() *Chain {
	c, err := NewChain(Reference()...)
	if err != nil {
		panic(err)
	}
	return c
}
