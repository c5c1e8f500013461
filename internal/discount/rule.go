package discount

import (
	"errors"
	"fmt"
	"sort"

	"discount-service/internal/basket"
	"discount-service/internal/entity"
)

var (
	ErrEmptyChain  = errors.New("discount chain has no rules")
	ErrNilRule     = errors.New("discount chain contains a nil rule")
	ErrInvalidRule = errors.New("invalid discount rule")
)

// Rule is one link of the discount chain. Apply extracts every qualifying
// combination from b and reports what it took; a rule that finds nothing
// returns nil.
type Rule interface {
	Name() string
	Validate() error
	Apply(b *basket.Basket) []entity.Application
}

func validRate(rate float64) bool {
	return rate >= 0 && rate < 1
}

// Combo discounts a fixed set of items bought together, e.g. A+B or E+F+G.
// It repeats for as long as the whole set is still in the basket.
type Combo struct {
	Label string
	Items []entity.ItemID
	Rate  float64
}

func (r *Combo) Name() string {
	return r.Label
}

func (r *Combo) Validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: %s has no items", ErrInvalidRule, r.Label)
	}
	if !validRate(r.Rate) {
		return fmt.Errorf("%w: %s rate %v outside [0,1)", ErrInvalidRule, r.Label, r.Rate)
	}
	return nil
}

func (r *Combo) Apply(b *basket.Basket) []entity.Application {
	var applied []entity.Application
	for b.Has(r.Items...) {
		amount := b.ExtractAndPrice(r.Items, r.Rate)
		applied = append(applied, entity.Application{Rule: r.Label, Items: cloneItems(r.Items), Amount: amount})
	}
	return applied
}

// Conditional discounts the base item together with one of its alternatives.
// Alternatives are tried in lexical order; each is paired with the base for
// as long as both remain, then dropped for the rest of the pass.
type Conditional struct {
	Label        string
	Base         entity.ItemID
	Alternatives []entity.ItemID
	Rate         float64
}

func (r *Conditional) Name() string {
	return r.Label
}

func (r *Conditional) Validate() error {
	if r.Base == "" {
		return fmt.Errorf("%w: %s has no base item", ErrInvalidRule, r.Label)
	}
	if len(r.Alternatives) == 0 {
		return fmt.Errorf("%w: %s has no alternatives", ErrInvalidRule, r.Label)
	}
	for _, alt := range r.Alternatives {
		if alt == r.Base {
			return fmt.Errorf("%w: %s lists base %s as an alternative", ErrInvalidRule, r.Label, r.Base)
		}
	}
	if !validRate(r.Rate) {
		return fmt.Errorf("%w: %s rate %v outside [0,1)", ErrInvalidRule, r.Label, r.Rate)
	}
	return nil
}

func (r *Conditional) Apply(b *basket.Basket) []entity.Application {
	var applied []entity.Application
	for _, alt := range sortedUnique(r.Alternatives) {
		if b.Count(r.Base) == 0 {
			break
		}
		pair := []entity.ItemID{r.Base, alt}
		for b.Has(pair...) {
			amount := b.ExtractAndPrice(pair, r.Rate)
			applied = append(applied, entity.Application{Rule: r.Label, Items: cloneItems(pair), Amount: amount})
		}
	}
	return applied
}

// Threshold discounts everything left in the basket, except the excluded
// items, once more than Above such items remain. It fires at most once.
type Threshold struct {
	Label   string
	Exclude []entity.ItemID
	Above   int
	Rate    float64
}

func (r *Threshold) Name() string {
	return r.Label
}

func (r *Threshold) Validate() error {
	if r.Above < 0 {
		return fmt.Errorf("%w: %s threshold %d is negative", ErrInvalidRule, r.Label, r.Above)
	}
	if !validRate(r.Rate) {
		return fmt.Errorf("%w: %s rate %v outside [0,1)", ErrInvalidRule, r.Label, r.Rate)
	}
	return nil
}

func (r *Threshold) Apply(b *basket.Basket) []entity.Application {
	excluded := make(map[entity.ItemID]struct{}, len(r.Exclude))
	for _, id := range r.Exclude {
		excluded[id] = struct{}{}
	}

	var eligible []entity.ItemID
	for _, id := range b.Contents() {
		if _, skip := excluded[id]; !skip {
			eligible = append(eligible, id)
		}
	}
	if len(eligible) <= r.Above {
		return nil
	}

	amount := b.ExtractAndPrice(eligible, r.Rate)
	return []entity.Application{{Rule: r.Label, Items: eligible, Amount: amount}}
}

func cloneItems(items []entity.ItemID) []entity.ItemID {
	out := make([]entity.ItemID, len(items))
	copy(out, items)
	return out
}

func sortedUnique(items []entity.ItemID) []entity.ItemID {
	seen := make(map[entity.ItemID]struct{}, len(items))
	out := make([]entity.ItemID, 0, len(items))
	for _, id := range items {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
