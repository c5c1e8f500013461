package discount

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"discount-service/internal/basket"
	"discount-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Chain evaluates its rules in a fixed order against one basket. Each rule
// sees only what earlier rules left behind.
type Chain struct {
	rules []Rule
}

// NewChain links rules in the given order. Misconfiguration is reported here
// rather than during evaluation.
func NewChain(rules ...Rule) (*Chain, error) {
	if len(rules) == 0 {
		return nil, ErrEmptyChain
	}
	for i, r := range rules {
		if r == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNilRule, i)
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	linked := make([]Rule, len(rules))
	copy(linked, rules)
	return &Chain{rules: linked}, nil
}

func (c *Chain) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Run applies every rule in order and returns all extractions made.
func (c *Chain) Run(b *basket.Basket) []entity.Application {
	var applied []entity.Application
	for _, r := range c.rules {
		got := r.Apply(b)
		if len(got) > 0 {
			logger.Debug().Msgf("Rule %s fired %d time(s) for %.2f", r.Name(), len(got), Sum(got))
		}
		applied = append(applied, got...)
	}
	return applied
}

// Evaluate returns the summed value of every extraction the chain makes.
func (c *Chain) Evaluate(b *basket.Basket) float64 {
	return Sum(c.Run(b))
}

func Sum(applied []entity.Application) float64 {
	var total float64
	for _, a := range applied {
		total += a.Amount
	}
	return total
}
