package generator

import (
	"math/rand/v2"

	"pkg.jsn.cam/seceventgen/pkg/taxonomy"
)

// Policy decides which (category, subcategory) pair each record gets
type Policy interface {
	// Init prepares a run of at most limit records. The taxonomy has
	// already been validated.
	Init(t *taxonomy.Taxonomy, limit int, r *rand.Rand)

	// Count returns the exact number of records the run will emit
	Count() int

	// Next returns the pair for the next record. It is called Count times.
	Next() taxonomy.Pair

	// Description returns a human-readable description of the policy
	Description() string
}

// WeightedPolicy emits every pair's weight in taxonomy order, stopping once
// the limit is reached. The run has min(sum of weights, limit) records and
// truncation drops the tail of the pair sequence.
type WeightedPolicy struct {
	pairs     []taxonomy.Pair
	count     int
	idx       int // current pair
	remaining int // records left for the current pair
}

func (p *WeightedPolicy) Init(t *taxonomy.Taxonomy, limit int, _ *rand.Rand) {
	p.pairs = t.Pairs()
	p.count = min(t.TotalWeight(), limit)
	p.idx = 0
	if len(p.pairs) > 0 {
		p.remaining = p.pairs[0].Weight
	}
}

func (p *WeightedPolicy) Count() int {
	return p.count
}

func (p *WeightedPolicy) Next() taxonomy.Pair {
	for p.remaining == 0 && p.idx < len(p.pairs)-1 {
		p.idx++
		p.remaining = p.pairs[p.idx].Weight
	}
	p.remaining--
	return p.pairs[p.idx]
}

func (p *WeightedPolicy) Description() string {
	return "Weighted: each subcategory emitted weight times in taxonomy order, capped at the record count"
}

// UniformPolicy picks a category uniformly, then a subcategory uniformly
// within it, for exactly limit records. Weights are ignored.
type UniformPolicy struct {
	tax   *taxonomy.Taxonomy
	count int
	rand  *rand.Rand
}

func (p *UniformPolicy) Init(t *taxonomy.Taxonomy, limit int, r *rand.Rand) {
	p.tax = t
	p.count = limit
	p.rand = r
}

func (p *UniformPolicy) Count() int {
	return p.count
}

func (p *UniformPolicy) Next() taxonomy.Pair {
	c := p.tax.Categories[p.rand.IntN(len(p.tax.Categories))]
	s := c.Subcategories[p.rand.IntN(len(c.Subcategories))]
	return taxonomy.Pair{Category: c.Name, Subcategory: s.Name, Weight: s.Weight}
}

func (p *UniformPolicy) Description() string {
	return "Uniform: category and subcategory drawn uniformly at random for every record"
}
