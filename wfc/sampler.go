package wfc

import "math/rand"

// Sampler picks the concrete option a collapsing cell settles on. dom is
// never empty. Implementations must be deterministic given the rng stream so
// fixed-seed solves reproduce exactly.
type Sampler interface {
	Sample(rng *rand.Rand, dom Domain, rules *RuleSet) Option
}

// UniformSampler picks uniformly over the remaining options.
type UniformSampler struct{}

func (UniformSampler) Sample(rng *rand.Rand, dom Domain, rules *RuleSet) Option {
	n := rng.Intn(dom.Count())
	var picked Option
	i := 0
	dom.Each(func(o Option) {
		if i == n {
			picked = o
		}
		i++
	})
	return picked
}

// WeightedSampler picks proportionally to the rule set's option weights.
// Falls back to uniform for unweighted sets.
type WeightedSampler struct{}

func (WeightedSampler) Sample(rng *rand.Rand, dom Domain, rules *RuleSet) Option {
	if !rules.Weighted() {
		return UniformSampler{}.Sample(rng, dom, rules)
	}
	var total float64
	dom.Each(func(o Option) { total += rules.Weight(o) })

	target := rng.Float64() * total
	picked, _ := dom.First()
	dom.Each(func(o Option) {
		if target >= 0 {
			picked = o
			target -= rules.Weight(o)
		}
	})
	return picked
}

// SamplerFunc adapts a plain function to the Sampler interface, the extension
// point for caller-supplied sampling logic.
type SamplerFunc func(rng *rand.Rand, dom Domain, rules *RuleSet) Option

func (f SamplerFunc) Sample(rng *rand.Rand, dom Domain, rules *RuleSet) Option {
	return f(rng, dom, rules)
}
