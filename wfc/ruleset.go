package wfc

import (
	"fmt"
	"math"

	"github.com/lodeb/tilewave/grid"
)

// RuleErrorKind classifies rule-set construction failures.
type RuleErrorKind uint8

const (
	// UnknownOption marks a neighbor reference to an option index outside
	// the rule table.
	UnknownOption RuleErrorKind = iota
	// AsymmetricRule marks a pair where B is allowed next to A in some
	// direction but A is not allowed next to B in the opposite one.
	AsymmetricRule
	// BadWeight marks a non-positive or non-finite option weight.
	BadWeight
)

// RuleError reports a malformed rule set. Construction fails fast; a solver
// never sees an invalid table.
type RuleError struct {
	Kind      RuleErrorKind
	Option    Option
	Neighbor  Option
	Direction grid.Direction
}

func (e *RuleError) Error() string {
	switch e.Kind {
	case UnknownOption:
		return fmt.Sprintf("wfc: rule for option %d references unknown option %d (%s)",
			e.Option, e.Neighbor, e.Direction)
	case AsymmetricRule:
		return fmt.Sprintf("wfc: asymmetric rule: option %d allows %d %s, but %d does not allow %d %s",
			e.Option, e.Neighbor, e.Direction, e.Neighbor, e.Option, e.Direction.Opposite())
	case BadWeight:
		return fmt.Sprintf("wfc: option %d has invalid weight", e.Option)
	}
	return "wfc: invalid rule set"
}

// RuleSet is the adjacency constraint table: for each option and direction,
// the set of options permitted as a neighbor on that side. Immutable once
// built, safe to share across concurrent solves.
type RuleSet struct {
	allowed [][grid.DirCount]Domain
	weights []float64
	// Precomputed -w*log2(w) terms for Shannon entropy; nil when unweighted.
	plogp []float64
}

// NewRuleSet validates and builds a rule table. rules[i][d] lists the options
// allowed in direction d (up, right, left, down) of option i. weights may be
// nil for a non-weighted set; otherwise it must cover every option with
// positive finite values.
func NewRuleSet(rules [][grid.DirCount][]uint32, weights []float64) (*RuleSet, error) {
	n := len(rules)
	rs := &RuleSet{allowed: make([][grid.DirCount]Domain, n)}

	for i := range rules {
		for d := 0; d < grid.DirCount; d++ {
			dom := NewDomain(n)
			for _, nb := range rules[i][d] {
				if int(nb) >= n {
					return nil, &RuleError{
						Kind:      UnknownOption,
						Option:    Option(i),
						Neighbor:  Option(nb),
						Direction: grid.Direction(d),
					}
				}
				dom.Add(Option(nb))
			}
			rs.allowed[i][d] = dom
		}
	}

	// Symmetry: B in allowed(A, d) must imply A in allowed(B, opposite(d)).
	// Asymmetric tables are rejected, never silently patched.
	for i := range rs.allowed {
		for d := grid.Direction(0); d < grid.DirCount; d++ {
			var symErr *RuleError
			rs.allowed[i][d].Each(func(nb Option) {
				if symErr != nil {
					return
				}
				if !rs.allowed[nb][d.Opposite()].Has(Option(i)) {
					symErr = &RuleError{
						Kind:      AsymmetricRule,
						Option:    Option(i),
						Neighbor:  nb,
						Direction: d,
					}
				}
			})
			if symErr != nil {
				return nil, symErr
			}
		}
	}

	if weights != nil {
		if len(weights) != n {
			return nil, &RuleError{Kind: BadWeight, Option: Option(len(weights))}
		}
		for i, w := range weights {
			if w <= 0 || math.IsInf(w, 0) || math.IsNaN(w) {
				return nil, &RuleError{Kind: BadWeight, Option: Option(i)}
			}
		}
		rs.weights = append([]float64(nil), weights...)
		rs.plogp = make([]float64, n)
		for i, w := range rs.weights {
			rs.plogp[i] = w * math.Log2(w)
		}
	}

	return rs, nil
}

// Len returns the number of options.
func (rs *RuleSet) Len() int { return len(rs.allowed) }

// Allowed returns the options permitted in direction d of opt. The returned
// domain is shared and must not be mutated.
func (rs *RuleSet) Allowed(opt Option, d grid.Direction) Domain {
	return rs.allowed[opt][d]
}

// Weighted reports whether options carry sampling weights.
func (rs *RuleSet) Weighted() bool { return rs.weights != nil }

// Weight returns opt's sampling weight, 1 for unweighted sets.
func (rs *RuleSet) Weight(opt Option) float64 {
	if rs.weights == nil {
		return 1
	}
	return rs.weights[opt]
}

// FullDomain returns a fresh domain holding every option.
func (rs *RuleSet) FullDomain() Domain {
	return FullDomain(len(rs.allowed))
}

// entropy computes the selection key for a domain: Shannon entropy over the
// remaining options' weights for weighted sets, plain cardinality otherwise.
// Collapsed and empty domains return 0.
func (rs *RuleSet) entropy(d Domain) float64 {
	c := d.Count()
	if c <= 1 {
		return 0
	}
	if rs.weights == nil {
		return float64(c)
	}
	var sum, sumPlogp float64
	d.Each(func(o Option) {
		sum += rs.weights[o]
		sumPlogp += rs.plogp[o]
	})
	// H = log2(sum w) - sum(w log2 w)/sum w
	return math.Log2(sum) - sumPlogp/sum
}
