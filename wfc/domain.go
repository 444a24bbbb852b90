package wfc

import "math/bits"

// Option identifies one placeable choice: a tile texture index or a
// pre-authored pattern id. Options are dense, starting at 0.
type Option uint32

// Domain is the set of options still possible for a cell, stored as a bitmask.
// The word count is fixed at construction by the rule set's option count.
type Domain []uint64

// NewDomain returns an empty domain sized for n options.
func NewDomain(n int) Domain {
	return make(Domain, (n+63)/64)
}

// FullDomain returns a domain containing every option in [0, n).
func FullDomain(n int) Domain {
	d := NewDomain(n)
	for i := 0; i < n; i++ {
		d[i>>6] |= 1 << (uint(i) & 63)
	}
	return d
}

func (d Domain) Has(o Option) bool {
	w := int(o >> 6)
	if w >= len(d) {
		return false
	}
	return d[w]&(1<<(uint64(o)&63)) != 0
}

func (d Domain) Add(o Option) {
	d[o>>6] |= 1 << (uint64(o) & 63)
}

func (d Domain) Remove(o Option) {
	d[o>>6] &^= 1 << (uint64(o) & 63)
}

// Count returns the number of options in the set.
func (d Domain) Count() int {
	n := 0
	for _, w := range d {
		n += bits.OnesCount64(w)
	}
	return n
}

// Empty reports whether no options remain.
func (d Domain) Empty() bool {
	for _, w := range d {
		if w != 0 {
			return false
		}
	}
	return true
}

// IntersectWith restricts d in place to options also in other.
// It reports whether d changed.
func (d Domain) IntersectWith(other Domain) bool {
	changed := false
	for i := range d {
		var w uint64
		if i < len(other) {
			w = other[i]
		}
		next := d[i] & w
		if next != d[i] {
			changed = true
			d[i] = next
		}
	}
	return changed
}

// UnionWith adds every option of other to d.
func (d Domain) UnionWith(other Domain) {
	for i := range d {
		if i < len(other) {
			d[i] |= other[i]
		}
	}
}

func (d Domain) Clear() {
	for i := range d {
		d[i] = 0
	}
}

func (d Domain) Clone() Domain {
	out := make(Domain, len(d))
	copy(out, d)
	return out
}

func (d Domain) CopyFrom(other Domain) {
	copy(d, other)
}

// First returns the lowest option in the set; ok is false for an empty domain.
func (d Domain) First() (Option, bool) {
	for i, w := range d {
		if w != 0 {
			return Option(i<<6 + bits.TrailingZeros64(w)), true
		}
	}
	return 0, false
}

// Each visits options in ascending order.
func (d Domain) Each(fn func(Option)) {
	for i, w := range d {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			fn(Option(i<<6 + b))
			w &^= 1 << uint(b)
		}
	}
}

// Equal reports whether two domains hold the same option set.
func (d Domain) Equal(other Domain) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}
