package wfc

import "testing"

func TestDomainBasics(t *testing.T) {
	d := NewDomain(100)
	if !d.Empty() {
		t.Error("Expected new domain to be empty")
	}

	// Straddle the 64-bit word boundary.
	for _, o := range []Option{0, 63, 64, 99} {
		d.Add(o)
		if !d.Has(o) {
			t.Errorf("Expected option %d after Add", o)
		}
	}
	if d.Count() != 4 {
		t.Errorf("Expected count 4, got %d", d.Count())
	}

	d.Remove(64)
	if d.Has(64) {
		t.Error("Expected option 64 removed")
	}
	if d.Has(250) {
		t.Error("Expected out-of-range Has to be false")
	}
}

func TestFullDomain(t *testing.T) {
	d := FullDomain(70)
	if d.Count() != 70 {
		t.Errorf("Expected 70 options, got %d", d.Count())
	}
	if d.Has(70) {
		t.Error("Expected option 70 to be absent")
	}
}

func TestIntersectWith(t *testing.T) {
	d := FullDomain(10)
	allowed := NewDomain(10)
	allowed.Add(2)
	allowed.Add(7)

	if !d.IntersectWith(allowed) {
		t.Error("Expected intersection to report a change")
	}
	if d.Count() != 2 || !d.Has(2) || !d.Has(7) {
		t.Errorf("Expected {2, 7}, got count %d", d.Count())
	}
	// Intersecting with a superset changes nothing.
	if d.IntersectWith(FullDomain(10)) {
		t.Error("Expected no change against a superset")
	}
}

func TestFirstAndEachOrder(t *testing.T) {
	d := NewDomain(130)
	for _, o := range []Option{129, 5, 64} {
		d.Add(o)
	}
	first, ok := d.First()
	if !ok || first != 5 {
		t.Errorf("Expected First to return 5, got (%d, %v)", first, ok)
	}

	var got []Option
	d.Each(func(o Option) { got = append(got, o) })
	want := []Option{5, 64, 129}
	if len(got) != len(want) {
		t.Fatalf("Expected %d options, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Each order at %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := FullDomain(8)
	c := d.Clone()
	c.Remove(3)
	if !d.Has(3) {
		t.Error("Expected clone mutation not to affect the original")
	}
	if !d.Equal(FullDomain(8)) {
		t.Error("Expected original to still equal the full set")
	}
}
