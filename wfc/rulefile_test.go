package wfc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lodeb/tilewave/grid"
)

func TestParseRuleSetSequenceForm(t *testing.T) {
	src := []byte(`
- [[1], [1], [1], [1]]
- [[0], [0], [0], [0]]
`)
	rs, err := ParseRuleSet(src)
	if err != nil {
		t.Fatalf("Expected parse to succeed, got %v", err)
	}
	if rs.Len() != 2 {
		t.Errorf("Expected 2 options, got %d", rs.Len())
	}
	if rs.Weighted() {
		t.Error("Expected sequence form to be unweighted")
	}
	if !rs.Allowed(1, grid.Up).Has(0) {
		t.Error("Expected 0 above 1")
	}
}

func TestParseRuleSetMappingFormWithWeights(t *testing.T) {
	src := []byte(`
rules:
  - [[1], [1], [1], [1]]
  - [[0], [0], [0], [0]]
weights: [3.0, 1.0]
`)
	rs, err := ParseRuleSet(src)
	if err != nil {
		t.Fatalf("Expected parse to succeed, got %v", err)
	}
	if !rs.Weighted() {
		t.Error("Expected weighted rule set")
	}
	if rs.Weight(0) != 3.0 {
		t.Errorf("Expected weight 3.0 for option 0, got %v", rs.Weight(0))
	}
}

func TestParseRuleSetRejectsBadShape(t *testing.T) {
	// Three direction sets instead of four.
	if _, err := ParseRuleSet([]byte(`[[[1], [1], [1]]]`)); err == nil {
		t.Error("Expected short direction list to be rejected")
	}
	if _, err := ParseRuleSet([]byte(`42`)); err == nil {
		t.Error("Expected scalar document to be rejected")
	}
	if _, err := ParseRuleSet([]byte(``)); err == nil {
		t.Error("Expected empty document to be rejected")
	}
}

func TestParseRuleSetValidatesAtLoadTime(t *testing.T) {
	// References option 9, which does not exist.
	_, err := ParseRuleSet([]byte(`[[[9], [], [], []]]`))
	var re *RuleError
	if !errors.As(err, &re) || re.Kind != UnknownOption {
		t.Errorf("Expected UnknownOption at load time, got %v", err)
	}
}

func TestLoadRuleSetFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(`[[[0], [0], [0], [0]]]`), 0o644); err != nil {
		t.Fatal(err)
	}
	rs, err := LoadRuleSet(path)
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if rs.Len() != 1 {
		t.Errorf("Expected 1 option, got %d", rs.Len())
	}

	if _, err := LoadRuleSet(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected missing file to fail")
	}
}
