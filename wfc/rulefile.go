package wfc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lodeb/tilewave/grid"
)

// Rule files are YAML. The canonical form is a sequence of per-option entries,
// each a sequence of four neighbor lists in direction order up, right, left,
// down, indexed implicitly by position:
//
//	- [[1, 2], [0], [0], [2]]
//	- [[0], [1], [1], [0, 2]]
//
// A mapping form with an optional weight list is also accepted:
//
//	rules:
//	  - [[1], [0], [0], [1]]
//	weights: [2.5, 1.0]

type ruleFile struct {
	Rules   [][][]uint32 `yaml:"rules"`
	Weights []float64    `yaml:"weights"`
}

// ParseRuleSet decodes and validates a YAML rule file.
func ParseRuleSet(data []byte) (*RuleSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("wfc: parse rule file: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("wfc: rule file is empty")
	}

	var rf ruleFile
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&rf.Rules); err != nil {
			return nil, fmt.Errorf("wfc: parse rule file: %w", err)
		}
	case yaml.MappingNode:
		if err := root.Decode(&rf); err != nil {
			return nil, fmt.Errorf("wfc: parse rule file: %w", err)
		}
	default:
		return nil, fmt.Errorf("wfc: rule file must be a sequence or mapping")
	}

	rules := make([][grid.DirCount][]uint32, len(rf.Rules))
	for i, entry := range rf.Rules {
		if len(entry) != grid.DirCount {
			return nil, fmt.Errorf("wfc: option %d has %d direction sets, want %d",
				i, len(entry), grid.DirCount)
		}
		for d := 0; d < grid.DirCount; d++ {
			rules[i][d] = entry[d]
		}
	}
	return NewRuleSet(rules, rf.Weights)
}

// LoadRuleSet reads and parses a rule file from disk.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wfc: read rule file: %w", err)
	}
	return ParseRuleSet(data)
}
