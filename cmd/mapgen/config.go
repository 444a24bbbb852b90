package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// genConfig is the batch-mode generation config, passed as the first CLI
// argument to skip the interactive prompts.
type genConfig struct {
	Rules           string `yaml:"rules"`
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	Seed            int64  `yaml:"seed"`
	RetraceStrength uint32 `yaml:"retrace_strength"`
	MaxRetraceCount uint32 `yaml:"max_retrace_count"`
	MaxHistory      uint32 `yaml:"max_history"`
}

func defaultGenConfig() genConfig {
	return genConfig{
		Rules:           "rules.yaml",
		Width:           48,
		Height:          24,
		RetraceStrength: 1,
		MaxRetraceCount: 64,
		MaxHistory:      256,
	}
}

func loadGenConfig(path string) (genConfig, error) {
	cfg := defaultGenConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c genConfig) validate() error {
	if c.Rules == "" {
		return fmt.Errorf("config: rules path is empty")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}
