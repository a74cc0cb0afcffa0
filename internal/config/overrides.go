package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InstanceOverride patches a single catalog row after parsing, keyed by
// instance name. Nil fields leave the catalog's own value untouched.
type InstanceOverride struct {
	Price    *float64 `yaml:"price"`
	Consider *bool    `yaml:"consider"`
}

// LoadInstanceOverrides decodes a catalog-default override file: a flat
// map of instance name to the fields it replaces. This is read directly
// with yaml.v3 rather than through viper, since it is a second,
// independent file keyed by instance name rather than a config-shaped
// document the flag/env layer should merge into.
func LoadInstanceOverrides(path string) (map[string]InstanceOverride, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading instance overrides: %w", err)
	}
	var overrides map[string]InstanceOverride
	if err := yaml.Unmarshal(b, &overrides); err != nil {
		return nil, fmt.Errorf("parsing instance overrides: %w", err)
	}
	return overrides, nil
}
