// Package config loads the engine's ambient YAML configuration: right
// now just the cache's share of system RAM, with room for the rest of a
// pipeline's settings alongside it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dcattermole/opencompgraph-go/oracle"
)

// Cache holds the cache section of the config file.
type Cache struct {
	// RAMCapacityPercent is the fraction of total system RAM (0..1) the
	// cache is allowed to use. Swap/page memory is never counted.
	RAMCapacityPercent float32 `yaml:"ram_capacity_percent"`
}

// Config is the top-level shape of the YAML config file.
type Config struct {
	Cache Cache `yaml:"cache"`
}

// Default returns the configuration used when no file is supplied: 20%
// of system RAM for the cache.
func Default() Config {
	return Config{Cache: Cache{RAMCapacityPercent: 0.2}}
}

// Load reads and parses the YAML config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

// CacheCapacityBytes derives the cache's byte budget as a percentage of
// mem's reported total system memory.
func (c Config) CacheCapacityBytes(mem oracle.SystemMemory) int64 {
	percent := c.Cache.RAMCapacityPercent
	if percent <= 0 {
		percent = 0.2
	}
	total := mem.TotalSystemMemoryBytes()
	return int64(float32(total) * percent)
}
