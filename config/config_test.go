package config

import (
	"os"
	"path/filepath"
	"testing"
)

type fixedMemory uint64

func (m fixedMemory) TotalSystemMemoryBytes() uint64 { return uint64(m) }

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "open_comp_graph.yaml")
	contents := "cache:\n  ram_capacity_percent: 0.35\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Cache.RAMCapacityPercent != 0.35 {
		t.Fatalf("RAMCapacityPercent = %v, want 0.35", c.Cache.RAMCapacityPercent)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Cache.RAMCapacityPercent <= 0 || c.Cache.RAMCapacityPercent > 1 {
		t.Fatalf("default RAMCapacityPercent out of range: %v", c.Cache.RAMCapacityPercent)
	}
}

func TestCacheCapacityBytes(t *testing.T) {
	c := Config{Cache: Cache{RAMCapacityPercent: 0.5}}
	got := c.CacheCapacityBytes(fixedMemory(1000))
	if got != 500 {
		t.Fatalf("CacheCapacityBytes = %d, want 500", got)
	}
}

func TestCacheCapacityBytes_ZeroPercentFallsBackToDefault(t *testing.T) {
	c := Config{}
	got := c.CacheCapacityBytes(fixedMemory(1000))
	if got != 200 {
		t.Fatalf("CacheCapacityBytes = %d, want 200 (default 0.2 fallback)", got)
	}
}
