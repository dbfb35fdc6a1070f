package cache

import (
	"testing"

	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

// entryOfBytes returns a CachedImage whose SizeBytes() is exactly n, via
// a single-column float32 RGBA block (4 bytes/sample) plus the fixed
// spec overhead.
func entryOfBytes(n int64) CachedImage {
	samples := (n - specOverheadBytes) / 4
	pb := pixelblock.New(1, int(samples/4), 4, pixelblock.Float32)
	return CachedImage{PixelBlock: pb}
}

// TestEviction: capacity 1 MiB, insert three
// 512 KiB entries in order; after the third, the first is evicted.
func TestEviction(t *testing.T) {
	const mib = 1024 * 1024
	c := New(mib)

	a := entryOfBytes(512 * 1024)
	b := entryOfBytes(512 * 1024)
	cc := entryOfBytes(512 * 1024)

	if err := c.Insert(1, a); err != nil {
		t.Fatalf("insert A: %v", err)
	}
	if err := c.Insert(2, b); err != nil {
		t.Fatalf("insert B: %v", err)
	}
	if err := c.Insert(3, cc); err != nil {
		t.Fatalf("insert C: %v", err)
	}

	if _, ok := c.Get(1); ok {
		t.Fatal("A should have been evicted")
	}
	if _, ok := c.Get(2); !ok {
		t.Fatal("B should still be cached")
	}
	if _, ok := c.Get(3); !ok {
		t.Fatal("C should still be cached")
	}
	if c.UsedBytes() > c.CapacityBytes() {
		t.Fatalf("used %d exceeds capacity %d", c.UsedBytes(), c.CapacityBytes())
	}
}

func TestInsert_RejectsOversizedEntry(t *testing.T) {
	c := New(1024)
	huge := entryOfBytes(2048)
	if err := c.Insert(1, huge); err == nil {
		t.Fatal("expected capacity-exceeded error for an entry larger than the budget")
	}
	if c.UsedBytes() != 0 {
		t.Fatal("rejected insert should not change used bytes")
	}
}

func TestGet_RefreshesRecency(t *testing.T) {
	// Room for two 512 KiB entries, but not three.
	c := New(1280 * 1024)
	a := entryOfBytes(512 * 1024)
	b := entryOfBytes(512 * 1024)
	cc := entryOfBytes(512 * 1024)

	_ = c.Insert(1, a)
	_ = c.Insert(2, b)
	// Touch A so B becomes the least-recently-used entry.
	c.Get(1)
	_ = c.Insert(3, cc)

	if _, ok := c.Get(2); ok {
		t.Fatal("B should have been evicted after A's recency was refreshed")
	}
	if _, ok := c.Get(1); !ok {
		t.Fatal("A should still be cached after being touched")
	}
}

func TestInvariant_UsedNeverExceedsCapacity(t *testing.T) {
	c := New(1024 * 1024)
	for i := 0; i < 20; i++ {
		_ = c.Insert(uint64(i), entryOfBytes(256*1024))
		if c.UsedBytes() > c.CapacityBytes() {
			t.Fatalf("iteration %d: used %d exceeds capacity %d", i, c.UsedBytes(), c.CapacityBytes())
		}
	}
}
