// Package cache implements the bounded content-addressed store that
// memoizes StreamData by content hash, keeping the evaluator from
// recomputing any (node, frame) whose hash it has already seen.
package cache

import (
	"container/list"
	"sync"

	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/colorspace"
	"github.com/dcattermole/opencompgraph-go/ocgerr"
	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

// specOverheadBytes is the fixed accounting cost attributed to the
// ImageSpec + windows stored alongside a cached pixel block. Tiny
// relative to pixel data, but it keeps zero-pixel entries from being
// free.
const specOverheadBytes = 128

// CachedImage is the value a Cache entry holds: a shared pixel block plus
// the metadata needed to reconstruct a StreamData on a hit.
type CachedImage struct {
	PixelBlock    *pixelblock.PixelBlock
	Spec          colorspace.ImageSpec
	DataWindow    bbox.BBox2Di
	DisplayWindow bbox.BBox2Di
}

// SizeBytes estimates the in-memory footprint of a CachedImage: the pixel
// block's sample count times its per-sample width, plus spec overhead.
func (c CachedImage) SizeBytes() int64 {
	if c.PixelBlock == nil {
		return specOverheadBytes
	}
	n := int64(c.PixelBlock.Len())
	var bytesPerSample int64
	switch c.PixelBlock.DType {
	case pixelblock.UInt8:
		bytesPerSample = 1
	case pixelblock.UInt16, pixelblock.Half16:
		bytesPerSample = 2
	case pixelblock.Float32:
		bytesPerSample = 4
	}
	return n*bytesPerSample + specOverheadBytes
}

type entry struct {
	hash  uint64
	image CachedImage
	size  int64
}

// Cache is a byte-budgeted, strictly least-recently-used content store.
// Both insert and get count as a "use" that refreshes recency.
type Cache struct {
	mu       sync.Mutex
	capacity int64
	used     int64
	ll       *list.List // list of *entry, front = most recently used
	index    map[uint64]*list.Element
}

// New returns an empty Cache with the given byte budget.
func New(capacityBytes int64) *Cache {
	return &Cache{
		capacity: capacityBytes,
		ll:       list.New(),
		index:    make(map[uint64]*list.Element),
	}
}

// CapacityBytes returns the configured byte budget.
func (c *Cache) CapacityBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capacity
}

// SetCapacityBytes changes the byte budget, evicting LRU entries
// immediately if the new budget is smaller than current usage.
func (c *Cache) SetCapacityBytes(v int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capacity = v
	c.evictUntilFits(0)
}

// UsedBytes returns the sum of SizeBytes() across all cached entries.
func (c *Cache) UsedBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// Get looks up hash, refreshing its recency on a hit.
func (c *Cache) Get(hash uint64) (CachedImage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.index[hash]
	if !ok {
		return CachedImage{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*entry).image, true
}

// Insert stores image under hash, evicting least-recently-used entries
// until it fits. If image alone exceeds capacity, the insert is rejected
// with ocgerr.ErrCapacityExceeded and the cache is left unchanged.
func (c *Cache) Insert(hash uint64, image CachedImage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := image.SizeBytes()
	if size > c.capacity {
		return ocgerr.ErrCapacityExceeded
	}

	if el, ok := c.index[hash]; ok {
		old := el.Value.(*entry)
		c.used -= old.size
		c.ll.Remove(el)
		delete(c.index, hash)
	}

	c.evictUntilFits(size)

	e := &entry{hash: hash, image: image, size: size}
	el := c.ll.PushFront(e)
	c.index[hash] = el
	c.used += size
	return nil
}

// evictUntilFits removes LRU entries from the back of the list until
// used+incoming <= capacity, or the cache is empty.
func (c *Cache) evictUntilFits(incoming int64) {
	for c.used+incoming > c.capacity && c.ll.Len() > 0 {
		back := c.ll.Back()
		e := back.Value.(*entry)
		c.ll.Remove(back)
		delete(c.index, e.hash)
		c.used -= e.size
	}
}
