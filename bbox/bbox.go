// Package bbox implements axis-aligned bounding boxes in integer and
// floating-point form, used throughout the engine as data and display
// windows.
package bbox

import "github.com/dcattermole/opencompgraph-go/hash"

// BBox2Di is an axis-aligned integer rectangle covering [MinX, MaxX) x
// [MinY, MaxY), with MinX <= MaxX and MinY <= MaxY: a W x H image has the
// window (0,0,W,H). The zero value (0,0,0,0) represents an empty box.
type BBox2Di struct {
	MinX, MinY, MaxX, MaxY int32
}

// NewI constructs a BBox2Di, ordering the corners so Min <= Max on both axes.
func NewI(minX, minY, maxX, maxY int32) BBox2Di {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return BBox2Di{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Width returns MaxX - MinX.
func (b BBox2Di) Width() int32 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b BBox2Di) Height() int32 { return b.MaxY - b.MinY }

// Area returns Width * Height.
func (b BBox2Di) Area() int32 { return b.Width() * b.Height() }

// Combine returns the smallest box containing both a and b.
func Combine(a, b BBox2Di) BBox2Di {
	return BBox2Di{
		MinX: minI(a.MinX, b.MinX),
		MinY: minI(a.MinY, b.MinY),
		MaxX: maxI(a.MaxX, b.MaxX),
		MaxY: maxI(a.MaxY, b.MaxY),
	}
}

// Intersection returns the overlapping rectangle of a and b, or the zero
// box (0,0,0,0) when they are disjoint.
func Intersection(a, b BBox2Di) BBox2Di {
	minX := maxI(a.MinX, b.MinX)
	minY := maxI(a.MinY, b.MinY)
	maxX := minI(a.MaxX, b.MaxX)
	maxY := minI(a.MaxY, b.MaxY)
	if minX > maxX || minY > maxY {
		return BBox2Di{}
	}
	return BBox2Di{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// HashInto folds b's fields into d in field order.
func (b BBox2Di) HashInto(d *hash.Digest) {
	d.WriteInt32(b.MinX)
	d.WriteInt32(b.MinY)
	d.WriteInt32(b.MaxX)
	d.WriteInt32(b.MaxY)
}

func minI(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// BBox2Df is the floating-point counterpart of BBox2Di, used for
// normalized-FOV-space bounding boxes passed to the lens-distortion oracle.
type BBox2Df struct {
	MinX, MinY, MaxX, MaxY float32
}

// NewF constructs a BBox2Df, ordering the corners so Min <= Max on both axes.
func NewF(minX, minY, maxX, maxY float32) BBox2Df {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return BBox2Df{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Width returns MaxX - MinX.
func (b BBox2Df) Width() float32 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b BBox2Df) Height() float32 { return b.MaxY - b.MinY }

// Area returns Width * Height.
func (b BBox2Df) Area() float32 { return b.Width() * b.Height() }

// CombineF returns the smallest box containing both a and b.
func CombineF(a, b BBox2Df) BBox2Df {
	return BBox2Df{
		MinX: minF(a.MinX, b.MinX),
		MinY: minF(a.MinY, b.MinY),
		MaxX: maxF(a.MaxX, b.MaxX),
		MaxY: maxF(a.MaxY, b.MaxY),
	}
}

// IntersectionF returns the overlapping rectangle of a and b, or the zero
// box when they are disjoint.
func IntersectionF(a, b BBox2Df) BBox2Df {
	minX := maxF(a.MinX, b.MinX)
	minY := maxF(a.MinY, b.MinY)
	maxX := minF(a.MaxX, b.MaxX)
	maxY := minF(a.MaxY, b.MaxY)
	if minX > maxX || minY > maxY {
		return BBox2Df{}
	}
	return BBox2Df{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// HashInto folds b's fields into d in field order, via the canonical float
// hash so that byte-equal floats always fold equal.
func (b BBox2Df) HashInto(d *hash.Digest) {
	d.WriteFloat32(b.MinX)
	d.WriteFloat32(b.MinY)
	d.WriteFloat32(b.MaxX)
	d.WriteFloat32(b.MaxY)
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
